package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/gitforge/backend/auth"
	"github.com/gitforge/backend/models"
	"github.com/gitforge/backend/repositories"
	"github.com/gitforge/backend/utils"
)

// UserService handles user account management: registration, retrieval,
// listing and deletion.
type UserService struct {
	users     repositories.UserRepository
	txManager repositories.TransactionManager
	logger    *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(users repositories.UserRepository, txManager repositories.TransactionManager, logger *zap.Logger) *UserService {
	return &UserService{
		users:     users,
		txManager: txManager,
		logger:    logger,
	}
}

// Create registers a new user and returns its id. The password is checked
// against the strength conditions, hashed, and stored in a transaction;
// uniqueness violations surface as field-derived validation codes.
func (s *UserService) Create(ctx context.Context, login, password, confirmPassword string) (int64, error) {
	if password != confirmPassword {
		return 0, ErrPasswordsDoNotMatch
	}
	if !utils.ValidatePasswordStrength(password) {
		return 0, ErrPasswordTooWeak
	}

	digest, err := auth.HashPassword(password)
	if err != nil {
		return 0, WrapInternal("failed to hash password", err)
	}

	user := models.NewUser(login, digest)
	err = s.txManager.InTransaction(ctx, func(ctx context.Context, tx repositories.Transaction) error {
		return s.users.WithTx(tx).Create(ctx, user)
	})
	if err != nil {
		return 0, TranslateConstraintViolation(err)
	}

	s.logger.Info("user created", zap.Int64("id", user.ID), zap.String("login", user.Login))
	return user.ID, nil
}

// GetByID retrieves a user by primary key.
func (s *UserService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserMissing
		}
		return nil, WrapInternal("failed to get user", err)
	}
	return user, nil
}

// List retrieves all users.
func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, WrapInternal("failed to list users", err)
	}
	return users, nil
}

// Delete removes a user. Principals cannot delete themselves; deleting a
// missing user is a not-found error. Foreign-key violations (the user still
// owns records) surface as field-derived validation codes.
func (s *UserService) Delete(ctx context.Context, currentUserID, targetID int64) error {
	if currentUserID == targetID {
		return ErrCannotDeleteSelf
	}

	if _, err := s.users.GetByID(ctx, targetID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrUserMissing
		}
		return WrapInternal("failed to get user", err)
	}

	err := s.txManager.InTransaction(ctx, func(ctx context.Context, tx repositories.Transaction) error {
		return s.users.WithTx(tx).Delete(ctx, targetID)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrUserMissing
		}
		return TranslateConstraintViolation(err)
	}

	s.logger.Info("user deleted", zap.Int64("id", targetID), zap.Int64("by", currentUserID))
	return nil
}
