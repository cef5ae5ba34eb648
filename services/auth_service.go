package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/gitforge/backend/auth"
	"github.com/gitforge/backend/models"
	"github.com/gitforge/backend/repositories"
)

// AuthService orchestrates credential verification and token refresh against
// the user store.
type AuthService struct {
	users  repositories.UserRepository
	codec  *auth.TokenCodec
	issuer *auth.SessionIssuer
	logger *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(users repositories.UserRepository, codec *auth.TokenCodec, issuer *auth.SessionIssuer, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:  users,
		codec:  codec,
		issuer: issuer,
		logger: logger,
	}
}

// Issuer exposes the session issuer for cookie handling at the boundary.
func (s *AuthService) Issuer() *auth.SessionIssuer {
	return s.issuer
}

// Login verifies a login/password pair and returns the principal. An unknown
// login and a wrong password collapse into the same ErrBadCredentials so the
// response never reveals whether the account exists.
func (s *AuthService) Login(ctx context.Context, login, password string) (*models.User, error) {
	user, err := s.users.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrBadCredentials
		}
		return nil, WrapInternal("failed to look up user", err)
	}

	if !auth.VerifyPassword(password, user.Password) {
		return nil, ErrBadCredentials
	}

	s.logger.Debug("credentials verified", zap.Int64("user_id", user.ID))
	return user, nil
}

// IssueSession mints an access/refresh pair for a verified principal.
func (s *AuthService) IssueSession(user *models.User) (access, refresh string, err error) {
	access, refresh, err = s.issuer.IssueSession(user.ID)
	if err != nil {
		return "", "", WrapInternal("failed to issue session", err)
	}
	return access, refresh, nil
}

// Refresh exchanges a refresh token for a new access token carrying the same
// audience tag. The refresh token itself is not rotated; it stays valid until
// natural expiry.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.codec.Decode(refreshToken)
	if err != nil {
		return "", TranslateTokenError(err)
	}

	user, err := s.users.GetByID(ctx, claims.SubjectID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", WrapInternal("failed to look up user", err)
	}

	access, err := s.issuer.IssueAccess(user.ID, claims.Audience)
	if err != nil {
		return "", WrapInternal("failed to issue access token", err)
	}

	s.logger.Debug("access token refreshed",
		zap.Int64("user_id", user.ID),
		zap.String("audience", claims.Audience))
	return access, nil
}

// TranslateTokenError maps codec failures onto the domain error taxonomy.
func TranslateTokenError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, auth.ErrTokenExpired):
		return ErrTokenExpired
	default:
		return ErrInvalidToken
	}
}
