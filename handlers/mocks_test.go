package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gitforge/backend/app"
	"github.com/gitforge/backend/auth"
	"github.com/gitforge/backend/config"
	"github.com/gitforge/backend/middleware"
	"github.com/gitforge/backend/models"
	"github.com/gitforge/backend/repositories"
	"github.com/gitforge/backend/services"
)

// MockUserRepository mocks repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	args := m.Called(ctx, login)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) WithTx(tx repositories.Transaction) repositories.UserRepository {
	args := m.Called(tx)
	if args.Get(0) == nil {
		return m
	}
	return args.Get(0).(repositories.UserRepository)
}

// MockTransactionManager runs the callback inline with a nil transaction
type MockTransactionManager struct {
	mock.Mock
}

func (m *MockTransactionManager) Begin(ctx context.Context) (repositories.Transaction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repositories.Transaction), args.Error(1)
}

func (m *MockTransactionManager) InTransaction(ctx context.Context, fn func(ctx context.Context, tx repositories.Transaction) error) error {
	args := m.Called(ctx, fn)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(ctx, nil)
}

// newTestDeps builds the dependency graph over mock persistence
func newTestDeps(t *testing.T, repo *MockUserRepository, txm *MockTransactionManager) *app.Dependencies {
	t.Helper()

	logger := zap.NewNop()
	cfg := &config.Config{
		Auth: config.AuthConfig{
			SecretKey:       "test-secret-key",
			Algorithm:       "HS256",
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 7 * 24 * time.Hour,
		},
		Cookies: config.CookieConfig{HTTPOnly: true, SameSite: "lax"},
	}

	codec, err := auth.NewTokenCodec(cfg.Auth)
	require.NoError(t, err)
	issuer := auth.NewSessionIssuer(codec, cfg.Cookies, cfg.Auth.RefreshTokenTTL)

	return &app.Dependencies{
		Config:         cfg,
		Logger:         logger,
		Users:          repo,
		TxManager:      txm,
		TokenCodec:     codec,
		SessionIssuer:  issuer,
		AuthService:    services.NewAuthService(repo, codec, issuer, logger),
		UserService:    services.NewUserService(repo, txm, logger),
		AuthMiddleware: middleware.NewAuthMiddleware(codec, repo, logger),
	}
}

func uniqueLoginViolation() *pq.Error {
	return &pq.Error{
		Code:    "23505",
		Message: `duplicate key value violates unique constraint "users_login_key"`,
		Detail:  "Key (login)=(alice) already exists.",
	}
}

func seedUser(t *testing.T, id int64, login, password string) *models.User {
	t.Helper()
	digest, err := auth.HashPassword(password)
	require.NoError(t, err)
	user := models.NewUser(login, digest)
	user.ID = id
	return user
}
