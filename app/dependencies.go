package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/gitforge/backend/auth"
	"github.com/gitforge/backend/config"
	"github.com/gitforge/backend/middleware"
	"github.com/gitforge/backend/models"
	"github.com/gitforge/backend/repositories"
	"github.com/gitforge/backend/repositories/postgres"
	"github.com/gitforge/backend/services"
)

// Dependencies holds all application dependencies. This is the central wiring
// point for dependency injection; no component reads ambient global state.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	DB     *postgres.DB
	Logger *zap.Logger

	// Repository Factory
	RepoFactory *postgres.RepositoryFactory

	// Repositories
	Users     repositories.UserRepository
	TxManager repositories.TransactionManager

	// Auth core
	TokenCodec    *auth.TokenCodec
	SessionIssuer *auth.SessionIssuer

	// Services
	AuthService *services.AuthService
	UserService *services.UserService

	// Middleware
	AuthMiddleware *middleware.AuthMiddleware
}

// NewDependencies creates and wires up all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initDatabase(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := deps.initAuth(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize auth: %w", err)
	}

	deps.initServices()

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initDatabase initializes the PostgreSQL connection, schema and repositories
func (d *Dependencies) initDatabase(ctx context.Context, cfg *config.Config) error {
	factory, err := postgres.NewRepositoryFactory(cfg, d.Logger)
	if err != nil {
		return fmt.Errorf("failed to create repository factory: %w", err)
	}

	d.RepoFactory = factory
	d.DB = factory.GetDB()

	if err := d.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	if err := d.DB.InitSchema(ctx); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	repos := factory.NewRepositories()
	d.Users = repos.Users
	d.TxManager = factory.GetTransactionManager()

	d.Logger.Info("repositories initialized")
	return nil
}

// initAuth initializes the token codec and session issuer
func (d *Dependencies) initAuth(cfg *config.Config) error {
	codec, err := auth.NewTokenCodec(cfg.Auth)
	if err != nil {
		return err
	}

	d.TokenCodec = codec
	d.SessionIssuer = auth.NewSessionIssuer(codec, cfg.Cookies, cfg.Auth.RefreshTokenTTL)
	d.AuthMiddleware = middleware.NewAuthMiddleware(codec, d.Users, d.Logger)

	d.Logger.Info("auth subsystem initialized",
		zap.String("algorithm", cfg.Auth.Algorithm),
		zap.Duration("access_ttl", cfg.Auth.AccessTokenTTL),
		zap.Duration("refresh_ttl", cfg.Auth.RefreshTokenTTL))
	return nil
}

// initServices wires up the service layer
func (d *Dependencies) initServices() {
	d.AuthService = services.NewAuthService(d.Users, d.TokenCodec, d.SessionIssuer, d.Logger)
	d.UserService = services.NewUserService(d.Users, d.TxManager, d.Logger)
}

// SeedAdminUser creates the bootstrap admin account when no such login exists.
// The default credentials are meant to be changed on first login.
func (d *Dependencies) SeedAdminUser(ctx context.Context) error {
	const defaultLogin = "admin"

	if _, err := d.Users.GetByLogin(ctx, defaultLogin); err == nil {
		return nil
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("failed to check admin user: %w", err)
	}

	digest, err := auth.HashPassword(defaultLogin)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	user := models.NewUser(defaultLogin, digest)
	if err := d.Users.Create(ctx, user); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	d.Logger.Info("seeded default admin user", zap.Int64("user_id", user.ID))
	return nil
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error

	if d.RepoFactory != nil {
		if err := d.RepoFactory.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		} else {
			d.Logger.Info("database connection closed")
		}
	}

	if d.Logger != nil {
		_ = d.Logger.Sync()
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during shutdown: %v", errs)
	}

	return nil
}
