package repositories

import (
	"context"
	"errors"

	"github.com/gitforge/backend/models"
)

// ErrNotFound is returned when a queried record does not exist.
var ErrNotFound = errors.New("record not found")

// TransactionManager manages database transactions
type TransactionManager interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) (Transaction, error)

	// InTransaction executes a function within a transaction
	// Automatically commits if function succeeds, rolls back on error
	InTransaction(ctx context.Context, fn func(ctx context.Context, tx Transaction) error) error
}

// Transaction represents a database transaction
type Transaction interface {
	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Context returns the transaction context
	Context() context.Context
}

// UserRepository handles user data operations. Every read returns a fully
// loaded value record detached from any session state.
type UserRepository interface {
	// Create inserts a new user and fills in the generated id
	Create(ctx context.Context, user *models.User) error

	// GetByID retrieves a user by primary key
	GetByID(ctx context.Context, id int64) (*models.User, error)

	// GetByLogin retrieves a user by unique login
	GetByLogin(ctx context.Context, login string) (*models.User, error)

	// List retrieves all users
	List(ctx context.Context) ([]*models.User, error)

	// Delete deletes a user by primary key
	Delete(ctx context.Context, id int64) error

	// WithTx returns a new repository instance bound to the transaction
	WithTx(tx Transaction) UserRepository
}

// Repositories aggregates all repository interfaces
type Repositories struct {
	Users UserRepository
}
