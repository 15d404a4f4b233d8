package account

import "context"

// Repository defines account persistence operations.
type Repository interface {
	// Create stores a new account. Returns ErrUsernameTaken on a
	// username collision.
	Create(ctx context.Context, account *Account) error

	// FindByID retrieves an account by ID. Returns ErrAccountNotFound
	// when no account matches.
	FindByID(ctx context.Context, id int64) (*Account, error)

	// FindByUsername retrieves an account by username. Returns
	// ErrAccountNotFound when no account matches.
	FindByUsername(ctx context.Context, username string) (*Account, error)

	// Delete removes an account by ID
	Delete(ctx context.Context, id int64) error
}
