package email

import "context"

// Repository defines email persistence operations.
type Repository interface {
	// Create stores a new email record. Returns ErrEmailTaken when the
	// address is already registered.
	Create(ctx context.Context, email *Email) error

	// FindByID retrieves an email by ID
	FindByID(ctx context.Context, id int64) (*Email, error)

	// FindByHash retrieves an email by its public address hash
	FindByHash(ctx context.Context, hash string) (*Email, error)

	// FindByVerifyCode retrieves an email by its verification code
	FindByVerifyCode(ctx context.Context, code string) (*Email, error)

	// ListByAccount returns all emails bound to an account
	ListByAccount(ctx context.Context, accountID int64) ([]*Email, error)

	// MarkVerified flags the email verified and clears its code
	MarkVerified(ctx context.Context, id int64) error

	// BindAvatar points the email at an avatar, nil to unbind
	BindAvatar(ctx context.Context, id int64, avatarID *int64) error

	// UnbindAvatar clears the binding on every email pointing at the
	// given avatar
	UnbindAvatar(ctx context.Context, avatarID int64) error

	// Delete removes an email by ID
	Delete(ctx context.Context, id int64) error
}
