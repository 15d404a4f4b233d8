package avatar

import "context"

// Repository persists avatar metadata. Implementations return
// ErrAvatarNotFound for missing rows.
type Repository interface {
	Create(ctx context.Context, avatar *Avatar) error
	FindByID(ctx context.Context, id int64) (*Avatar, error)
	ListByAccount(ctx context.Context, accountID int64) ([]*Avatar, error)
	Delete(ctx context.Context, id int64) error
}
