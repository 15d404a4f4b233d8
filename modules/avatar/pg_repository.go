package avatar

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ngavatar/ngavatar/pkg/pg"
)

const avatarColumns = `id, account_id, title, file_path, content_type, size, created_at`

// PGRepository implements Repository on PostgreSQL.
type PGRepository struct {
	db *pgxpool.Pool
}

// NewPGRepository creates a PostgreSQL-backed avatar repository.
func NewPGRepository(db *pgxpool.Pool) *PGRepository {
	return &PGRepository{db: db}
}

// Create stores a new avatar row
func (r *PGRepository) Create(ctx context.Context, avatar *Avatar) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO avatars (account_id, title, file_path, content_type, size, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		avatar.AccountID, avatar.Title, avatar.FilePath,
		avatar.ContentType, avatar.Size, avatar.CreatedAt,
	).Scan(&avatar.ID)
	if err != nil {
		return fmt.Errorf("create avatar: %w", err)
	}
	return nil
}

// FindByID retrieves an avatar by ID
func (r *PGRepository) FindByID(ctx context.Context, id int64) (*Avatar, error) {
	var avatar Avatar
	err := pgxscan.Get(ctx, r.db, &avatar,
		`SELECT `+avatarColumns+` FROM avatars WHERE id = $1`, id)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrAvatarNotFound
		}
		return nil, fmt.Errorf("find avatar: %w", err)
	}
	return &avatar, nil
}

// ListByAccount returns all avatars owned by an account
func (r *PGRepository) ListByAccount(ctx context.Context, accountID int64) ([]*Avatar, error) {
	var avatars []*Avatar
	err := pgxscan.Select(ctx, r.db, &avatars,
		`SELECT `+avatarColumns+` FROM avatars WHERE account_id = $1 ORDER BY id`, accountID)
	if err != nil {
		return nil, fmt.Errorf("list avatars: %w", err)
	}
	return avatars, nil
}

// Delete removes an avatar row by ID
func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM avatars WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete avatar: %w", err)
	}
	return nil
}
