package email

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ngavatar/ngavatar/pkg/pg"
)

const emailColumns = `id, account_id, address, hash, verified, verify_code, code_expires_at, avatar_id, created_at`

// PGRepository implements Repository on PostgreSQL.
type PGRepository struct {
	db *pgxpool.Pool
}

// NewPGRepository creates a PostgreSQL-backed email repository.
func NewPGRepository(db *pgxpool.Pool) *PGRepository {
	return &PGRepository{db: db}
}

// Create stores a new email record
func (r *PGRepository) Create(ctx context.Context, email *Email) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO emails (account_id, address, hash, verified, verify_code, code_expires_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		email.AccountID, email.Address, email.Hash, email.Verified,
		email.VerifyCode, email.CodeExpiresAt, email.CreatedAt,
	).Scan(&email.ID)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("create email: %w", err)
	}
	return nil
}

// FindByID retrieves an email by ID
func (r *PGRepository) FindByID(ctx context.Context, id int64) (*Email, error) {
	return r.get(ctx, `SELECT `+emailColumns+` FROM emails WHERE id = $1`, id)
}

// FindByHash retrieves an email by its public address hash
func (r *PGRepository) FindByHash(ctx context.Context, hash string) (*Email, error) {
	return r.get(ctx, `SELECT `+emailColumns+` FROM emails WHERE hash = $1`, hash)
}

// FindByVerifyCode retrieves an email by its verification code
func (r *PGRepository) FindByVerifyCode(ctx context.Context, code string) (*Email, error) {
	return r.get(ctx, `SELECT `+emailColumns+` FROM emails WHERE verify_code = $1`, code)
}

// ListByAccount returns all emails bound to an account
func (r *PGRepository) ListByAccount(ctx context.Context, accountID int64) ([]*Email, error) {
	var emails []*Email
	err := pgxscan.Select(ctx, r.db, &emails,
		`SELECT `+emailColumns+` FROM emails WHERE account_id = $1 ORDER BY id`, accountID)
	if err != nil {
		return nil, fmt.Errorf("list emails: %w", err)
	}
	return emails, nil
}

// MarkVerified flags the email verified and clears its code
func (r *PGRepository) MarkVerified(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE emails SET verified = TRUE, verify_code = '' WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark email verified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrEmailNotFound
	}
	return nil
}

// BindAvatar points the email at an avatar, nil to unbind
func (r *PGRepository) BindAvatar(ctx context.Context, id int64, avatarID *int64) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE emails SET avatar_id = $1 WHERE id = $2`, avatarID, id)
	if err != nil {
		return fmt.Errorf("bind avatar: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrEmailNotFound
	}
	return nil
}

// UnbindAvatar clears the binding on every email pointing at the avatar
func (r *PGRepository) UnbindAvatar(ctx context.Context, avatarID int64) error {
	if _, err := r.db.Exec(ctx,
		`UPDATE emails SET avatar_id = NULL WHERE avatar_id = $1`, avatarID); err != nil {
		return fmt.Errorf("unbind avatar: %w", err)
	}
	return nil
}

// Delete removes an email by ID
func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM emails WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete email: %w", err)
	}
	return nil
}

func (r *PGRepository) get(ctx context.Context, query string, arg any) (*Email, error) {
	var email Email
	err := pgxscan.Get(ctx, r.db, &email, query, arg)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrEmailNotFound
		}
		return nil, fmt.Errorf("find email: %w", err)
	}
	return &email, nil
}
