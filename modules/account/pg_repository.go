package account

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ngavatar/ngavatar/pkg/pg"
)

// PGRepository implements Repository on PostgreSQL.
type PGRepository struct {
	db *pgxpool.Pool
}

// NewPGRepository creates a PostgreSQL-backed account repository.
func NewPGRepository(db *pgxpool.Pool) *PGRepository {
	return &PGRepository{db: db}
}

// Create stores a new account
func (r *PGRepository) Create(ctx context.Context, account *Account) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO accounts (username, password_hash, created_at)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		account.Username, account.PasswordHash, account.CreatedAt,
	).Scan(&account.ID)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return ErrUsernameTaken
		}
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

// FindByID retrieves an account by ID
func (r *PGRepository) FindByID(ctx context.Context, id int64) (*Account, error) {
	var account Account
	err := pgxscan.Get(ctx, r.db, &account,
		`SELECT id, username, password_hash, created_at FROM accounts WHERE id = $1`, id)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account by id: %w", err)
	}
	return &account, nil
}

// FindByUsername retrieves an account by username
func (r *PGRepository) FindByUsername(ctx context.Context, username string) (*Account, error) {
	var account Account
	err := pgxscan.Get(ctx, r.db, &account,
		`SELECT id, username, password_hash, created_at FROM accounts WHERE username = $1`, username)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account by username: %w", err)
	}
	return &account, nil
}

// Delete removes an account by ID
func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return nil
}
