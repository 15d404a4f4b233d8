package session

import (
	"context"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ngavatar/ngavatar/pkg/pg"
)

// PGStore implements Store on PostgreSQL. Attribute payloads are stored
// as the versioned JSON envelope produced by EncodeData.
type PGStore struct {
	db *pgxpool.Pool
}

// NewPGStore creates a PostgreSQL-backed session store.
func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

type sessionRow struct {
	ID         int64     `db:"id"`
	SessionKey string    `db:"session_key"`
	Data       []byte    `db:"data"`
	ExpiresAt  time.Time `db:"expires_at"`
	CreatorIP  string    `db:"creator_ip"`
	CreatedAt  time.Time `db:"created_at"`
}

// Create stores a new session
func (s *PGStore) Create(ctx context.Context, session *Session) error {
	if session == nil || session.Key == "" {
		return ErrInvalidSession
	}

	payload, err := EncodeData(session.Data)
	if err != nil {
		return err
	}

	err = s.db.QueryRow(ctx,
		`INSERT INTO sessions (session_key, data, expires_at, creator_ip, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		session.Key, payload, session.ExpiresAt, session.CreatorIP, session.CreatedAt,
	).Scan(&session.ID)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// Load retrieves a session by key
func (s *PGStore) Load(ctx context.Context, key string) (*Session, error) {
	var row sessionRow
	err := pgxscan.Get(ctx, s.db, &row,
		`SELECT id, session_key, data, expires_at, creator_ip, created_at
		 FROM sessions WHERE session_key = $1`,
		key,
	)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	attrs, err := DecodeData(row.Data)
	if err != nil {
		return nil, err
	}

	return &Session{
		ID:        row.ID,
		Key:       row.SessionKey,
		Data:      attrs,
		ExpiresAt: row.ExpiresAt,
		CreatorIP: row.CreatorIP,
		CreatedAt: row.CreatedAt,
	}, nil
}

// UpdateExpiry sets a new expiry time on an existing session
func (s *PGStore) UpdateExpiry(ctx context.Context, key string, expiresAt time.Time) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE sessions SET expires_at = $1 WHERE session_key = $2`,
		expiresAt, key,
	)
	if err != nil {
		return fmt.Errorf("update session expiry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// UpdateData replaces the persisted attribute payload
func (s *PGStore) UpdateData(ctx context.Context, key string, data map[string]any) error {
	payload, err := EncodeData(data)
	if err != nil {
		return err
	}

	tag, err := s.db.Exec(ctx,
		`UPDATE sessions SET data = $1 WHERE session_key = $2`,
		payload, key,
	)
	if err != nil {
		return fmt.Errorf("update session data: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// Delete removes a session by key
func (s *PGStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM sessions WHERE session_key = $1`, key); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteExpired removes all sessions whose expiry lies before now
func (s *PGStore) DeleteExpired(ctx context.Context, now time.Time) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM sessions WHERE expires_at < $1`, now); err != nil {
		return fmt.Errorf("delete expired sessions: %w", err)
	}
	return nil
}
