package session

import (
	"context"
	"time"
)

// Store defines the interface for session persistence
type Store interface {
	// Create stores a new session. Returns ErrDuplicateKey when a
	// session with the same key already exists.
	Create(ctx context.Context, session *Session) error

	// Load retrieves a session by key. Returns ErrSessionNotFound when
	// no session matches; expiry is not checked here.
	Load(ctx context.Context, key string) (*Session, error)

	// UpdateExpiry sets a new expiry time on an existing session
	UpdateExpiry(ctx context.Context, key string, expiresAt time.Time) error

	// UpdateData replaces the persisted attribute payload
	UpdateData(ctx context.Context, key string, data map[string]any) error

	// Delete removes a session by key. Deleting an absent key is a no-op.
	Delete(ctx context.Context, key string) error

	// DeleteExpired removes all sessions whose expiry lies before now
	DeleteExpired(ctx context.Context, now time.Time) error
}
