package session

import (
	"context"
	"errors"
	"time"

	"github.com/ngavatar/ngavatar/pkg/strgen"
)

// keyAttempts bounds how many times Create retries key generation on a
// store collision before giving up.
const keyAttempts = 3

// sessionKeyLength is the hex length of generated session keys.
const sessionKeyLength = 40

// Manager coordinates session lifecycle against a Store. The key
// generator and clock are injectable so collision and expiry behavior
// stay testable.
type Manager struct {
	store  Store
	ttl    time.Duration
	keyGen func() string
	now    func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithKeyGenerator overrides session key generation.
func WithKeyGenerator(gen func() string) Option {
	return func(m *Manager) { m.keyGen = gen }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager creates a session manager. ttl is the lifetime granted to
// new and renewed sessions.
func NewManager(store Store, ttl time.Duration, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		ttl:    ttl,
		keyGen: func() string { return strgen.UniqueID(sessionKeyLength) },
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create generates a fresh session and persists it. Key generation is
// retried on collision a bounded number of times; when every attempt
// collides the error is ErrCannotCreateSession.
func (m *Manager) Create(ctx context.Context, creatorIP string) (*Session, error) {
	now := m.now()
	for range keyAttempts {
		session := &Session{
			Key:       m.keyGen(),
			Data:      make(map[string]any),
			ExpiresAt: now.Add(m.ttl),
			CreatorIP: creatorIP,
			CreatedAt: now,
		}

		err := m.store.Create(ctx, session)
		if err == nil {
			return session, nil
		}
		if !errors.Is(err, ErrDuplicateKey) {
			return nil, err
		}
	}
	return nil, ErrCannotCreateSession
}

// Load retrieves the session stored under key. Expiry is not enforced
// here; callers decide what an expired session means for them.
func (m *Manager) Load(ctx context.Context, key string) (*Session, error) {
	return m.store.Load(ctx, key)
}

// Renew extends the session's lifetime from now. The new expiry is
// persisted before the in-memory session is updated, so a storage
// failure leaves the session unchanged.
func (m *Manager) Renew(ctx context.Context, session *Session) error {
	if session == nil {
		return ErrInvalidSession
	}

	expiresAt := m.now().Add(m.ttl)
	if err := m.store.UpdateExpiry(ctx, session.Key, expiresAt); err != nil {
		return err
	}
	session.ExpiresAt = expiresAt
	return nil
}

// SaveData persists the session's current attributes. Attribute writes
// via Session.Set are in-memory only until this is called.
func (m *Manager) SaveData(ctx context.Context, session *Session) error {
	if session == nil {
		return ErrInvalidSession
	}
	return m.store.UpdateData(ctx, session.Key, session.Data)
}

// Invalidate removes the session stored under key. Invalidating an
// absent or already-invalidated key succeeds.
func (m *Manager) Invalidate(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	return m.store.Delete(ctx, key)
}

// Expired reports whether the session is expired against the manager's
// clock.
func (m *Manager) Expired(session *Session) bool {
	return session.Expired(m.now())
}

// Cleanup removes all expired sessions from the store.
func (m *Manager) Cleanup(ctx context.Context) error {
	return m.store.DeleteExpired(ctx, m.now())
}
