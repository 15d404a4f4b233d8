package session

import (
	"context"
	"maps"
	"sync"
	"time"
)

// MemoryStore implements Store using in-memory storage. Suitable for
// tests and single-process development setups.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	nextID   int64
}

// NewMemoryStore creates a new in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*Session),
	}
}

// Create stores a new session
func (m *MemoryStore) Create(ctx context.Context, session *Session) error {
	if session == nil || session.Key == "" {
		return ErrInvalidSession
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[session.Key]; exists {
		return ErrDuplicateKey
	}

	m.nextID++
	session.ID = m.nextID
	m.sessions[session.Key] = copySession(session)
	return nil
}

// Load retrieves a session by key
func (m *MemoryStore) Load(ctx context.Context, key string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, exists := m.sessions[key]
	if !exists {
		return nil, ErrSessionNotFound
	}
	return copySession(session), nil
}

// UpdateExpiry sets a new expiry time on an existing session
func (m *MemoryStore) UpdateExpiry(ctx context.Context, key string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, exists := m.sessions[key]
	if !exists {
		return ErrSessionNotFound
	}
	session.ExpiresAt = expiresAt
	return nil
}

// UpdateData replaces the persisted attribute payload
func (m *MemoryStore) UpdateData(ctx context.Context, key string, data map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, exists := m.sessions[key]
	if !exists {
		return ErrSessionNotFound
	}

	session.Data = make(map[string]any, len(data))
	maps.Copy(session.Data, data)
	return nil
}

// Delete removes a session by key
func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, key)
	return nil
}

// DeleteExpired removes all sessions whose expiry lies before now
func (m *MemoryStore) DeleteExpired(ctx context.Context, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, session := range m.sessions {
		if session.ExpiresAt.Before(now) {
			delete(m.sessions, key)
		}
	}
	return nil
}

func copySession(session *Session) *Session {
	sessionCopy := *session
	if session.Data != nil {
		sessionCopy.Data = make(map[string]any, len(session.Data))
		maps.Copy(sessionCopy.Data, session.Data)
	}
	return &sessionCopy
}
