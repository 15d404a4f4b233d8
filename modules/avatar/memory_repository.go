package avatar

import (
	"context"
	"sync"
)

// MemoryRepository implements Repository in memory for tests.
type MemoryRepository struct {
	mu     sync.RWMutex
	byID   map[int64]*Avatar
	nextID int64
}

// NewMemoryRepository creates an in-memory avatar repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byID: make(map[int64]*Avatar)}
}

// Create stores a new avatar row
func (r *MemoryRepository) Create(ctx context.Context, avatar *Avatar) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	avatar.ID = r.nextID
	stored := *avatar
	r.byID[avatar.ID] = &stored
	return nil
}

// FindByID retrieves an avatar by ID
func (r *MemoryRepository) FindByID(ctx context.Context, id int64) (*Avatar, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	avatar, exists := r.byID[id]
	if !exists {
		return nil, ErrAvatarNotFound
	}
	found := *avatar
	return &found, nil
}

// ListByAccount returns all avatars owned by an account
func (r *MemoryRepository) ListByAccount(ctx context.Context, accountID int64) ([]*Avatar, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var avatars []*Avatar
	for id := int64(1); id <= r.nextID; id++ {
		if a, exists := r.byID[id]; exists && a.AccountID == accountID {
			found := *a
			avatars = append(avatars, &found)
		}
	}
	return avatars, nil
}

// Delete removes an avatar row by ID
func (r *MemoryRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.byID, id)
	return nil
}
