package account

import (
	"context"
	"sync"
)

// MemoryRepository implements Repository in memory for tests and local
// development.
type MemoryRepository struct {
	mu     sync.RWMutex
	byID   map[int64]*Account
	byName map[string]int64
	nextID int64
}

// NewMemoryRepository creates an in-memory account repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:   make(map[int64]*Account),
		byName: make(map[string]int64),
	}
}

// Create stores a new account
func (r *MemoryRepository) Create(ctx context.Context, account *Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[account.Username]; exists {
		return ErrUsernameTaken
	}

	r.nextID++
	account.ID = r.nextID
	stored := *account
	r.byID[account.ID] = &stored
	r.byName[account.Username] = account.ID
	return nil
}

// FindByID retrieves an account by ID
func (r *MemoryRepository) FindByID(ctx context.Context, id int64) (*Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, exists := r.byID[id]
	if !exists {
		return nil, ErrAccountNotFound
	}
	found := *account
	return &found, nil
}

// FindByUsername retrieves an account by username
func (r *MemoryRepository) FindByUsername(ctx context.Context, username string) (*Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.byName[username]
	if !exists {
		return nil, ErrAccountNotFound
	}
	found := *r.byID[id]
	return &found, nil
}

// Delete removes an account by ID
func (r *MemoryRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, exists := r.byID[id]
	if !exists {
		return nil
	}
	delete(r.byName, account.Username)
	delete(r.byID, id)
	return nil
}
