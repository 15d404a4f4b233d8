package email

import (
	"context"
	"sync"
)

// MemoryRepository implements Repository in memory for tests.
type MemoryRepository struct {
	mu     sync.RWMutex
	byID   map[int64]*Email
	nextID int64
}

// NewMemoryRepository creates an in-memory email repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byID: make(map[int64]*Email)}
}

// Create stores a new email record
func (r *MemoryRepository) Create(ctx context.Context, email *Email) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.byID {
		if e.Address == email.Address {
			return ErrEmailTaken
		}
	}

	r.nextID++
	email.ID = r.nextID
	stored := *email
	r.byID[email.ID] = &stored
	return nil
}

// FindByID retrieves an email by ID
func (r *MemoryRepository) FindByID(ctx context.Context, id int64) (*Email, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	email, exists := r.byID[id]
	if !exists {
		return nil, ErrEmailNotFound
	}
	found := *email
	return &found, nil
}

// FindByHash retrieves an email by its public address hash
func (r *MemoryRepository) FindByHash(ctx context.Context, hash string) (*Email, error) {
	return r.findBy(func(e *Email) bool { return e.Hash == hash })
}

// FindByVerifyCode retrieves an email by its verification code
func (r *MemoryRepository) FindByVerifyCode(ctx context.Context, code string) (*Email, error) {
	if code == "" {
		return nil, ErrEmailNotFound
	}
	return r.findBy(func(e *Email) bool { return e.VerifyCode == code })
}

// ListByAccount returns all emails bound to an account
func (r *MemoryRepository) ListByAccount(ctx context.Context, accountID int64) ([]*Email, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var emails []*Email
	for id := int64(1); id <= r.nextID; id++ {
		if e, exists := r.byID[id]; exists && e.AccountID == accountID {
			found := *e
			emails = append(emails, &found)
		}
	}
	return emails, nil
}

// MarkVerified flags the email verified and clears its code
func (r *MemoryRepository) MarkVerified(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	email, exists := r.byID[id]
	if !exists {
		return ErrEmailNotFound
	}
	email.Verified = true
	email.VerifyCode = ""
	return nil
}

// BindAvatar points the email at an avatar, nil to unbind
func (r *MemoryRepository) BindAvatar(ctx context.Context, id int64, avatarID *int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	email, exists := r.byID[id]
	if !exists {
		return ErrEmailNotFound
	}
	email.AvatarID = avatarID
	return nil
}

// UnbindAvatar clears the binding on every email pointing at the avatar
func (r *MemoryRepository) UnbindAvatar(ctx context.Context, avatarID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.byID {
		if e.AvatarID != nil && *e.AvatarID == avatarID {
			e.AvatarID = nil
		}
	}
	return nil
}

// Delete removes an email by ID
func (r *MemoryRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.byID, id)
	return nil
}

func (r *MemoryRepository) findBy(match func(*Email) bool) (*Email, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.byID {
		if match(e) {
			found := *e
			return &found, nil
		}
	}
	return nil, ErrEmailNotFound
}
