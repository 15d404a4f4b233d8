package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngavatar/ngavatar/pkg/session"
)

func TestMemoryStoreDuplicateKey(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := session.NewMemoryStore()

	first := &session.Session{Key: "K1", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, store.Create(ctx, first))

	dup := &session.Session{Key: "K1", ExpiresAt: time.Now().Add(time.Hour)}
	err := store.Create(ctx, dup)
	assert.ErrorIs(t, err, session.ErrDuplicateKey)
}

func TestMemoryStoreLoadReturnsCopy(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := session.NewMemoryStore()

	sess := &session.Session{
		Key:       "K1",
		Data:      map[string]any{"UID": int64(1)},
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, store.Create(ctx, sess))

	loaded, err := store.Load(ctx, "K1")
	require.NoError(t, err)

	// Mutating the loaded copy must not leak into the store.
	loaded.Data["UID"] = int64(999)

	again, err := store.Load(ctx, "K1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), again.Data["UID"])
}

func TestMemoryStoreUpdateMissing(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := session.NewMemoryStore()

	err := store.UpdateExpiry(ctx, "absent", time.Now())
	assert.ErrorIs(t, err, session.ErrSessionNotFound)

	err = store.UpdateData(ctx, "absent", map[string]any{})
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestMemoryStoreDeleteExpired(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := session.NewMemoryStore()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.Create(ctx, &session.Session{Key: "live", ExpiresAt: now.Add(time.Hour)}))
	require.NoError(t, store.Create(ctx, &session.Session{Key: "dead", ExpiresAt: now.Add(-time.Hour)}))
	require.NoError(t, store.Create(ctx, &session.Session{Key: "edge", ExpiresAt: now}))

	require.NoError(t, store.DeleteExpired(ctx, now))

	_, err := store.Load(ctx, "live")
	assert.NoError(t, err)
	_, err = store.Load(ctx, "dead")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
	// Expiring exactly at now is not yet expired.
	_, err = store.Load(ctx, "edge")
	assert.NoError(t, err)
}
