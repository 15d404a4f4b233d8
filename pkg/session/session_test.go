package session_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngavatar/ngavatar/pkg/session"
)

func TestSessionExpired(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		expiresAt time.Time
		expired   bool
	}{
		{name: "future expiry", expiresAt: now.Add(time.Hour), expired: false},
		{name: "exactly now is live", expiresAt: now, expired: false},
		{name: "past expiry", expiresAt: now.Add(-time.Second), expired: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := &session.Session{Key: "k", ExpiresAt: tt.expiresAt}
			assert.Equal(t, tt.expired, s.Expired(now))
		})
	}
}

func TestSessionExpiryMonotonic(t *testing.T) {
	t.Parallel()

	// Once a session reads as expired at some instant, it stays expired
	// at every later instant.
	expiry := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	s := &session.Session{Key: "k", ExpiresAt: expiry}

	at := expiry.Add(time.Nanosecond)
	for range 5 {
		require.True(t, s.Expired(at))
		at = at.Add(time.Hour)
	}
}

func TestSessionAttributes(t *testing.T) {
	t.Parallel()

	s := &session.Session{Key: "k"}

	_, ok := s.Get("UID")
	assert.False(t, ok)

	s.Set("UID", int64(42))
	uid, ok := s.GetInt64("UID")
	require.True(t, ok)
	assert.Equal(t, int64(42), uid)

	// After a JSON round-trip numbers come back as float64.
	s.Set("UID", float64(42))
	uid, ok = s.GetInt64("UID")
	require.True(t, ok)
	assert.Equal(t, int64(42), uid)

	s.Set("theme", "dark")
	theme, ok := s.GetString("theme")
	require.True(t, ok)
	assert.Equal(t, "dark", theme)

	s.Delete("theme")
	_, ok = s.Get("theme")
	assert.False(t, ok)
}

func TestSessionNilReceiverSafe(t *testing.T) {
	t.Parallel()

	var s *session.Session
	assert.False(t, s.Expired(time.Now()))

	_, ok := s.Get("UID")
	assert.False(t, ok)

	s.Set("UID", 1) // must not panic
	s.Delete("UID")
}

func TestDataCodecRoundTrip(t *testing.T) {
	t.Parallel()

	attrs := map[string]any{"UID": float64(7), "theme": "dark"}

	payload, err := session.EncodeData(attrs)
	require.NoError(t, err)

	decoded, err := session.DecodeData(payload)
	require.NoError(t, err)
	assert.Equal(t, attrs, decoded)
}

func TestDataCodecEmptyPayload(t *testing.T) {
	t.Parallel()

	decoded, err := session.DecodeData(nil)
	require.NoError(t, err)
	assert.Empty(t, decoded)
}

func TestDataCodecUnknownVersion(t *testing.T) {
	t.Parallel()

	_, err := session.DecodeData([]byte(`{"v":99,"attrs":{}}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, session.ErrUnsupportedDataVersion)
}
