package session

import "time"

// Session is a server-side session record. Key is the opaque identifier
// handed to the browser; Data holds session attributes. Mutations via Set
// only change the in-memory copy, persistence is an explicit Manager call.
type Session struct {
	ID        int64          `json:"id"`
	Key       string         `json:"key"`
	Data      map[string]any `json:"data,omitempty"`
	ExpiresAt time.Time      `json:"expires_at"`
	CreatorIP string         `json:"creator_ip,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// Expired reports whether the session's expiry lies strictly before now.
// A session expiring exactly at now is still live.
func (s *Session) Expired(now time.Time) bool {
	return s != nil && s.ExpiresAt.Before(now)
}

// Get retrieves an attribute value.
func (s *Session) Get(key string) (any, bool) {
	if s == nil || s.Data == nil {
		return nil, false
	}
	val, ok := s.Data[key]
	return val, ok
}

// GetString retrieves a string attribute.
func (s *Session) GetString(key string) (string, bool) {
	val, ok := s.Get(key)
	if !ok {
		return "", false
	}
	str, ok := val.(string)
	return str, ok
}

// GetInt64 retrieves an integer attribute. JSON round-trips store
// numbers as float64, so both encodings are accepted.
func (s *Session) GetInt64(key string) (int64, bool) {
	val, ok := s.Get(key)
	if !ok {
		return 0, false
	}
	switch v := val.(type) {
	case int:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}

// Set stores an attribute on the in-memory session only. Call
// Manager.SaveData to persist.
func (s *Session) Set(key string, value any) {
	if s == nil {
		return
	}
	if s.Data == nil {
		s.Data = make(map[string]any)
	}
	s.Data[key] = value
}

// Delete removes an attribute from the in-memory session only.
func (s *Session) Delete(key string) {
	if s == nil || s.Data == nil {
		return
	}
	delete(s.Data, key)
}
