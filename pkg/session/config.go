package session

import "time"

// Config holds session configuration
type Config struct {
	// TTL is the lifetime granted to new and renewed sessions
	TTL time.Duration `env:"SESSION_TTL" envDefault:"336h"`

	// CleanupInterval for expired sessions (0 to disable)
	CleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" envDefault:"1h"`
}
