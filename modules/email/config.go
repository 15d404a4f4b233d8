package email

import "time"

// Config holds email module settings.
type Config struct {
	// BaseURL prefixes verification links in outgoing mail.
	BaseURL string `env:"SITE_BASE_URL" envDefault:"http://localhost:8080"`

	// VerifyCodeTTL bounds how long a verification link stays valid.
	VerifyCodeTTL time.Duration `env:"EMAIL_VERIFY_CODE_TTL" envDefault:"24h"`
}

// DefaultConfig returns default email module settings.
func DefaultConfig() Config {
	return Config{
		BaseURL:       "http://localhost:8080",
		VerifyCodeTTL: 24 * time.Hour,
	}
}
