package account

// Config holds account module settings.
type Config struct {
	// SigninPath is where unauthenticated requests are redirected.
	SigninPath string `env:"ACCOUNT_SIGNIN_PATH" envDefault:"/signin"`

	// UsermainPath is where a successful sign-in lands.
	UsermainPath string `env:"ACCOUNT_USERMAIN_PATH" envDefault:"/usermain"`

	// CookiePath scopes the session cookie.
	CookiePath string `env:"ACCOUNT_COOKIE_PATH" envDefault:"/"`

	// CookieDomain scopes the session cookie, empty for host-only.
	CookieDomain string `env:"ACCOUNT_COOKIE_DOMAIN" envDefault:""`

	// CookieSecure marks session cookies Secure so browsers only send
	// them over HTTPS. Off by default for plain-HTTP development.
	CookieSecure bool `env:"ACCOUNT_COOKIE_SECURE" envDefault:"false"`
}

// DefaultConfig returns default account module settings.
func DefaultConfig() Config {
	return Config{
		SigninPath:   "/signin",
		UsermainPath: "/usermain",
		CookiePath:   "/",
	}
}
