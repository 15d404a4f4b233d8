package account

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ngavatar/ngavatar/pkg/cookie"
	"github.com/ngavatar/ngavatar/pkg/httpx"
	"github.com/ngavatar/ngavatar/pkg/session"
	"github.com/ngavatar/ngavatar/pkg/template"
)

// ProfileVarsFunc supplies extra template bindings for the user main
// page (verified emails, avatars). Wired from the other modules at
// startup so this package stays free of cross-module imports.
type ProfileVarsFunc func(ctx context.Context, accountID int64) (map[string]any, error)

// Handlers serves the account pages: sign-up, sign-in, sign-out and the
// authenticated user main page.
type Handlers struct {
	cfg         Config
	svc         *Service
	sessions    *session.Manager
	guard       *Guard
	views       template.Dir
	profileVars ProfileVarsFunc
	log         *slog.Logger
}

// NewHandlers creates the account page handlers.
func NewHandlers(
	cfg Config,
	svc *Service,
	sessions *session.Manager,
	guard *Guard,
	views template.Dir,
	profileVars ProfileVarsFunc,
	log *slog.Logger,
) *Handlers {
	return &Handlers{
		cfg:         cfg,
		svc:         svc,
		sessions:    sessions,
		guard:       guard,
		views:       views,
		profileVars: profileVars,
		log:         log,
	}
}

// SigninPage renders the sign-in form.
func (h *Handlers) SigninPage(req *httpx.Request) (*httpx.Response, error) {
	return h.render("signin", nil)
}

// Signin processes the sign-in form. Any credential failure lands on
// the same failure page; a success creates a session bound to the
// account and redirects to the user main page.
func (h *Handlers) Signin(req *httpx.Request) (*httpx.Response, error) {
	ctx := req.Context()

	username, hasUser := req.FormValue("username")
	password, hasPass := req.FormValue("password")
	if !hasUser || !hasPass {
		return h.render("signin_failed", nil)
	}

	acc, err := h.svc.Authenticate(ctx, username, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return h.render("signin_failed", nil)
		}
		return nil, err
	}

	sess, err := h.sessions.Create(ctx, req.ClientAddr)
	if err != nil {
		return nil, err
	}
	sess.Set(SessionUIDAttr, acc.ID)
	if err := h.sessions.SaveData(ctx, sess); err != nil {
		return nil, err
	}

	resp := httpx.Redirect(h.cfg.UsermainPath)
	resp.SetCookie(h.sessionCookie(sess.Key, sess.ExpiresAt))
	return resp, nil
}

// SignupPage renders the registration form.
func (h *Handlers) SignupPage(req *httpx.Request) (*httpx.Response, error) {
	return h.render("signup", nil)
}

// Signup processes the registration form and redirects to sign-in on
// success.
func (h *Handlers) Signup(req *httpx.Request) (*httpx.Response, error) {
	ctx := req.Context()

	username, _ := req.FormValue("username")
	password, _ := req.FormValue("password")
	confirm, _ := req.FormValue("confirm_password")

	if password == "" || password != confirm {
		return h.render("signup_failed", map[string]any{
			"reason": "passwords do not match",
		})
	}

	_, err := h.svc.Signup(ctx, username, password)
	switch {
	case errors.Is(err, ErrUsernameTaken):
		return h.render("signup_failed", map[string]any{"reason": "username is already taken"})
	case errors.Is(err, ErrInvalidUsername):
		return h.render("signup_failed", map[string]any{"reason": "invalid username"})
	case errors.Is(err, ErrWeakPassword):
		return h.render("signup_failed", map[string]any{"reason": "password is too short"})
	case err != nil:
		return nil, err
	}

	return httpx.Redirect(h.cfg.SigninPath), nil
}

// Signout invalidates the current session best-effort and sends the
// browser back to sign-in with an expired cookie.
func (h *Handlers) Signout(req *httpx.Request) (*httpx.Response, error) {
	ctx := req.Context()

	resp := httpx.Redirect(h.cfg.SigninPath)
	key := req.SessionKey()
	if key == "" {
		return resp, nil
	}

	if err := h.sessions.Invalidate(ctx, key); err != nil {
		h.log.WarnContext(ctx, "signout: failed to invalidate session", slog.String("error", err.Error()))
	}
	resp.SetCookie(h.sessionCookie(key, expiredCookieTime()))
	return resp, nil
}

// sessionCookie builds the session-key cookie. Session cookies are
// always HttpOnly; Secure follows the configuration.
func (h *Handlers) sessionCookie(key string, expires time.Time) *cookie.Cookie {
	c := cookie.New(
		map[string]string{httpx.CookieSessionKey: key},
		h.cfg.CookiePath,
		expires,
		h.cfg.CookieDomain,
	)
	c.HttpOnly = true
	c.Secure = h.cfg.CookieSecure
	return c
}

// UserMain renders the authenticated landing page.
func (h *Handlers) UserMain(req *httpx.Request) (*httpx.Response, error) {
	ctx := req.Context()

	verdict, err := h.guard.Check(ctx, req)
	if err != nil {
		return nil, err
	}
	if !verdict.Authenticated() {
		return verdict.Response, nil
	}

	vars := map[string]any{
		"account": map[string]any{
			"ID":       verdict.Account.ID,
			"Username": verdict.Account.Username,
		},
	}
	if h.profileVars != nil {
		extra, err := h.profileVars(ctx, verdict.Account.ID)
		if err != nil {
			return nil, err
		}
		for k, v := range extra {
			vars[k] = v
		}
	}
	return h.render("usermain", vars)
}

func (h *Handlers) render(name string, vars map[string]any) (*httpx.Response, error) {
	body, err := h.views.Render(name, vars)
	if err != nil {
		return nil, err
	}
	return httpx.HTML(body), nil
}
