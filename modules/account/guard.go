package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ngavatar/ngavatar/pkg/cookie"
	"github.com/ngavatar/ngavatar/pkg/httpx"
	"github.com/ngavatar/ngavatar/pkg/session"
)

// Verdict is the outcome of guarding a request. Exactly one of Account
// and Response is set: an authenticated request carries the resolved
// account and its live session, a rejected one carries the response to
// send instead of running the handler.
type Verdict struct {
	Account  *Account
	Session  *session.Session
	Response *httpx.Response
}

// Authenticated reports whether the request passed the guard.
func (v Verdict) Authenticated() bool {
	return v.Account != nil
}

// Guard validates the session behind a request and resolves it to an
// account. Stale state (expired session, missing UID attribute, account
// deleted underneath a live session) is cleaned up: the session is
// invalidated and the browser cookie expired.
type Guard struct {
	sessions   *session.Manager
	repo       Repository
	log        *slog.Logger
	signinPath string
	cookiePath string
}

// NewGuard creates a guard redirecting unauthenticated requests to
// signinPath.
func NewGuard(sessions *session.Manager, repo Repository, log *slog.Logger, signinPath string) *Guard {
	return &Guard{
		sessions:   sessions,
		repo:       repo,
		log:        log,
		signinPath: signinPath,
		cookiePath: "/",
	}
}

// Check runs the validation ladder for req. A non-nil error means a
// storage failure, not a failed authentication.
func (g *Guard) Check(ctx context.Context, req *httpx.Request) (Verdict, error) {
	key := req.SessionKey()
	if key == "" {
		return g.reject(nil), nil
	}

	sess, err := g.sessions.Load(ctx, key)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return g.reject(nil), nil
		}
		return Verdict{}, fmt.Errorf("guard: load session: %w", err)
	}

	uid, hasUID := sess.GetInt64(SessionUIDAttr)
	if g.sessions.Expired(sess) || !hasUID {
		if err := g.sessions.Invalidate(ctx, key); err != nil {
			g.log.WarnContext(ctx, "failed to invalidate stale session", slog.String("error", err.Error()))
		}
		return g.reject(g.expiredCookie(key)), nil
	}

	acc, err := g.repo.FindByID(ctx, uid)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			if err := g.sessions.Invalidate(ctx, key); err != nil {
				g.log.WarnContext(ctx, "failed to invalidate orphaned session", slog.String("error", err.Error()))
			}
			return g.reject(g.expiredCookie(key)), nil
		}
		return Verdict{}, fmt.Errorf("guard: resolve account: %w", err)
	}

	return Verdict{Account: acc, Session: sess}, nil
}

// reject builds the redirect verdict, attaching the expiring cookie when
// stale browser state needs clearing.
func (g *Guard) reject(expired *cookie.Cookie) Verdict {
	resp := httpx.Redirect(g.signinPath)
	resp.SetCookie(expired)
	return Verdict{Response: resp}
}

// expiredCookie re-sends the session key with an expiry in the past so
// the browser drops it.
func (g *Guard) expiredCookie(key string) *cookie.Cookie {
	return cookie.New(
		map[string]string{httpx.CookieSessionKey: key},
		g.cookiePath,
		expiredCookieTime(),
		"",
	)
}

// expiredCookieTime is the Expires value that makes browsers drop a
// cookie immediately.
func expiredCookieTime() time.Time {
	return time.Unix(0, 0).UTC()
}
