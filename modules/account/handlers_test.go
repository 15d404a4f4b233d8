package account_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngavatar/ngavatar/modules/account"
	"github.com/ngavatar/ngavatar/pkg/httpx"
	"github.com/ngavatar/ngavatar/pkg/session"
	"github.com/ngavatar/ngavatar/pkg/template"
)

var accountViews = map[string]string{
	"signin":        `<h1>Sign in</h1>`,
	"signin_failed": `<h1>Sign in failed</h1>`,
	"signup":        `<h1>Sign up</h1>`,
	"signup_failed": `<h1>Sign up failed: {% reason %}</h1>`,
	"usermain":      `<h1>Welcome {% account.Username %}</h1><p>{% emails %}</p>`,
}

type handlersFixture struct {
	handlers *account.Handlers
	svc      *account.Service
	sessions *session.Manager
}

func newHandlersFixture(t *testing.T, profileVars account.ProfileVarsFunc) *handlersFixture {
	t.Helper()
	return newHandlersFixtureCfg(t, account.DefaultConfig(), profileVars)
}

func newHandlersFixtureCfg(t *testing.T, cfg account.Config, profileVars account.ProfileVarsFunc) *handlersFixture {
	t.Helper()

	dir := t.TempDir()
	for name, body := range accountViews {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name+".html"), []byte(body), 0o600))
	}

	repo := account.NewMemoryRepository()
	svc := account.NewService(repo, discardLogger())
	sessions := session.NewManager(session.NewMemoryStore(), time.Hour)
	guard := account.NewGuard(sessions, repo, discardLogger(), "/signin")

	return &handlersFixture{
		handlers: account.NewHandlers(
			cfg, svc, sessions, guard,
			template.NewDir(dir), profileVars, discardLogger(),
		),
		svc:      svc,
		sessions: sessions,
	}
}

func formRequest(t *testing.T, path, body string) *httpx.Request {
	t.Helper()

	r := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req, err := httpx.FromHTTP(r)
	require.NoError(t, err)
	return req
}

func TestSigninSuccess(t *testing.T) {
	t.Parallel()

	f := newHandlersFixture(t, nil)
	acc, err := f.svc.Signup(context.Background(), "alice", "s3cret-pass")
	require.NoError(t, err)

	resp, err := f.handlers.Signin(formRequest(t, "/signin_action", "username=alice&password=s3cret-pass"))
	require.NoError(t, err)

	assert.Equal(t, http.StatusFound, resp.Status)
	assert.Equal(t, []string{"/usermain"}, resp.HeaderValues("Location"))

	cookies := resp.HeaderValues("Set-Cookie")
	require.Len(t, cookies, 1)
	assert.Contains(t, cookies[0], "SessionKey=")

	// The session behind the cookie carries the account's UID.
	key := strings.TrimPrefix(strings.SplitN(cookies[0], ";", 2)[0], "SessionKey=")
	sess, err := f.sessions.Load(context.Background(), key)
	require.NoError(t, err)
	uid, ok := sess.GetInt64(account.SessionUIDAttr)
	require.True(t, ok)
	assert.Equal(t, acc.ID, uid)
}

func TestSigninFailure(t *testing.T) {
	t.Parallel()

	f := newHandlersFixture(t, nil)
	_, err := f.svc.Signup(context.Background(), "alice", "s3cret-pass")
	require.NoError(t, err)

	tests := []struct {
		name string
		body string
	}{
		{name: "wrong password", body: "username=alice&password=wrong"},
		{name: "unknown user", body: "username=nobody&password=s3cret-pass"},
		{name: "missing fields", body: "username=alice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			resp, err := f.handlers.Signin(formRequest(t, "/signin_action", tt.body))
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, resp.Status)
			assert.Contains(t, string(resp.Body), "Sign in failed")
			assert.Empty(t, resp.HeaderValues("Set-Cookie"))
		})
	}
}

func TestSessionCookieFlags(t *testing.T) {
	t.Parallel()

	t.Run("HttpOnly always, Secure off by default", func(t *testing.T) {
		t.Parallel()

		f := newHandlersFixture(t, nil)
		_, err := f.svc.Signup(context.Background(), "alice", "s3cret-pass")
		require.NoError(t, err)

		resp, err := f.handlers.Signin(formRequest(t, "/signin_action", "username=alice&password=s3cret-pass"))
		require.NoError(t, err)
		cookies := resp.HeaderValues("Set-Cookie")
		require.Len(t, cookies, 1)
		assert.Contains(t, cookies[0], "HttpOnly")
		assert.NotContains(t, cookies[0], "Secure")
	})

	t.Run("Secure when configured", func(t *testing.T) {
		t.Parallel()

		cfg := account.DefaultConfig()
		cfg.CookieSecure = true
		f := newHandlersFixtureCfg(t, cfg, nil)
		_, err := f.svc.Signup(context.Background(), "alice", "s3cret-pass")
		require.NoError(t, err)

		resp, err := f.handlers.Signin(formRequest(t, "/signin_action", "username=alice&password=s3cret-pass"))
		require.NoError(t, err)
		cookies := resp.HeaderValues("Set-Cookie")
		require.Len(t, cookies, 1)
		assert.Contains(t, cookies[0], "Secure")
		assert.Contains(t, cookies[0], "HttpOnly")

		// The expiring sign-out cookie carries the same flags.
		sess, err := f.sessions.Create(context.Background(), "")
		require.NoError(t, err)
		r := httptest.NewRequest(http.MethodGet, "/signout", nil)
		r.Header.Set("Cookie", "SessionKey="+sess.Key)
		req, err := httpx.FromHTTP(r)
		require.NoError(t, err)
		resp, err = f.handlers.Signout(req)
		require.NoError(t, err)
		cookies = resp.HeaderValues("Set-Cookie")
		require.Len(t, cookies, 1)
		assert.Contains(t, cookies[0], "Secure")
		assert.Contains(t, cookies[0], "HttpOnly")
	})
}

func TestSignupAction(t *testing.T) {
	t.Parallel()

	f := newHandlersFixture(t, nil)

	resp, err := f.handlers.Signup(formRequest(t, "/signup_action",
		"username=bob&password=s3cret-pass&confirm_password=s3cret-pass"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.Status)
	assert.Equal(t, []string{"/signin"}, resp.HeaderValues("Location"))

	// Account is usable right away.
	_, err = f.svc.Authenticate(context.Background(), "bob", "s3cret-pass")
	assert.NoError(t, err)
}

func TestSignupActionMismatchedPasswords(t *testing.T) {
	t.Parallel()

	f := newHandlersFixture(t, nil)

	resp, err := f.handlers.Signup(formRequest(t, "/signup_action",
		"username=bob&password=s3cret-pass&confirm_password=other"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Contains(t, string(resp.Body), "passwords do not match")
}

func TestSignoutInvalidatesSession(t *testing.T) {
	t.Parallel()

	f := newHandlersFixture(t, nil)
	sess, err := f.sessions.Create(context.Background(), "")
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/signout", nil)
	r.Header.Set("Cookie", "SessionKey="+sess.Key)
	req, err := httpx.FromHTTP(r)
	require.NoError(t, err)

	resp, err := f.handlers.Signout(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.Status)
	assert.Equal(t, []string{"/signin"}, resp.HeaderValues("Location"))
	require.Len(t, resp.HeaderValues("Set-Cookie"), 1)
	assert.Contains(t, resp.HeaderValues("Set-Cookie")[0], "Expires=Thu, 01 Jan 1970")

	_, err = f.sessions.Load(context.Background(), sess.Key)
	assert.ErrorIs(t, err, session.ErrSessionNotFound)

	// Signing out without a cookie still redirects cleanly.
	bare, err := httpx.FromHTTP(httptest.NewRequest(http.MethodGet, "/signout", nil))
	require.NoError(t, err)
	resp, err = f.handlers.Signout(bare)
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.Status)
	assert.Empty(t, resp.HeaderValues("Set-Cookie"))
}

func TestUserMain(t *testing.T) {
	t.Parallel()

	f := newHandlersFixture(t, func(ctx context.Context, accountID int64) (map[string]any, error) {
		return map[string]any{"emails": "alice@example.com"}, nil
	})

	acc, err := f.svc.Signup(context.Background(), "alice", "s3cret-pass")
	require.NoError(t, err)

	sess, err := f.sessions.Create(context.Background(), "")
	require.NoError(t, err)
	sess.Set(account.SessionUIDAttr, acc.ID)
	require.NoError(t, f.sessions.SaveData(context.Background(), sess))

	r := httptest.NewRequest(http.MethodGet, "/usermain", nil)
	r.Header.Set("Cookie", "SessionKey="+sess.Key)
	req, err := httpx.FromHTTP(r)
	require.NoError(t, err)

	resp, err := f.handlers.UserMain(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Contains(t, string(resp.Body), "Welcome alice")
	assert.Contains(t, string(resp.Body), "alice@example.com")
}

func TestUserMainUnauthenticated(t *testing.T) {
	t.Parallel()

	f := newHandlersFixture(t, nil)

	req, err := httpx.FromHTTP(httptest.NewRequest(http.MethodGet, "/usermain", nil))
	require.NoError(t, err)

	resp, err := f.handlers.UserMain(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.Status)
	assert.Equal(t, []string{"/signin"}, resp.HeaderValues("Location"))
}
