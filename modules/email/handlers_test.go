package email_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngavatar/ngavatar/modules/account"
	"github.com/ngavatar/ngavatar/modules/email"
	"github.com/ngavatar/ngavatar/pkg/httpx"
	"github.com/ngavatar/ngavatar/pkg/session"
	"github.com/ngavatar/ngavatar/pkg/template"
)

var emailViews = map[string]string{
	"addemail":       `<h1>Add email</h1>`,
	"email_added":    `<h1>Added {% address %}</h1>`,
	"email_failed":   `<h1>Email failed: {% reason %}</h1>`,
	"email_verified": `<h1>Verified {% address %}</h1>`,
	"verify_failed":  `<h1>Verify failed: {% reason %}</h1>`,
	"verify_mail":    `<a href="{% verify_url %}">verify</a>`,
}

type handlersFixture struct {
	handlers *email.Handlers
	svc      *email.Service
	repo     *email.MemoryRepository
	sender   *fakeSender
	sessions *session.Manager
	accounts *account.Service
}

func newHandlersFixture(t *testing.T) *handlersFixture {
	t.Helper()

	dir := t.TempDir()
	for name, body := range emailViews {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name+".html"), []byte(body), 0o600))
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	views := template.NewDir(dir)

	accountRepo := account.NewMemoryRepository()
	sessions := session.NewManager(session.NewMemoryStore(), time.Hour)
	guard := account.NewGuard(sessions, accountRepo, log, "/signin")

	f := &handlersFixture{
		repo:     email.NewMemoryRepository(),
		sender:   &fakeSender{},
		sessions: sessions,
		accounts: account.NewService(accountRepo, log),
	}
	f.svc = email.NewService(email.DefaultConfig(), f.repo, f.sender, views, log)
	f.handlers = email.NewHandlers(f.svc, guard, views, log)
	return f
}

// signIn creates an account plus a live session and returns the
// account together with its session cookie header value.
func (f *handlersFixture) signIn(t *testing.T, username string) (*account.Account, string) {
	t.Helper()

	ctx := context.Background()
	acc, err := f.accounts.Signup(ctx, username, "s3cret-pass")
	require.NoError(t, err)

	sess, err := f.sessions.Create(ctx, "")
	require.NoError(t, err)
	sess.Set(account.SessionUIDAttr, acc.ID)
	require.NoError(t, f.sessions.SaveData(ctx, sess))

	return acc, "SessionKey=" + sess.Key
}

func signedRequest(t *testing.T, method, path, body, cookie string) *httpx.Request {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	r := httptest.NewRequest(method, path, reader)
	if body != "" {
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if cookie != "" {
		r.Header.Set("Cookie", cookie)
	}
	req, err := httpx.FromHTTP(r)
	require.NoError(t, err)
	return req
}

func TestAddHandler(t *testing.T) {
	t.Parallel()

	f := newHandlersFixture(t)
	_, cookie := f.signIn(t, "alice")

	resp, err := f.handlers.Add(signedRequest(t, http.MethodPost, "/addemail_action",
		"address=alice@example.com", cookie))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Contains(t, string(resp.Body), "Added alice@example.com")
	require.Len(t, f.sender.sent, 1)
}

func TestAddPage(t *testing.T) {
	t.Parallel()

	f := newHandlersFixture(t)
	_, cookie := f.signIn(t, "alice")

	resp, err := f.handlers.AddPage(signedRequest(t, http.MethodGet, "/addemail", "", cookie))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Contains(t, string(resp.Body), "Add email")

	// Without a session the form redirects to sign-in.
	resp, err = f.handlers.AddPage(signedRequest(t, http.MethodGet, "/addemail", "", ""))
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.Status)
}

func TestAddHandlerFailures(t *testing.T) {
	t.Parallel()

	f := newHandlersFixture(t)
	acc, cookie := f.signIn(t, "alice")

	_, err := f.svc.Add(context.Background(), acc.ID, "taken@example.com")
	require.NoError(t, err)

	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "invalid address", body: "address=not-an-email", want: "invalid email address"},
		{name: "duplicate address", body: "address=taken@example.com", want: "already registered"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			resp, err := f.handlers.Add(signedRequest(t, http.MethodPost, "/addemail_action", tt.body, cookie))
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, resp.Status)
			assert.Contains(t, string(resp.Body), tt.want)
		})
	}
}

func TestAddHandlerUnauthenticated(t *testing.T) {
	t.Parallel()

	f := newHandlersFixture(t)

	resp, err := f.handlers.Add(signedRequest(t, http.MethodPost, "/addemail_action",
		"address=alice@example.com", ""))
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.Status)
	assert.Equal(t, []string{"/signin"}, resp.HeaderValues("Location"))
	assert.Empty(t, f.sender.sent)
}

func TestVerifyHandler(t *testing.T) {
	t.Parallel()

	f := newHandlersFixture(t)
	acc, _ := f.signIn(t, "alice")

	record, err := f.svc.Add(context.Background(), acc.ID, "alice@example.com")
	require.NoError(t, err)

	// The link needs no session.
	resp, err := f.handlers.Verify(signedRequest(t, http.MethodGet,
		"/verifyemail?code="+record.VerifyCode, "", ""))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Contains(t, string(resp.Body), "Verified alice@example.com")

	// Reusing the link reports failure instead of erroring out.
	resp, err = f.handlers.Verify(signedRequest(t, http.MethodGet,
		"/verifyemail?code="+record.VerifyCode, "", ""))
	require.NoError(t, err)
	assert.Contains(t, string(resp.Body), "unknown verification code")
}

func TestDeleteHandler(t *testing.T) {
	t.Parallel()

	f := newHandlersFixture(t)
	acc, cookie := f.signIn(t, "alice")

	record, err := f.svc.Add(context.Background(), acc.ID, "alice@example.com")
	require.NoError(t, err)

	resp, err := f.handlers.Delete(signedRequest(t, http.MethodPost, "/deleteemail_action",
		"email_id="+strconv.FormatInt(record.ID, 10), cookie))
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.Status)
	assert.Equal(t, []string{"/usermain"}, resp.HeaderValues("Location"))

	_, err = f.repo.FindByID(context.Background(), record.ID)
	assert.ErrorIs(t, err, email.ErrEmailNotFound)
}

func TestDeleteHandlerBadRequest(t *testing.T) {
	t.Parallel()

	f := newHandlersFixture(t)
	_, cookie := f.signIn(t, "alice")

	for _, body := range []string{"", "email_id=abc"} {
		_, err := f.handlers.Delete(signedRequest(t, http.MethodPost, "/deleteemail_action", body, cookie))
		var httpErr *httpx.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	}
}

func TestDeleteHandlerForbidden(t *testing.T) {
	t.Parallel()

	f := newHandlersFixture(t)
	acc, _ := f.signIn(t, "alice")
	_, mallory := f.signIn(t, "mallory")

	record, err := f.svc.Add(context.Background(), acc.ID, "alice@example.com")
	require.NoError(t, err)

	_, err = f.handlers.Delete(signedRequest(t, http.MethodPost, "/deleteemail_action",
		"email_id="+strconv.FormatInt(record.ID, 10), mallory))
	var httpErr *httpx.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusForbidden, httpErr.Status)
}

