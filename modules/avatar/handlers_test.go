package avatar_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"mime/multipart"
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
	"github.com/ngavatar/ngavatar/modules/avatar"
	"github.com/ngavatar/ngavatar/modules/email"
	mailer "github.com/ngavatar/ngavatar/pkg/email"
	"github.com/ngavatar/ngavatar/pkg/file"
	"github.com/ngavatar/ngavatar/pkg/httpx"
	"github.com/ngavatar/ngavatar/pkg/session"
	"github.com/ngavatar/ngavatar/pkg/template"
)

var avatarViews = map[string]string{
	"addavatar":        `<h1>Add avatar</h1>`,
	"avatar_failed":    `<h1>Avatar failed: {% reason %}</h1>`,
	"setavatar_failed": `<h1>Set avatar failed: {% reason %}</h1>`,
	"verify_mail":      `<a href="{% verify_url %}">verify</a>`,
}

type nopSender struct{}

func (nopSender) SendEmail(ctx context.Context, params mailer.SendEmailParams) error { return nil }

type handlersFixture struct {
	handlers  *avatar.Handlers
	svc       *avatar.Service
	emails    *email.Service
	emailRepo *email.MemoryRepository
	sessions  *session.Manager
	accounts  *account.Service
}

func newHandlersFixture(t *testing.T) *handlersFixture {
	t.Helper()

	dir := t.TempDir()
	for name, body := range avatarViews {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name+".html"), []byte(body), 0o600))
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	views := template.NewDir(dir)

	accountRepo := account.NewMemoryRepository()
	sessions := session.NewManager(session.NewMemoryStore(), time.Hour)
	guard := account.NewGuard(sessions, accountRepo, log, "/signin")

	store, err := file.NewLocalStorage(t.TempDir(), "/files/")
	require.NoError(t, err)

	f := &handlersFixture{
		emailRepo: email.NewMemoryRepository(),
		sessions:  sessions,
		accounts:  account.NewService(accountRepo, log),
	}
	f.emails = email.NewService(email.DefaultConfig(), f.emailRepo, nopSender{}, views, log)
	f.svc = avatar.NewService(avatar.DefaultConfig(), avatar.NewMemoryRepository(), store, f.emailRepo, log)
	f.handlers = avatar.NewHandlers(f.svc, f.emails, guard, views, log)
	return f
}

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

func formRequest(t *testing.T, method, path, body, cookie string) *httpx.Request {
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

func uploadRequest(t *testing.T, title, filename string, content []byte, cookie string) *httpx.Request {
	t.Helper()

	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	if title != "" {
		require.NoError(t, writer.WriteField("title", title))
	}
	part, err := writer.CreateFormFile("avatar", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	r := httptest.NewRequest(http.MethodPost, "/addavatar_action", body)
	r.Header.Set("Content-Type", writer.FormDataContentType())
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
	acc, cookie := f.signIn(t, "alice")

	resp, err := f.handlers.Add(uploadRequest(t, "me", "pic.png", pngBytes, cookie))
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.Status)
	assert.Equal(t, []string{"/usermain"}, resp.HeaderValues("Location"))

	avatars, err := f.svc.List(context.Background(), acc.ID)
	require.NoError(t, err)
	require.Len(t, avatars, 1)
	assert.Equal(t, "me", avatars[0].Title)
}

func TestAddHandlerRejectsBadUploads(t *testing.T) {
	t.Parallel()

	f := newHandlersFixture(t)
	_, cookie := f.signIn(t, "alice")

	resp, err := f.handlers.Add(uploadRequest(t, "", "notes.txt", []byte("plain text"), cookie))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Contains(t, string(resp.Body), "unsupported image type")

	// A form without a file part reports the missing image.
	resp, err = f.handlers.Add(formRequest(t, http.MethodPost, "/addavatar_action", "title=x", cookie))
	require.NoError(t, err)
	assert.Contains(t, string(resp.Body), "no image uploaded")
}

func TestAddHandlerUnauthenticated(t *testing.T) {
	t.Parallel()

	f := newHandlersFixture(t)

	resp, err := f.handlers.Add(uploadRequest(t, "", "pic.png", pngBytes, ""))
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.Status)
	assert.Equal(t, []string{"/signin"}, resp.HeaderValues("Location"))
}

func TestSetAvatarHandler(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newHandlersFixture(t)
	acc, cookie := f.signIn(t, "alice")

	record, err := f.svc.Upload(ctx, acc.ID, "pic", uploadHeader(t, "pic.png", pngBytes))
	require.NoError(t, err)

	mail := &email.Email{AccountID: acc.ID, Address: "alice@example.com",
		Hash: email.HashAddress("alice@example.com"), Verified: true}
	require.NoError(t, f.emailRepo.Create(ctx, mail))

	resp, err := f.handlers.SetAvatar(formRequest(t, http.MethodPost, "/setavatar_action",
		"email_id="+strconv.FormatInt(mail.ID, 10)+"&avatar_id="+strconv.FormatInt(record.ID, 10), cookie))
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.Status)

	bound, err := f.emailRepo.FindByID(ctx, mail.ID)
	require.NoError(t, err)
	require.NotNil(t, bound.AvatarID)
	assert.Equal(t, record.ID, *bound.AvatarID)

	// avatar_id "none" clears the binding.
	resp, err = f.handlers.SetAvatar(formRequest(t, http.MethodPost, "/setavatar_action",
		"email_id="+strconv.FormatInt(mail.ID, 10)+"&avatar_id=none", cookie))
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.Status)

	bound, err = f.emailRepo.FindByID(ctx, mail.ID)
	require.NoError(t, err)
	assert.Nil(t, bound.AvatarID)
}

func TestSetAvatarHandlerRejectsForeignAvatar(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newHandlersFixture(t)
	acc, _ := f.signIn(t, "alice")
	_, mallory := f.signIn(t, "mallory")

	record, err := f.svc.Upload(ctx, acc.ID, "pic", uploadHeader(t, "pic.png", pngBytes))
	require.NoError(t, err)

	mail := &email.Email{AccountID: acc.ID, Address: "alice@example.com", Hash: "h", Verified: true}
	require.NoError(t, f.emailRepo.Create(ctx, mail))

	_, err = f.handlers.SetAvatar(formRequest(t, http.MethodPost, "/setavatar_action",
		"email_id="+strconv.FormatInt(mail.ID, 10)+"&avatar_id="+strconv.FormatInt(record.ID, 10), mallory))
	var httpErr *httpx.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusForbidden, httpErr.Status)
}

func TestDeleteHandler(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newHandlersFixture(t)
	acc, cookie := f.signIn(t, "alice")

	record, err := f.svc.Upload(ctx, acc.ID, "pic", uploadHeader(t, "pic.png", pngBytes))
	require.NoError(t, err)

	resp, err := f.handlers.Delete(formRequest(t, http.MethodPost, "/deleteavatar_action",
		"avatar_id="+strconv.FormatInt(record.ID, 10), cookie))
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.Status)

	_, err = f.svc.Get(ctx, record.ID)
	assert.ErrorIs(t, err, avatar.ErrAvatarNotFound)
}

func TestServeHandler(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newHandlersFixture(t)
	acc, _ := f.signIn(t, "alice")

	record, err := f.svc.Upload(ctx, acc.ID, "pic", uploadHeader(t, "pic.png", pngBytes))
	require.NoError(t, err)

	hash := email.HashAddress("alice@example.com")
	mail := &email.Email{AccountID: acc.ID, Address: "alice@example.com", Hash: hash, Verified: true}
	require.NoError(t, f.emailRepo.Create(ctx, mail))
	require.NoError(t, f.emailRepo.BindAvatar(ctx, mail.ID, &record.ID))

	resp, err := f.handlers.Serve(formRequest(t, http.MethodGet, "/avatar?email_hash="+hash, "", ""))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, []string{"image/png"}, resp.HeaderValues("Content-Type"))
	assert.Equal(t, pngBytes, resp.Body)
}

func TestServeHandlerMisses(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newHandlersFixture(t)
	acc, _ := f.signIn(t, "alice")

	unverified := &email.Email{AccountID: acc.ID, Address: "new@example.com",
		Hash: email.HashAddress("new@example.com")}
	require.NoError(t, f.emailRepo.Create(ctx, unverified))

	unbound := &email.Email{AccountID: acc.ID, Address: "old@example.com",
		Hash: email.HashAddress("old@example.com"), Verified: true}
	require.NoError(t, f.emailRepo.Create(ctx, unbound))

	tests := []struct {
		name   string
		query  string
		status int
	}{
		{name: "unknown hash", query: "email_hash=" + strings.Repeat("0", 40), status: http.StatusNotFound},
		{name: "unverified address", query: "email_hash=" + unverified.Hash, status: http.StatusNotFound},
		{name: "no binding", query: "email_hash=" + unbound.Hash, status: http.StatusNotFound},
		{name: "missing hash", query: "", status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			uri := "/avatar"
			if tt.query != "" {
				uri += "?" + tt.query
			}
			_, err := f.handlers.Serve(formRequest(t, http.MethodGet, uri, "", ""))
			var httpErr *httpx.HTTPError
			require.ErrorAs(t, err, &httpErr)
			assert.Equal(t, tt.status, httpErr.Status)
		})
	}
}
