package avatar

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ngavatar/ngavatar/modules/account"
	"github.com/ngavatar/ngavatar/modules/email"
	"github.com/ngavatar/ngavatar/pkg/httpx"
	"github.com/ngavatar/ngavatar/pkg/template"
)

// Handlers serves the avatar pages and the public image API.
type Handlers struct {
	svc    *Service
	emails *email.Service
	guard  *account.Guard
	views  template.Dir
	log    *slog.Logger
}

// NewHandlers creates the avatar page handlers.
func NewHandlers(svc *Service, emails *email.Service, guard *account.Guard, views template.Dir, log *slog.Logger) *Handlers {
	return &Handlers{svc: svc, emails: emails, guard: guard, views: views, log: log}
}

// AddPage shows the upload form.
func (h *Handlers) AddPage(req *httpx.Request) (*httpx.Response, error) {
	verdict, err := h.guard.Check(req.Context(), req)
	if err != nil {
		return nil, err
	}
	if !verdict.Authenticated() {
		return verdict.Response, nil
	}
	return h.render("addavatar", nil)
}

// Add stores an uploaded image for the signed-in account.
func (h *Handlers) Add(req *httpx.Request) (*httpx.Response, error) {
	ctx := req.Context()

	verdict, err := h.guard.Check(ctx, req)
	if err != nil {
		return nil, err
	}
	if !verdict.Authenticated() {
		return verdict.Response, nil
	}

	title, _ := req.FormValue("title")

	f, fh, err := req.FormFile("avatar")
	if err != nil {
		return h.render("avatar_failed", map[string]any{"reason": "no image uploaded"})
	}
	defer func() { _ = f.Close() }()

	_, err = h.svc.Upload(ctx, verdict.Account.ID, title, fh)
	switch {
	case errors.Is(err, ErrUnsupportedImage):
		return h.render("avatar_failed", map[string]any{"reason": "unsupported image type"})
	case errors.Is(err, ErrImageTooLarge):
		return h.render("avatar_failed", map[string]any{"reason": "image is too large"})
	case err != nil:
		return nil, err
	}

	return httpx.Redirect("/usermain"), nil
}

// SetAvatar binds an avatar owned by the account to one of its emails.
// An absent or empty avatar_id clears the binding.
func (h *Handlers) SetAvatar(req *httpx.Request) (*httpx.Response, error) {
	ctx := req.Context()

	verdict, err := h.guard.Check(ctx, req)
	if err != nil {
		return nil, err
	}
	if !verdict.Authenticated() {
		return verdict.Response, nil
	}

	emailID, ok := formID(req, "email_id")
	if !ok {
		return nil, httpx.NewHTTPError(http.StatusBadRequest)
	}

	var avatarID *int64
	if raw, ok := req.FormValue("avatar_id"); ok && raw != "" && raw != "none" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, httpx.NewHTTPError(http.StatusBadRequest)
		}
		record, err := h.svc.Get(ctx, id)
		if err != nil {
			if errors.Is(err, ErrAvatarNotFound) {
				return nil, httpx.NewHTTPError(http.StatusBadRequest)
			}
			return nil, err
		}
		if record.AccountID != verdict.Account.ID {
			return nil, httpx.NewHTTPError(http.StatusForbidden)
		}
		avatarID = &id
	}

	if err := h.emails.Bind(ctx, verdict.Account.ID, emailID, avatarID); err != nil {
		switch {
		case errors.Is(err, email.ErrNotOwner):
			return nil, httpx.NewHTTPError(http.StatusForbidden)
		case errors.Is(err, email.ErrEmailNotFound):
			return h.render("setavatar_failed", map[string]any{"reason": "address is missing or not verified"})
		}
		return nil, err
	}

	return httpx.Redirect("/usermain"), nil
}

// Delete removes an avatar owned by the signed-in account.
func (h *Handlers) Delete(req *httpx.Request) (*httpx.Response, error) {
	ctx := req.Context()

	verdict, err := h.guard.Check(ctx, req)
	if err != nil {
		return nil, err
	}
	if !verdict.Authenticated() {
		return verdict.Response, nil
	}

	avatarID, ok := formID(req, "avatar_id")
	if !ok {
		return nil, httpx.NewHTTPError(http.StatusBadRequest)
	}

	if err := h.svc.Delete(ctx, verdict.Account.ID, avatarID); err != nil {
		if errors.Is(err, ErrNotOwner) {
			return nil, httpx.NewHTTPError(http.StatusForbidden)
		}
		return nil, err
	}
	return httpx.Redirect("/usermain"), nil
}

// Serve is the public avatar API: resolves an email hash to the bound
// avatar and returns the image bytes. Unknown hashes, unverified
// addresses and unbound emails all look the same from outside: 404.
func (h *Handlers) Serve(req *httpx.Request) (*httpx.Response, error) {
	ctx := req.Context()

	hash, ok := req.FormValue("email_hash")
	if !ok || hash == "" {
		return nil, httpx.NewHTTPError(http.StatusBadRequest)
	}

	record, err := h.emails.Lookup(ctx, hash)
	if err != nil {
		if errors.Is(err, email.ErrEmailNotFound) {
			return nil, httpx.NewHTTPError(http.StatusNotFound)
		}
		return nil, err
	}
	if !record.Verified || record.AvatarID == nil {
		return nil, httpx.NewHTTPError(http.StatusNotFound)
	}

	av, err := h.svc.Get(ctx, *record.AvatarID)
	if err != nil {
		if errors.Is(err, ErrAvatarNotFound) {
			return nil, httpx.NewHTTPError(http.StatusNotFound)
		}
		return nil, err
	}

	data, err := h.svc.Image(ctx, av)
	if err != nil {
		return nil, err
	}
	return httpx.NewResponse(data, av.ContentType), nil
}

func (h *Handlers) render(name string, vars map[string]any) (*httpx.Response, error) {
	body, err := h.views.Render(name, vars)
	if err != nil {
		return nil, err
	}
	return httpx.HTML(body), nil
}

func formID(req *httpx.Request, name string) (int64, bool) {
	raw, ok := req.FormValue(name)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
