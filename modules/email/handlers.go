package email

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ngavatar/ngavatar/modules/account"
	"github.com/ngavatar/ngavatar/pkg/httpx"
	"github.com/ngavatar/ngavatar/pkg/template"
)

// Handlers serves the email pages: add, verify and delete.
type Handlers struct {
	svc   *Service
	guard *account.Guard
	views template.Dir
	log   *slog.Logger
}

// NewHandlers creates the email page handlers.
func NewHandlers(svc *Service, guard *account.Guard, views template.Dir, log *slog.Logger) *Handlers {
	return &Handlers{svc: svc, guard: guard, views: views, log: log}
}

// AddPage shows the add-email form.
func (h *Handlers) AddPage(req *httpx.Request) (*httpx.Response, error) {
	verdict, err := h.guard.Check(req.Context(), req)
	if err != nil {
		return nil, err
	}
	if !verdict.Authenticated() {
		return verdict.Response, nil
	}
	return h.render("addemail", nil)
}

// Add registers a new address for the signed-in account and reports
// that the verification mail is on its way.
func (h *Handlers) Add(req *httpx.Request) (*httpx.Response, error) {
	ctx := req.Context()

	verdict, err := h.guard.Check(ctx, req)
	if err != nil {
		return nil, err
	}
	if !verdict.Authenticated() {
		return verdict.Response, nil
	}

	address, _ := req.FormValue("address")
	record, err := h.svc.Add(ctx, verdict.Account.ID, address)
	switch {
	case errors.Is(err, ErrInvalidAddress):
		return h.render("email_failed", map[string]any{"reason": "invalid email address"})
	case errors.Is(err, ErrEmailTaken):
		return h.render("email_failed", map[string]any{"reason": "address is already registered"})
	case err != nil:
		return nil, err
	}

	return h.render("email_added", map[string]any{"address": record.Address})
}

// Verify consumes a verification link. The link works without a
// session so users can open it in any browser.
func (h *Handlers) Verify(req *httpx.Request) (*httpx.Response, error) {
	ctx := req.Context()

	code, _ := req.FormValue("code")
	record, err := h.svc.Verify(ctx, code)
	switch {
	case errors.Is(err, ErrEmailNotFound):
		return h.render("verify_failed", map[string]any{"reason": "unknown verification code"})
	case errors.Is(err, ErrVerifyCodeExpired):
		return h.render("verify_failed", map[string]any{"reason": "verification code has expired"})
	case errors.Is(err, ErrAlreadyVerified):
		return h.render("verify_failed", map[string]any{"reason": "address is already verified"})
	case err != nil:
		return nil, err
	}

	return h.render("email_verified", map[string]any{"address": record.Address})
}

// Delete removes an address owned by the signed-in account.
func (h *Handlers) Delete(req *httpx.Request) (*httpx.Response, error) {
	ctx := req.Context()

	verdict, err := h.guard.Check(ctx, req)
	if err != nil {
		return nil, err
	}
	if !verdict.Authenticated() {
		return verdict.Response, nil
	}

	rawID, ok := req.FormValue("email_id")
	if !ok {
		return nil, httpx.NewHTTPError(http.StatusBadRequest)
	}
	emailID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return nil, httpx.NewHTTPError(http.StatusBadRequest)
	}

	if err := h.svc.Remove(ctx, verdict.Account.ID, emailID); err != nil {
		if errors.Is(err, ErrNotOwner) {
			return nil, httpx.NewHTTPError(http.StatusForbidden)
		}
		return nil, err
	}
	return httpx.Redirect("/usermain"), nil
}

func (h *Handlers) render(name string, vars map[string]any) (*httpx.Response, error) {
	body, err := h.views.Render(name, vars)
	if err != nil {
		return nil, err
	}
	return httpx.HTML(body), nil
}
