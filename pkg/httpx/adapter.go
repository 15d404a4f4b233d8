package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ngavatar/ngavatar/pkg/requestid"
)

// ErrorPageFunc renders the error response for a status code. Adapters
// fall back to a plain status-line body when none is configured or the
// renderer itself fails.
type ErrorPageFunc func(status int) *Response

// Adapter bridges HandlerFunc handlers onto net/http, translating handler
// errors into error responses and logging server-side failures.
type Adapter struct {
	log       *slog.Logger
	errorPage ErrorPageFunc
}

// NewAdapter creates an adapter. Both arguments may be nil; a nil logger
// discards nothing visible and a nil error page falls back to plain text.
func NewAdapter(log *slog.Logger, errorPage ErrorPageFunc) *Adapter {
	if log == nil {
		log = slog.Default()
	}
	return &Adapter{log: log, errorPage: errorPage}
}

// Handle converts a HandlerFunc into an http.HandlerFunc.
func (a *Adapter) Handle(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := FromHTTP(r)
		if err != nil {
			a.log.Error("malformed request", "uri", r.RequestURI, "error", err)
			a.emitError(w, http.StatusBadRequest, nil)
			return
		}

		resp, err := h(req)
		if err != nil {
			var httpErr *HTTPError
			if errors.As(err, &httpErr) {
				a.emitError(w, httpErr.Status, httpErr.Header)
				return
			}
			a.log.Error("handler failed",
				"method", req.Method,
				"uri", req.URI,
				"client", req.ClientAddr,
				"request_id", requestid.FromContext(req.Context()),
				"error", err,
			)
			a.emitError(w, http.StatusInternalServerError, nil)
			return
		}
		if resp == nil {
			a.emitError(w, http.StatusInternalServerError, nil)
			return
		}

		if err := resp.Apply(w); err != nil {
			a.log.Error("emit failed", "uri", req.URI, "error", err)
		}
	}
}

func (a *Adapter) emitError(w http.ResponseWriter, status int, header map[string]string) {
	var resp *Response
	if a.errorPage != nil {
		resp = a.errorPage(status)
	}
	if resp == nil {
		resp = ErrorPage(status, StatusLine(status))
		resp.SetHeader("Content-Type", "text/plain; charset=utf-8")
	}
	for name, value := range header {
		resp.SetHeader(name, value)
	}
	if err := resp.Apply(w); err != nil {
		a.log.Error("emit failed", "status", status, "error", err)
	}
}
