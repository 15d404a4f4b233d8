// Package requestid tags every HTTP request with a correlation ID so
// log records from one request can be tied together. A client-supplied
// X-Request-ID header is reused when it looks sane; anything else gets
// a fresh UUID. The chosen ID travels in the request context and is
// echoed back in the response header.
package requestid

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// Header is the request-ID header name, read and echoed by Middleware.
const Header = "X-Request-ID"

// maxLen bounds accepted client-supplied IDs; longer ones are replaced.
const maxLen = 128

type ctxKey struct{}

// WithContext stores id in ctx.
func WithContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the request ID carried by ctx, or "".
func FromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// Middleware ensures the request carries a valid ID: the client's
// X-Request-ID when acceptable, a generated UUID otherwise. The ID is
// set on the response and the request context before next runs.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(Header)
		if !acceptable(id) {
			id = uuid.NewString()
		}
		w.Header().Set(Header, id)
		next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), id)))
	})
}

// acceptable reports whether a client-supplied ID may be reused:
// non-empty, bounded length, and limited to alphanumerics, '-' and '_'
// so it is safe to log and echo verbatim.
func acceptable(id string) bool {
	if id == "" || len(id) > maxLen {
		return false
	}
	for _, c := range []byte(id) {
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '-' || c == '_':
		default:
			return false
		}
	}
	return true
}
