package httpx

import (
	"net/http"
	"strings"
)

// HandlerFunc processes a request snapshot and produces a response. A
// returned *HTTPError is rendered as an error response by the adapter;
// any other error becomes a 500.
type HandlerFunc func(*Request) (*Response, error)

// AllowMethods wraps a handler with an explicit request-method allow-list.
// A request with a method outside the list fails with 405 and an Allow
// header enumerating the permitted methods in declared order; the wrapped
// handler never runs. Allowed requests pass through untouched.
func AllowMethods(methods ...string) func(HandlerFunc) HandlerFunc {
	allow := strings.Join(methods, ", ")
	return func(next HandlerFunc) HandlerFunc {
		return func(r *Request) (*Response, error) {
			allowed := false
			for _, m := range methods {
				if r.Method == m {
					allowed = true
					break
				}
			}
			if !allowed {
				return nil, NewHTTPError(http.StatusMethodNotAllowed).WithHeader("Allow", allow)
			}
			return next(r)
		}
	}
}
