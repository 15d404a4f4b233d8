package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ngavatar/ngavatar/pkg/httpx"
)

// Register mounts the account pages. Method enforcement happens in the
// handler chain so disallowed methods get a 405 with an Allow header
// instead of chi's default 404.
func (h *Handlers) Register(r chi.Router, adapter *httpx.Adapter) {
	get := httpx.AllowMethods(http.MethodGet)
	post := httpx.AllowMethods(http.MethodPost)

	r.HandleFunc("/signin", adapter.Handle(get(h.SigninPage)))
	r.HandleFunc("/signin_action", adapter.Handle(post(h.Signin)))
	r.HandleFunc("/signup", adapter.Handle(get(h.SignupPage)))
	r.HandleFunc("/signup_action", adapter.Handle(post(h.Signup)))
	r.HandleFunc("/signout", adapter.Handle(get(h.Signout)))
	r.HandleFunc("/usermain", adapter.Handle(get(h.UserMain)))
}
