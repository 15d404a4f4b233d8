package email

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ngavatar/ngavatar/pkg/httpx"
)

// Register mounts the email pages.
func (h *Handlers) Register(r chi.Router, adapter *httpx.Adapter) {
	get := httpx.AllowMethods(http.MethodGet)
	post := httpx.AllowMethods(http.MethodPost)

	r.HandleFunc("/addemail", adapter.Handle(get(h.AddPage)))
	r.HandleFunc("/addemail_action", adapter.Handle(post(h.Add)))
	r.HandleFunc("/verifyemail", adapter.Handle(get(h.Verify)))
	r.HandleFunc("/deleteemail_action", adapter.Handle(post(h.Delete)))
}
