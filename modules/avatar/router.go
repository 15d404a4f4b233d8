package avatar

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ngavatar/ngavatar/pkg/httpx"
)

// Register mounts the avatar pages and the public image API.
func (h *Handlers) Register(r chi.Router, adapter *httpx.Adapter) {
	get := httpx.AllowMethods(http.MethodGet)
	post := httpx.AllowMethods(http.MethodPost)

	r.HandleFunc("/addavatar", adapter.Handle(get(h.AddPage)))
	r.HandleFunc("/addavatar_action", adapter.Handle(post(h.Add)))
	r.HandleFunc("/setavatar_action", adapter.Handle(post(h.SetAvatar)))
	r.HandleFunc("/deleteavatar_action", adapter.Handle(post(h.Delete)))
	r.HandleFunc("/avatar", adapter.Handle(get(h.Serve)))
}
