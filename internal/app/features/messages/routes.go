// internal/app/features/messages/routes.go
package messages

import (
	"github.com/dalemusser/leaguehub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts direct messages under /messages. It is a restricted view.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequirePrivileged)
	r.Get("/", h.ServeContacts)
	r.Get("/{other}", h.ServeThread)
	r.Post("/{other}", h.HandleSend)
	r.Post("/{other}/read", h.HandleRead)
	return r
}
