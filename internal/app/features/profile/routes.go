// internal/app/features/profile/routes.go
package profile

import (
	"github.com/dalemusser/leaguehub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Get("/", h.ServeProfile)
	r.Post("/", h.HandleUpdate)
	return r
}
