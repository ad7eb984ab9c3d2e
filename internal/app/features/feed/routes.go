// internal/app/features/feed/routes.go
package feed

import (
	"github.com/dalemusser/leaguehub/internal/app/system/auth"
	"github.com/dalemusser/leaguehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the feed under /feed. Reading is public, reacting needs a
// sign-in and publishing is for the administrator.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Post("/{id}/like", h.HandleLike)
		pr.Post("/{id}/comments", h.HandleComment)
	})
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole(string(models.RoleAdmin)))
		pr.Post("/", h.HandleCreate)
		pr.Put("/{id}", h.HandleCaption)
		pr.Delete("/{id}", h.HandleDelete)
	})
	return r
}
