// internal/app/features/portal/routes.go
package portal

import (
	"github.com/dalemusser/leaguehub/internal/app/system/auth"
	"github.com/dalemusser/leaguehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the members' area under /portal.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequirePrivileged)
	r.Get("/notices", h.ServeNotices)
	r.Get("/docs", h.ServeDocs)
	r.Get("/declaration", h.ServeDeclaration)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole(string(models.RoleAdmin)))
		pr.Post("/notices", h.HandleCreateNotice)
		pr.Delete("/notices/{id}", h.HandleDeleteNotice)
		pr.Post("/docs", h.HandleCreateDoc)
		pr.Delete("/docs/{id}", h.HandleDeleteDoc)
	})
	return r
}
