// internal/app/features/attendance/routes.go
package attendance

import (
	"github.com/dalemusser/leaguehub/internal/app/system/auth"
	"github.com/dalemusser/leaguehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts attendance under /attendance. It is a restricted view.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequirePrivileged)
	r.Get("/", h.ServeSummary)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole(string(models.RoleAdmin)))
		pr.Get("/all", h.ServeAll)
		pr.Post("/", h.HandleQuick)
		pr.Post("/external", h.HandleExternal)
		pr.Delete("/{id}", h.HandleDelete)
	})
	return r
}
