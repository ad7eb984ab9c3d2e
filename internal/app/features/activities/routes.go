// internal/app/features/activities/routes.go
package activities

import (
	"github.com/dalemusser/leaguehub/internal/app/system/auth"
	"github.com/dalemusser/leaguehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts activities under /activities for admins and members.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequirePrivileged)
	r.Get("/", h.ServeList)
	r.Get("/{id}", h.ServeOne)
	r.Post("/{id}/enroll", h.HandleEnroll)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole(string(models.RoleAdmin)))
		pr.Post("/", h.HandleCreate)
		pr.Put("/{id}", h.HandleUpdate)
		pr.Delete("/{id}", h.HandleDelete)
		pr.Get("/{id}/enrollments", h.ServeEnrollments)
	})
	return r
}
