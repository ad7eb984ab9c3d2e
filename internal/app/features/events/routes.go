// internal/app/features/events/routes.go
package events

import (
	"github.com/dalemusser/leaguehub/internal/app/system/auth"
	"github.com/dalemusser/leaguehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the schedule under /events. The schedule is a restricted
// view: reading and enrolling need an admin or member. Hidden events answer
// 404 to everyone but the administrator.
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
	})
	return r
}
