// internal/app/features/dashboard/routes.go
package dashboard

import (
	"github.com/dalemusser/leaguehub/internal/app/system/auth"
	"github.com/dalemusser/leaguehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the dashboard. The summary dispatches on role; candidate
// decisions are for the administrator.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServeDashboard)
	})
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole(string(models.RoleAdmin)))
		pr.Get("/candidates", h.ServeCandidates)
		pr.Post("/candidates/{source}/{id}/approve", h.HandleApprove)
		pr.Post("/candidates/{source}/{id}/waitlist", h.HandleWaitlist)
		pr.Post("/candidates/{source}/{id}/reject", h.HandleReject)
	})
	return r
}
