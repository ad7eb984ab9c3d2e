// internal/app/features/auditlog/routes.go
package auditlog

import (
	"github.com/dalemusser/leaguehub/internal/app/system/auth"
	"github.com/dalemusser/leaguehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the audit trail (typically at "/auditlog"). Admin only.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole(string(models.RoleAdmin)))
		pr.Get("/", h.ServeList)
	})

	return r
}
