// internal/app/features/membership/routes.go
package membership

import (
	"github.com/dalemusser/leaguehub/internal/app/system/auth"
	"github.com/dalemusser/leaguehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the admission page under /membership.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeSettings)
	r.Post("/apply", h.HandleApply)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole(string(models.RoleAdmin)))
		pr.Put("/", h.HandleSave)
		pr.Post("/edital", h.HandleEdital)
	})
	return r
}

// AppRoutes mounts the site settings under /settings.
func AppRoutes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Get("/app", h.ServeApp)
	r.With(sm.RequireRole(string(models.RoleAdmin))).Post("/logo", h.HandleLogo)
	return r
}
