// internal/app/features/login/routes.go
package login

import "github.com/go-chi/chi/v5"

// Routes is mounted at /login.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeLogin)
	r.Post("/", h.HandleLogin)
	return r
}

// RegisterRoutes is mounted at /register.
func RegisterRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.HandleRegister)
	return r
}
