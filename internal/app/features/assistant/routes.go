// internal/app/features/assistant/routes.go
package assistant

import (
	"github.com/go-chi/chi/v5"
)

// Routes mounts the assistant under /assistant. It is open to visitors
// as well as signed-in users.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeGreeting)
	r.Post("/chat", h.HandleChat)
	return r
}
