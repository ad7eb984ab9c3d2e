package live

import (
	"github.com/go-chi/chi/v5"
)

// Routes mounts the websocket under /live. Signed-out clients are served
// too; they see the public views.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeLive)
	return r
}
