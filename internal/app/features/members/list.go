// internal/app/features/members/list.go
package members

import (
	"context"
	"net/http"

	"github.com/dalemusser/leaguehub/internal/app/system/respond"
	"github.com/dalemusser/leaguehub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// ServeList handles GET /members: the roster sorted by name. Emails are
// shown only to signed-in members and the administrator.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	rows, err := h.Roster.ListAll(ctx)
	if err != nil {
		h.Log.Error("roster list failed", zap.Error(err))
		respond.ServerError(w)
		return
	}
	if !canSeeEmails(r) {
		for i := range rows {
			rows[i].Email = ""
		}
	}
	respond.OK(w, rows)
}
