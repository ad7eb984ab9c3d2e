// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"github.com/dalemusser/leaguehub/internal/app/system/auditlog"
	"github.com/dalemusser/leaguehub/internal/app/system/auth"
	"github.com/dalemusser/leaguehub/internal/app/system/respond"
	"go.uber.org/zap"
)

// MsgSignedOut confirms the session was closed.
const MsgSignedOut = "Sessão encerrada."

type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	AuditLog   *auditlog.Logger
}

func NewHandler(sessionMgr *auth.SessionManager, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
		AuditLog:   audit,
	}
}

// HandleLogout handles POST /logout. The cookie is cleared even when the
// old one no longer decodes.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)
	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Log.Error("logout: save session", zap.Error(err))
		respond.ServerError(w)
		return
	}
	if u != nil {
		h.AuditLog.Logout(r.Context(), r, u.ID, u.Email)
	}
	respond.OK(w, respond.Notice{Notice: MsgSignedOut})
}
