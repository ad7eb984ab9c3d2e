// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/dalemusser/leaguehub/internal/app/system/authz"
	"github.com/dalemusser/leaguehub/internal/app/system/respond"
	"go.uber.org/zap"
)

// Notices for the error endpoints.
const (
	MsgForbidden        = "Você não tem permissão para acessar esta área."
	MsgUnauthorized     = "Entre na sua conta para continuar."
	MsgRouteNotFound    = "Página não encontrada."
	MsgMethodNotAllowed = "Método não permitido."
)

// Handler is the errors feature handler. No DB needed.
type Handler struct {
	Log *zap.Logger
}

// NewHandler constructs an errors Handler.
func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{Log: logger}
}

// Forbidden answers GET /forbidden, where the role gates send browsers.
func (h *Handler) Forbidden(w http.ResponseWriter, r *http.Request) {
	respond.Message(w, http.StatusForbidden, MsgForbidden)
}

// Unauthorized answers GET /unauthorized.
func (h *Handler) Unauthorized(w http.ResponseWriter, r *http.Request) {
	respond.Message(w, http.StatusUnauthorized, MsgUnauthorized)
}

// NotFound is the router's fallback.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	_, _, uid, signedIn := authz.UserCtx(r)
	fields := []zap.Field{zap.String("path", r.URL.Path), zap.String("method", r.Method)}
	if signedIn {
		fields = append(fields, zap.String("user_id", uid.Hex()))
	}
	h.Log.Debug("route not found", fields...)
	respond.Message(w, http.StatusNotFound, MsgRouteNotFound)
}

// MethodNotAllowed is the router's fallback for a known path.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respond.Message(w, http.StatusMethodNotAllowed, MsgMethodNotAllowed)
}
