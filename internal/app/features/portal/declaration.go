// internal/app/features/portal/declaration.go
package portal

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/dalemusser/leaguehub/internal/app/system/authz"
	"github.com/dalemusser/leaguehub/internal/app/system/certificate"
	"github.com/dalemusser/leaguehub/internal/app/system/frequency"
	"github.com/dalemusser/leaguehub/internal/app/system/respond"
	"github.com/dalemusser/leaguehub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// ServeDeclaration handles GET /portal/declaration and streams the
// caller's declaration as a PDF attachment.
func (h *Handler) ServeDeclaration(w http.ResponseWriter, r *http.Request) {
	_, _, uid, _ := authz.UserCtx(r)
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		h.Log.Error("declaration profile load failed", zap.String("user_id", uid.Hex()), zap.Error(err))
		respond.ServerError(w)
		return
	}
	rows, err := h.Attendance.ListForEmail(ctx, u.Email)
	if err != nil {
		h.Log.Error("declaration attendance load failed", zap.Error(err))
		respond.ServerError(w)
		return
	}
	official, err := h.Events.Count(ctx)
	if err != nil {
		h.Log.Error("declaration event count failed", zap.Error(err))
		respond.ServerError(w)
		return
	}
	summary := frequency.Compute(rows, int(official), u.Email)

	d := h.Letterhead
	d.FullName = u.FullName
	d.RegistrationID = u.RegistrationID
	d.Attendance = &summary
	d.IssuedAt = time.Now()

	var buf bytes.Buffer
	if err := certificate.Render(&buf, d); err != nil {
		h.Log.Error("declaration render failed", zap.Error(err))
		respond.ServerError(w)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", d.FileName()))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
