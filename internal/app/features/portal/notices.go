// internal/app/features/portal/notices.go
package portal

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/leaguehub/internal/app/store/audit"
	noticestore "github.com/dalemusser/leaguehub/internal/app/store/notices"
	"github.com/dalemusser/leaguehub/internal/app/system/authz"
	"github.com/dalemusser/leaguehub/internal/app/system/formutil"
	"github.com/dalemusser/leaguehub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/leaguehub/internal/app/system/respond"
	"github.com/dalemusser/leaguehub/internal/app/system/timeouts"
	"github.com/dalemusser/leaguehub/internal/domain/models"
	"go.uber.org/zap"
)

// ServeNotices handles GET /portal/notices.
func (h *Handler) ServeNotices(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	rows, err := h.Notices.ListRecent(ctx, 0)
	if err != nil {
		h.Log.Error("notice list failed", zap.Error(err))
		respond.ServerError(w)
		return
	}
	respond.OK(w, rows)
}

type noticeInput struct {
	Title string `json:"title" validate:"notblank,max=200"`
	Text  string `json:"text" validate:"notblank,max=10000"`
}

// HandleCreateNotice handles POST /portal/notices.
func (h *Handler) HandleCreateNotice(w http.ResponseWriter, r *http.Request) {
	_, name, actor, _ := authz.UserCtx(r)
	var in noticeInput
	if !respond.Decode(w, r, &in) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	n, err := h.Notices.Create(ctx, models.Notice{
		Title:  htmlsanitize.Text(in.Title),
		Text:   htmlsanitize.Rich(in.Text),
		Author: name,
	})
	if err != nil {
		h.Log.Error("notice create failed", zap.Error(err))
		respond.ServerError(w)
		return
	}
	h.AuditLog.ContentChanged(r.Context(), r, actor, audit.EventContentCreated, "notices", n.ID.Hex())
	respond.Created(w, respond.MsgSaved, n)
}

// HandleDeleteNotice handles DELETE /portal/notices/{id}.
func (h *Handler) HandleDeleteNotice(w http.ResponseWriter, r *http.Request) {
	_, _, actor, _ := authz.UserCtx(r)
	id, ok := formutil.IDParam(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	err := h.Notices.Delete(ctx, id)
	if errors.Is(err, noticestore.ErrNotFound) {
		respond.NotFound(w)
		return
	}
	if err != nil {
		h.Log.Error("notice delete failed", zap.Error(err))
		respond.ServerError(w)
		return
	}
	h.AuditLog.ContentChanged(r.Context(), r, actor, audit.EventContentDeleted, "notices", id.Hex())
	respond.Message(w, http.StatusOK, respond.MsgDeleted)
}
