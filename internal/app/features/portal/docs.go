// internal/app/features/portal/docs.go
package portal

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/leaguehub/internal/app/store/audit"
	memberdocstore "github.com/dalemusser/leaguehub/internal/app/store/memberdocs"
	"github.com/dalemusser/leaguehub/internal/app/system/authz"
	"github.com/dalemusser/leaguehub/internal/app/system/blobstore"
	"github.com/dalemusser/leaguehub/internal/app/system/formutil"
	"github.com/dalemusser/leaguehub/internal/app/system/limits"
	"github.com/dalemusser/leaguehub/internal/app/system/respond"
	"github.com/dalemusser/leaguehub/internal/app/system/timeouts"
	"github.com/dalemusser/leaguehub/internal/domain/models"
	"go.uber.org/zap"
)

// MsgNoFile is returned when a document is sent without its file.
const MsgNoFile = "Selecione um arquivo."

// ServeDocs handles GET /portal/docs. Members get their own documents; the
// administrator gets all of them.
func (h *Handler) ServeDocs(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	var (
		rows []models.MemberDoc
		err  error
	)
	if authz.IsAdmin(r) {
		rows, err = h.Docs.ListAll(ctx)
	} else {
		rows, err = h.Docs.ListForEmail(ctx, authz.UserEmail(r))
	}
	if err != nil {
		h.Log.Error("member doc list failed", zap.Error(err))
		respond.ServerError(w)
		return
	}
	respond.OK(w, rows)
}

type docInput struct {
	MemberEmail string `json:"member_email" validate:"required,email"`
	Title       string `json:"title" validate:"notblank,max=200"`
	Message     string `json:"message" validate:"max=2000"`
}

// HandleCreateDoc handles POST /portal/docs: multipart with a "file" part.
func (h *Handler) HandleCreateDoc(w http.ResponseWriter, r *http.Request) {
	_, _, actor, _ := authz.UserCtx(r)
	if !formutil.IsMultipart(r) {
		respond.BadRequest(w, MsgNoFile)
		return
	}
	var in docInput
	if !formutil.Parse(w, r, limits.MaxDocumentUpload, &in) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Upload())
	defer cancel()

	obj, ok, err := formutil.Upload(ctx, h.Blobs, r, "file", blobstore.DirMemberDocs, nil)
	if err != nil {
		h.Log.Error("member doc upload failed", zap.Error(err))
		respond.ServerError(w)
		return
	}
	if !ok {
		respond.BadRequest(w, MsgNoFile)
		return
	}
	d, err := h.Docs.Create(ctx, models.MemberDoc{
		MemberEmail: in.MemberEmail,
		Title:       in.Title,
		Message:     in.Message,
		URL:         obj.URL,
		FileName:    obj.FileName,
	})
	if err != nil {
		_ = h.Blobs.Delete(ctx, obj.Key)
		h.Log.Error("member doc create failed", zap.Error(err))
		respond.ServerError(w)
		return
	}
	h.AuditLog.ContentChanged(r.Context(), r, actor, audit.EventContentCreated, "member_docs", d.ID.Hex())
	respond.Created(w, respond.MsgSaved, d)
}

// HandleDeleteDoc handles DELETE /portal/docs/{id}.
func (h *Handler) HandleDeleteDoc(w http.ResponseWriter, r *http.Request) {
	_, _, actor, _ := authz.UserCtx(r)
	id, ok := formutil.IDParam(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	err := h.Docs.Delete(ctx, id)
	if errors.Is(err, memberdocstore.ErrNotFound) {
		respond.NotFound(w)
		return
	}
	if err != nil {
		h.Log.Error("member doc delete failed", zap.Error(err))
		respond.ServerError(w)
		return
	}
	h.AuditLog.ContentChanged(r.Context(), r, actor, audit.EventContentDeleted, "member_docs", id.Hex())
	respond.Message(w, http.StatusOK, respond.MsgDeleted)
}
