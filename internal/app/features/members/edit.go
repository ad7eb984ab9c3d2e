// internal/app/features/members/edit.go
package members

import (
	"context"
	"errors"
	"net/http"

	memberstore "github.com/dalemusser/leaguehub/internal/app/store/members"
	"github.com/dalemusser/leaguehub/internal/app/system/authz"
	"github.com/dalemusser/leaguehub/internal/app/system/blobstore"
	"github.com/dalemusser/leaguehub/internal/app/system/formutil"
	"github.com/dalemusser/leaguehub/internal/app/system/limits"
	"github.com/dalemusser/leaguehub/internal/app/system/respond"
	"github.com/dalemusser/leaguehub/internal/app/system/timeouts"
	"github.com/dalemusser/leaguehub/internal/domain/models"
	"go.uber.org/zap"
)

// MsgDuplicateEmail is shown when an edit collides with another roster row.
const MsgDuplicateEmail = "Já existe um membro com este e-mail."

type memberInput struct {
	FullName string `json:"full_name" validate:"notblank"`
	Email    string `json:"email" validate:"required,email"`
	Role     string `json:"role" validate:"notblank"`
	PhotoURL string `json:"photo_url" validate:"omitempty,url"`
}

func (in memberInput) member() models.Member {
	return models.Member{FullName: in.FullName, Email: in.Email, Role: in.Role, PhotoURL: in.PhotoURL}
}

// HandleCreate handles POST /members. An email already on the roster
// refreshes that row instead of adding a second one.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	_, _, actor, _ := authz.UserCtx(r)

	var in memberInput
	if !formutil.Parse(w, r, limits.MaxImageUpload, &in) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Upload())
	defer cancel()

	m := in.member()
	if !h.attachPhoto(ctx, w, r, &m) {
		return
	}
	if m.PhotoURL == "" {
		m.PhotoURL = models.AvatarURL(m.FullName)
	}
	saved, err := h.Roster.Upsert(ctx, m)
	if err != nil {
		h.writeErr(w, "roster upsert failed", err)
		return
	}
	h.AuditLog.MemberSaved(r.Context(), r, actor, saved.Email)
	respond.Created(w, respond.MsgSaved, saved)
}

// HandleUpdate handles PUT /members/{id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	_, _, actor, _ := authz.UserCtx(r)
	id, ok := formutil.IDParam(w, r)
	if !ok {
		return
	}
	var in memberInput
	if !formutil.Parse(w, r, limits.MaxImageUpload, &in) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Upload())
	defer cancel()

	m := in.member()
	if !h.attachPhoto(ctx, w, r, &m) {
		return
	}
	if err := h.Roster.Update(ctx, id, m); err != nil {
		h.writeErr(w, "roster update failed", err)
		return
	}
	h.AuditLog.MemberSaved(r.Context(), r, actor, m.Email)
	respond.Message(w, http.StatusOK, respond.MsgSaved)
}

// HandleDelete handles DELETE /members/{id}. The person loses member access
// on their next request and on the next roster snapshot of any live session.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	_, _, actor, _ := authz.UserCtx(r)
	id, ok := formutil.IDParam(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	m, err := h.Roster.Delete(ctx, id)
	if err != nil {
		h.writeErr(w, "roster delete failed", err)
		return
	}
	h.AuditLog.MemberDeleted(r.Context(), r, actor, m.Email)
	respond.Message(w, http.StatusOK, respond.MsgDeleted)
}

func (h *Handler) attachPhoto(ctx context.Context, w http.ResponseWriter, r *http.Request, m *models.Member) bool {
	obj, ok, err := formutil.Upload(ctx, h.Blobs, r, "photo", blobstore.DirAvatars, nil)
	if err != nil {
		h.Log.Error("roster photo upload failed", zap.Error(err))
		respond.ServerError(w)
		return false
	}
	if ok {
		m.PhotoURL = obj.URL
	}
	return true
}

func (h *Handler) writeErr(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, memberstore.ErrNotFound):
		respond.NotFound(w)
	case errors.Is(err, memberstore.ErrDuplicateEmail):
		respond.Message(w, http.StatusConflict, MsgDuplicateEmail)
	default:
		h.Log.Error(msg, zap.Error(err))
		respond.ServerError(w)
	}
}

func canSeeEmails(r *http.Request) bool {
	return authz.IsPrivileged(r)
}
