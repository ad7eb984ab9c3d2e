// internal/app/features/events/edit.go
package events

import (
	"context"
	"errors"
	"net/http"

	eventstore "github.com/dalemusser/leaguehub/internal/app/store/events"
	"github.com/dalemusser/leaguehub/internal/app/store/audit"
	"github.com/dalemusser/leaguehub/internal/app/system/authz"
	"github.com/dalemusser/leaguehub/internal/app/system/blobstore"
	"github.com/dalemusser/leaguehub/internal/app/system/formutil"
	"github.com/dalemusser/leaguehub/internal/app/system/limits"
	"github.com/dalemusser/leaguehub/internal/app/system/respond"
	"github.com/dalemusser/leaguehub/internal/app/system/timeouts"
	"github.com/dalemusser/leaguehub/internal/domain/models"
	"go.uber.org/zap"
)

const collection = "cronograma"

// HandleCreate handles POST /events with an optional "image" banner.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	_, _, actor, _ := authz.UserCtx(r)
	var in models.Event
	if !formutil.Parse(w, r, limits.MaxImageUpload, &in) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Upload())
	defer cancel()

	if !h.attachBanner(ctx, w, r, &in) {
		return
	}
	ev, err := h.Events.Create(ctx, in)
	if err != nil {
		h.Log.Error("event create failed", zap.Error(err))
		respond.ServerError(w)
		return
	}
	h.AuditLog.ContentChanged(r.Context(), r, actor, audit.EventContentCreated, collection, ev.ID.Hex())
	respond.Created(w, respond.MsgSaved, ev)
}

// HandleUpdate handles PUT /events/{id}. Without a new banner the old one
// is kept.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	_, _, actor, _ := authz.UserCtx(r)
	id, ok := formutil.IDParam(w, r)
	if !ok {
		return
	}
	var in models.Event
	if !formutil.Parse(w, r, limits.MaxImageUpload, &in) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Upload())
	defer cancel()

	if !h.attachBanner(ctx, w, r, &in) {
		return
	}
	if err := h.Events.Update(ctx, id, in); err != nil {
		h.writeErr(w, "event update failed", err)
		return
	}
	h.AuditLog.ContentChanged(r.Context(), r, actor, audit.EventContentUpdated, collection, id.Hex())
	respond.Message(w, http.StatusOK, respond.MsgSaved)
}

// HandleDelete handles DELETE /events/{id}. Attendance already recorded
// against the event stays.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	_, _, actor, _ := authz.UserCtx(r)
	id, ok := formutil.IDParam(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Events.Delete(ctx, id); err != nil {
		h.writeErr(w, "event delete failed", err)
		return
	}
	h.AuditLog.ContentChanged(r.Context(), r, actor, audit.EventContentDeleted, collection, id.Hex())
	respond.Message(w, http.StatusOK, respond.MsgDeleted)
}

func (h *Handler) attachBanner(ctx context.Context, w http.ResponseWriter, r *http.Request, ev *models.Event) bool {
	obj, ok, err := formutil.Upload(ctx, h.Blobs, r, "image", blobstore.DirEvents, nil)
	if err != nil {
		h.Log.Error("event banner upload failed", zap.Error(err))
		respond.ServerError(w)
		return false
	}
	if ok {
		ev.ImageURL = obj.URL
	}
	return true
}

func (h *Handler) writeErr(w http.ResponseWriter, msg string, err error) {
	if errors.Is(err, eventstore.ErrNotFound) {
		respond.NotFound(w)
		return
	}
	h.Log.Error(msg, zap.Error(err))
	respond.ServerError(w)
}
