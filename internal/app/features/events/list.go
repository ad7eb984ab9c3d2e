// internal/app/features/events/list.go
package events

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/leaguehub/internal/app/features/shared/enroll"
	eventstore "github.com/dalemusser/leaguehub/internal/app/store/events"
	"github.com/dalemusser/leaguehub/internal/app/system/authz"
	"github.com/dalemusser/leaguehub/internal/app/system/coordinator"
	"github.com/dalemusser/leaguehub/internal/app/system/formutil"
	"github.com/dalemusser/leaguehub/internal/app/system/respond"
	"github.com/dalemusser/leaguehub/internal/app/system/timeouts"
	"github.com/dalemusser/leaguehub/internal/domain/models"
	"go.uber.org/zap"
)

// ServeList handles GET /events, sorted by date. Only the administrator
// sees inactive entries.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	var (
		rows []models.Event
		err  error
	)
	if authz.IsAdmin(r) {
		rows, err = h.Events.ListAll(ctx)
	} else {
		rows, err = h.Events.ListActive(ctx)
	}
	if err != nil {
		h.Log.Error("event list failed", zap.Error(err))
		respond.ServerError(w)
		return
	}
	respond.OK(w, coordinator.SortEvents(rows))
}

// ServeOne handles GET /events/{id}.
func (h *Handler) ServeOne(w http.ResponseWriter, r *http.Request) {
	id, ok := formutil.IDParam(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	ev, err := h.Events.GetByID(ctx, id)
	if errors.Is(err, eventstore.ErrNotFound) || (err == nil && !authz.CanSeeEvent(r, ev)) {
		respond.NotFound(w)
		return
	}
	if err != nil {
		h.Log.Error("event load failed", zap.String("event_id", id.Hex()), zap.Error(err))
		respond.ServerError(w)
		return
	}
	respond.OK(w, ev)
}

// HandleEnroll handles POST /events/{id}/enroll. Events tied to an activity
// enroll into that activity; others enroll into the event itself.
func (h *Handler) HandleEnroll(w http.ResponseWriter, r *http.Request) {
	id, ok := formutil.IDParam(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	ev, err := h.Events.GetByID(ctx, id)
	if errors.Is(err, eventstore.ErrNotFound) || (err == nil && !authz.CanSeeEvent(r, ev)) {
		respond.NotFound(w)
		return
	}
	if err != nil {
		h.Log.Error("event load failed", zap.String("event_id", id.Hex()), zap.Error(err))
		respond.ServerError(w)
		return
	}
	target := ev.ActivityID
	if target == "" {
		target = ev.ID.Hex()
	}
	enroll.Handle(w, r, h.Enrollments, h.Log, target, ev.Title)
}
