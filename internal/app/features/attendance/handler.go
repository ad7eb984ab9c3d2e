// internal/app/features/attendance/handler.go
package attendance

import (
	"context"
	"errors"
	"net/http"

	attendancestore "github.com/dalemusser/leaguehub/internal/app/store/attendance"
	eventstore "github.com/dalemusser/leaguehub/internal/app/store/events"
	"github.com/dalemusser/leaguehub/internal/app/system/auditlog"
	"github.com/dalemusser/leaguehub/internal/app/system/authz"
	"github.com/dalemusser/leaguehub/internal/app/system/formutil"
	"github.com/dalemusser/leaguehub/internal/app/system/frequency"
	"github.com/dalemusser/leaguehub/internal/app/system/respond"
	"github.com/dalemusser/leaguehub/internal/app/system/timeouts"
	"github.com/dalemusser/leaguehub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Notices.
const (
	MsgRecorded        = "Presença registrada."
	MsgAlreadyRecorded = "Presença já registrada para este evento."
)

type Handler struct {
	Attendance *attendancestore.Store
	Events     *eventstore.Store
	AuditLog   *auditlog.Logger
	Log        *zap.Logger
}

func NewHandler(db *mongo.Database, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Attendance: attendancestore.New(db),
		Events:     eventstore.New(db),
		AuditLog:   audit,
		Log:        logger,
	}
}

// ServeSummary handles GET /attendance. Members see their own summary; the
// administrator may pass ?email= to see anyone's.
func (h *Handler) ServeSummary(w http.ResponseWriter, r *http.Request) {
	email := authz.UserEmail(r)
	if authz.IsAdmin(r) {
		if q := query.Get(r, "email"); q != "" {
			email = q
		}
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	rows, err := h.Attendance.ListForEmail(ctx, email)
	if err != nil {
		h.Log.Error("attendance load failed", zap.Error(err))
		respond.ServerError(w)
		return
	}
	official, err := h.Events.Count(ctx)
	if err != nil {
		h.Log.Error("event count failed", zap.Error(err))
		respond.ServerError(w)
		return
	}
	respond.OK(w, frequency.Compute(rows, int(official), email))
}

// ServeAll handles GET /attendance/all for the administrator.
func (h *Handler) ServeAll(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rows, err := h.Attendance.ListAll(ctx)
	if err != nil {
		h.Log.Error("attendance list failed", zap.Error(err))
		respond.ServerError(w)
		return
	}
	respond.OK(w, rows)
}

type quickInput struct {
	Email   string `json:"email" validate:"required,email"`
	EventID string `json:"event_id" validate:"required"`
}

// HandleQuick handles POST /attendance: presence for a roster email at a
// scheduled event.
func (h *Handler) HandleQuick(w http.ResponseWriter, r *http.Request) {
	_, _, actor, _ := authz.UserCtx(r)
	var in quickInput
	if !respond.Decode(w, r, &in) {
		return
	}
	eventID, err := primitive.ObjectIDFromHex(in.EventID)
	if err != nil {
		respond.NotFound(w)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	ev, err := h.Events.GetByID(ctx, eventID)
	if errors.Is(err, eventstore.ErrNotFound) {
		respond.NotFound(w)
		return
	}
	if err != nil {
		h.Log.Error("event load failed", zap.Error(err))
		respond.ServerError(w)
		return
	}
	a, err := h.Attendance.RecordForEvent(ctx, in.Email, ev)
	h.written(w, r, actor, a, err)
}

// HandleExternal handles POST /attendance/external.
func (h *Handler) HandleExternal(w http.ResponseWriter, r *http.Request) {
	_, _, actor, _ := authz.UserCtx(r)
	var in attendancestore.ExternalInput
	if !respond.Decode(w, r, &in) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	a, err := h.Attendance.RecordExternal(ctx, in)
	h.written(w, r, actor, a, err)
}

func (h *Handler) written(w http.ResponseWriter, r *http.Request, actor primitive.ObjectID, a models.Attendance, err error) {
	switch {
	case errors.Is(err, attendancestore.ErrAlreadyRecorded):
		respond.Message(w, http.StatusConflict, MsgAlreadyRecorded)
	case errors.Is(err, attendancestore.ErrEmailRequired):
		respond.BadRequest(w, respond.MsgBadRequest)
	case err != nil:
		h.Log.Error("attendance write failed", zap.Error(err))
		respond.ServerError(w)
	default:
		h.AuditLog.AttendanceRecorded(r.Context(), r, actor, a.EmailAluno, a.IDEvento)
		respond.Created(w, MsgRecorded, a)
	}
}

// HandleDelete handles DELETE /attendance/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := formutil.IDParam(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	err := h.Attendance.Delete(ctx, id)
	if errors.Is(err, attendancestore.ErrNotFound) {
		respond.NotFound(w)
		return
	}
	if err != nil {
		h.Log.Error("attendance delete failed", zap.Error(err))
		respond.ServerError(w)
		return
	}
	respond.Message(w, http.StatusOK, respond.MsgDeleted)
}
