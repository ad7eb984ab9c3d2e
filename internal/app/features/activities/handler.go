// internal/app/features/activities/handler.go
package activities

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/leaguehub/internal/app/features/shared/enroll"
	activitystore "github.com/dalemusser/leaguehub/internal/app/store/activities"
	"github.com/dalemusser/leaguehub/internal/app/store/audit"
	enrollmentstore "github.com/dalemusser/leaguehub/internal/app/store/enrollments"
	"github.com/dalemusser/leaguehub/internal/app/system/auditlog"
	"github.com/dalemusser/leaguehub/internal/app/system/authz"
	"github.com/dalemusser/leaguehub/internal/app/system/formutil"
	"github.com/dalemusser/leaguehub/internal/app/system/respond"
	"github.com/dalemusser/leaguehub/internal/app/system/timeouts"
	"github.com/dalemusser/leaguehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const collection = "activities"

type Handler struct {
	Activities  *activitystore.Store
	Enrollments *enrollmentstore.Store
	AuditLog    *auditlog.Logger
	Log         *zap.Logger
}

func NewHandler(db *mongo.Database, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Activities:  activitystore.New(db),
		Enrollments: enrollmentstore.New(db),
		AuditLog:    audit,
		Log:         logger,
	}
}

// ServeList handles GET /activities.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	rows, err := h.Activities.ListAll(ctx)
	if err != nil {
		h.Log.Error("activity list failed", zap.Error(err))
		respond.ServerError(w)
		return
	}
	if rows == nil {
		rows = []models.Activity{}
	}
	respond.OK(w, rows)
}

// ServeOne handles GET /activities/{id}.
func (h *Handler) ServeOne(w http.ResponseWriter, r *http.Request) {
	a, ok := h.load(w, r)
	if ok {
		respond.OK(w, a)
	}
}

// HandleEnroll handles POST /activities/{id}/enroll.
func (h *Handler) HandleEnroll(w http.ResponseWriter, r *http.Request) {
	a, ok := h.load(w, r)
	if !ok {
		return
	}
	enroll.Handle(w, r, h.Enrollments, h.Log, a.ID.Hex(), a.Title)
}

// ServeEnrollments handles GET /activities/{id}/enrollments for the
// administrator.
func (h *Handler) ServeEnrollments(w http.ResponseWriter, r *http.Request) {
	id, ok := formutil.IDParam(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	rows, err := h.Enrollments.ListForActivity(ctx, id.Hex())
	if err != nil {
		h.Log.Error("enrollment list failed", zap.String("activity_id", id.Hex()), zap.Error(err))
		respond.ServerError(w)
		return
	}
	if rows == nil {
		rows = []models.Enrollment{}
	}
	respond.OK(w, rows)
}

// HandleCreate handles POST /activities.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	_, _, actor, _ := authz.UserCtx(r)
	var in models.Activity
	if !respond.Decode(w, r, &in) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	a, err := h.Activities.Create(ctx, in)
	if err != nil {
		h.Log.Error("activity create failed", zap.Error(err))
		respond.ServerError(w)
		return
	}
	h.AuditLog.ContentChanged(r.Context(), r, actor, audit.EventContentCreated, collection, a.ID.Hex())
	respond.Created(w, respond.MsgSaved, a)
}

// HandleUpdate handles PUT /activities/{id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	_, _, actor, _ := authz.UserCtx(r)
	id, ok := formutil.IDParam(w, r)
	if !ok {
		return
	}
	var in models.Activity
	if !respond.Decode(w, r, &in) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Activities.Update(ctx, id, in); err != nil {
		h.writeErr(w, "activity update failed", err)
		return
	}
	h.AuditLog.ContentChanged(r.Context(), r, actor, audit.EventContentUpdated, collection, id.Hex())
	respond.Message(w, http.StatusOK, respond.MsgSaved)
}

// HandleDelete handles DELETE /activities/{id}. Pending enrollments stay
// for the dashboard to decide.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	_, _, actor, _ := authz.UserCtx(r)
	id, ok := formutil.IDParam(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Activities.Delete(ctx, id); err != nil {
		h.writeErr(w, "activity delete failed", err)
		return
	}
	h.AuditLog.ContentChanged(r.Context(), r, actor, audit.EventContentDeleted, collection, id.Hex())
	respond.Message(w, http.StatusOK, respond.MsgDeleted)
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) (models.Activity, bool) {
	id, ok := formutil.IDParam(w, r)
	if !ok {
		return models.Activity{}, false
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	a, err := h.Activities.GetByID(ctx, id)
	if err != nil {
		h.writeErr(w, "activity load failed", err)
		return models.Activity{}, false
	}
	return a, true
}

func (h *Handler) writeErr(w http.ResponseWriter, msg string, err error) {
	if errors.Is(err, activitystore.ErrNotFound) {
		respond.NotFound(w)
		return
	}
	h.Log.Error(msg, zap.Error(err))
	respond.ServerError(w)
}
