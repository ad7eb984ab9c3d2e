// internal/app/features/dashboard/handler.go
package dashboard

import (
	"context"
	"net/http"

	applicationstore "github.com/dalemusser/leaguehub/internal/app/store/applications"
	attendancestore "github.com/dalemusser/leaguehub/internal/app/store/attendance"
	enrollmentstore "github.com/dalemusser/leaguehub/internal/app/store/enrollments"
	eventstore "github.com/dalemusser/leaguehub/internal/app/store/events"
	memberstore "github.com/dalemusser/leaguehub/internal/app/store/members"
	"github.com/dalemusser/leaguehub/internal/app/system/approval"
	"github.com/dalemusser/leaguehub/internal/app/system/auditlog"
	"github.com/dalemusser/leaguehub/internal/app/system/authz"
	"github.com/dalemusser/leaguehub/internal/app/system/frequency"
	"github.com/dalemusser/leaguehub/internal/app/system/respond"
	"github.com/dalemusser/leaguehub/internal/app/system/timeouts"
	"github.com/dalemusser/leaguehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Approval     *approval.Service
	Roster       *memberstore.Store
	Events       *eventstore.Store
	Enrollments  *enrollmentstore.Store
	Applications *applicationstore.Store
	Attendance   *attendancestore.Store
	AuditLog     *auditlog.Logger
	Log          *zap.Logger
}

func NewHandler(db *mongo.Database, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Approval:     approval.New(db, logger),
		Roster:       memberstore.New(db),
		Events:       eventstore.New(db),
		Enrollments:  enrollmentstore.New(db),
		Applications: applicationstore.New(db),
		Attendance:   attendancestore.New(db),
		AuditLog:     audit,
		Log:          logger,
	}
}

// Counts are the administrator's headline numbers.
type Counts struct {
	Members      int   `json:"members"`
	Events       int64 `json:"events"`
	Enrollments  int64 `json:"enrollments"`
	Applications int64 `json:"applications"`
}

type adminView struct {
	Counts     Counts                 `json:"counts"`
	Candidates []models.CandidateView `json:"candidates"`
}

// ServeDashboard dispatches on the derived role: the administrator gets the
// candidate queue, a member gets their own attendance.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	role, _, _, _ := authz.UserCtx(r)
	switch role {
	case models.RoleAdmin:
		h.serveAdmin(w, r)
	case models.RoleMember:
		h.serveMember(w, r)
	default:
		respond.Message(w, http.StatusForbidden, MsgMembersOnly)
	}
}

// MsgMembersOnly is shown to a signed-in visitor.
const MsgMembersOnly = "Área restrita a membros da liga."

func (h *Handler) serveAdmin(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	cands, err := h.Approval.List(ctx)
	if err != nil {
		h.Log.Error("candidate list failed", zap.Error(err))
		respond.ServerError(w)
		return
	}
	counts, err := h.counts(ctx)
	if err != nil {
		h.Log.Error("dashboard counts failed", zap.Error(err))
		respond.ServerError(w)
		return
	}
	respond.OK(w, adminView{Counts: counts, Candidates: approval.Views(cands)})
}

func (h *Handler) counts(ctx context.Context) (Counts, error) {
	var c Counts
	roster, err := h.Roster.ListAll(ctx)
	if err != nil {
		return c, err
	}
	c.Members = len(roster)
	if c.Events, err = h.Events.Count(ctx); err != nil {
		return c, err
	}
	if c.Enrollments, err = h.Enrollments.Count(ctx); err != nil {
		return c, err
	}
	c.Applications, err = h.Applications.Count(ctx)
	return c, err
}

func (h *Handler) serveMember(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	email := authz.UserEmail(r)
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
