// internal/app/features/dashboard/candidates.go
package dashboard

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/leaguehub/internal/app/store/audit"
	"github.com/dalemusser/leaguehub/internal/app/system/approval"
	"github.com/dalemusser/leaguehub/internal/app/system/authz"
	"github.com/dalemusser/leaguehub/internal/app/system/respond"
	"github.com/dalemusser/leaguehub/internal/app/system/timeouts"
	"github.com/dalemusser/leaguehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Decision notices.
const (
	MsgApproved          = "Candidato aprovado e adicionado aos membros."
	MsgWaitlisted        = "Candidato movido para a lista de espera."
	MsgRejected          = "Candidatura recusada."
	MsgCandidateNotFound = "Candidatura não encontrada. Ela pode já ter sido decidida."
	MsgDecisionFailed    = "Não foi possível registrar a decisão. Tente novamente."
)

// ServeCandidates handles GET /dashboard/candidates.
func (h *Handler) ServeCandidates(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	cands, err := h.Approval.List(ctx)
	if err != nil {
		h.Log.Error("candidate list failed", zap.Error(err))
		respond.ServerError(w)
		return
	}
	respond.OK(w, approval.Views(cands))
}

// HandleApprove handles POST /dashboard/candidates/{source}/{id}/approve.
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, audit.EventCandidateApproved, MsgApproved, func(ctx context.Context, src models.CandidateSource, id primitive.ObjectID) (string, error) {
		m, err := h.Approval.Approve(ctx, src, id)
		return m.Email, err
	})
}

// HandleWaitlist handles POST /dashboard/candidates/{source}/{id}/waitlist.
func (h *Handler) HandleWaitlist(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, audit.EventCandidateWaitlisted, MsgWaitlisted, func(ctx context.Context, src models.CandidateSource, id primitive.ObjectID) (string, error) {
		return "", h.Approval.Waitlist(ctx, src, id)
	})
}

// HandleReject handles POST /dashboard/candidates/{source}/{id}/reject.
func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, audit.EventCandidateRejected, MsgRejected, func(ctx context.Context, src models.CandidateSource, id primitive.ObjectID) (string, error) {
		return "", h.Approval.Reject(ctx, src, id)
	})
}

type decision func(ctx context.Context, src models.CandidateSource, id primitive.ObjectID) (email string, err error)

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, eventType, okMsg string, fn decision) {
	_, _, actor, _ := authz.UserCtx(r)
	src := models.CandidateSource(chi.URLParam(r, "source"))
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if !src.Valid() || err != nil {
		respond.NotFound(w)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	email, err := fn(ctx, src, id)
	h.AuditLog.CandidateDecision(r.Context(), r, actor, eventType, string(src), id.Hex(), email, err)
	switch {
	case errors.Is(err, approval.ErrCandidateNotFound):
		respond.Message(w, http.StatusNotFound, MsgCandidateNotFound)
	case err != nil:
		h.Log.Error("candidate decision failed",
			zap.String("event", eventType),
			zap.String("source", string(src)),
			zap.String("candidate_id", id.Hex()),
			zap.Error(err))
		respond.Message(w, http.StatusInternalServerError, MsgDecisionFailed)
	default:
		respond.Message(w, http.StatusOK, okMsg)
	}
}
