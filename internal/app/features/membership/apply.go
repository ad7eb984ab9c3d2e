// internal/app/features/membership/apply.go
package membership

import (
	"context"
	"net/http"

	"github.com/dalemusser/leaguehub/internal/app/system/respond"
	"github.com/dalemusser/leaguehub/internal/app/system/timeouts"
	"github.com/dalemusser/leaguehub/internal/domain/models"
	"go.uber.org/zap"
)

// Notices returned to applicants.
const (
	MsgApplied         = "Inscrição enviada com sucesso!"
	MsgSelectionClosed = "O processo seletivo está encerrado."
	MsgAlreadyApplied  = "Já existe uma inscrição com este e-mail."
)

type applicationInput struct {
	FullName       string `json:"full_name" validate:"notblank,max=120"`
	Email          string `json:"email" validate:"required,email"`
	Semester       string `json:"semester" validate:"notblank,max=20"`
	RegistrationID string `json:"registration_id" validate:"notblank,max=40"`
}

// HandleApply handles POST /membership/apply. Applications are accepted
// only while the selection is open, once per email.
func (h *Handler) HandleApply(w http.ResponseWriter, r *http.Request) {
	var in applicationInput
	if !respond.Decode(w, r, &in) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	m, err := h.Settings.GetMembership(ctx)
	if err != nil {
		h.Log.Error("membership settings load failed", zap.Error(err))
		respond.ServerError(w)
		return
	}
	if m.SelectionStatus != models.SelectionOpen {
		respond.Message(w, http.StatusConflict, MsgSelectionClosed)
		return
	}
	dup, err := h.Applications.ExistsForEmail(ctx, in.Email)
	if err != nil {
		h.Log.Error("application lookup failed", zap.Error(err))
		respond.ServerError(w)
		return
	}
	if dup {
		respond.Message(w, http.StatusConflict, MsgAlreadyApplied)
		return
	}
	a, err := h.Applications.Create(ctx, models.Application{
		FullName:       in.FullName,
		Email:          in.Email,
		Semester:       in.Semester,
		RegistrationID: in.RegistrationID,
	})
	if err != nil {
		h.Log.Error("application create failed", zap.Error(err))
		respond.ServerError(w)
		return
	}
	respond.Created(w, MsgApplied, a)
}
