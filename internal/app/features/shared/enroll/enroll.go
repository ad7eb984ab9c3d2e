// Package enroll holds the candidacy form shared by activities and events.
package enroll

import (
	"context"
	"errors"
	"net/http"

	enrollmentstore "github.com/dalemusser/leaguehub/internal/app/store/enrollments"
	"github.com/dalemusser/leaguehub/internal/app/system/respond"
	"github.com/dalemusser/leaguehub/internal/app/system/timeouts"
	"github.com/dalemusser/leaguehub/internal/domain/models"
	"go.uber.org/zap"
)

// Notices returned to the applicant.
const (
	MsgEnrolled        = "Inscrição enviada! Aguarde a aprovação."
	MsgAlreadyEnrolled = "Você já está inscrito nesta atividade."
)

// Input is the applicant's form.
type Input struct {
	FullName       string `json:"full_name" validate:"notblank,max=120"`
	RegistrationID string `json:"registration_id" validate:"notblank,max=40"`
	Semester       string `json:"semester" validate:"notblank,max=20"`
	Email          string `json:"email" validate:"required,email"`
}

// Handle decodes the form and records a candidacy for activityID. A second
// candidacy for the same email and activity answers 409.
func Handle(w http.ResponseWriter, r *http.Request, s *enrollmentstore.Store, log *zap.Logger, activityID, title string) {
	var in Input
	if !respond.Decode(w, r, &in) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	v, err := s.Enroll(ctx, models.Enrollment{
		ActivityID:     activityID,
		ActivityTitle:  title,
		FullName:       in.FullName,
		RegistrationID: in.RegistrationID,
		Semester:       in.Semester,
		Email:          in.Email,
	})
	switch {
	case errors.Is(err, enrollmentstore.ErrAlreadyEnrolled):
		respond.Message(w, http.StatusConflict, MsgAlreadyEnrolled)
	case err != nil:
		log.Error("enrollment failed", zap.String("activity_id", activityID), zap.Error(err))
		respond.ServerError(w)
	default:
		respond.Created(w, MsgEnrolled, v)
	}
}
