// internal/domain/models/candidate.go
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CandidateWaitlisted is the informal status set on a waitlisted candidacy.
const CandidateWaitlisted = "waiting_list"

// Enrollment is a candidacy for a specific lab activity.
type Enrollment struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ActivityID     string             `bson:"activity_id" json:"activity_id" validate:"required"`
	ActivityTitle  string             `bson:"activity_title" json:"activity_title"`
	FullName       string             `bson:"full_name" json:"full_name" validate:"required"`
	RegistrationID string             `bson:"registration_id" json:"registration_id" validate:"required"`
	Semester       string             `bson:"semester" json:"semester" validate:"required"`
	Email          string             `bson:"email" json:"email" validate:"required,email"`
	Status         string             `bson:"status,omitempty" json:"status,omitempty"`
	Timestamp      Stamp              `bson:"timestamp" json:"timestamp"`
}

// Application is a candidacy for general admission to the league.
type Application struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName       string             `bson:"full_name" json:"full_name" validate:"required"`
	Email          string             `bson:"email" json:"email" validate:"required,email"`
	Semester       string             `bson:"semester" json:"semester" validate:"required"`
	RegistrationID string             `bson:"registration_id" json:"registration_id" validate:"required"`
	Status         string             `bson:"status,omitempty" json:"status,omitempty"`
	Timestamp      Stamp              `bson:"timestamp" json:"timestamp"`
}

// CandidateSource says which collection a candidate lives in.
type CandidateSource string

const (
	SourceLab     CandidateSource = "lab"
	SourceGeneral CandidateSource = "general"
)

// Valid reports whether s names a known source.
func (s CandidateSource) Valid() bool {
	return s == SourceLab || s == SourceGeneral
}

// Candidate is either a LabCandidate or a GeneralCandidate.
type Candidate interface {
	Source() CandidateSource
	View() CandidateView
	candidate()
}

// LabCandidate wraps an Enrollment.
type LabCandidate struct{ Enrollment }

// GeneralCandidate wraps an Application.
type GeneralCandidate struct{ Application }

func (LabCandidate) Source() CandidateSource     { return SourceLab }
func (GeneralCandidate) Source() CandidateSource { return SourceGeneral }
func (LabCandidate) candidate()                  {}
func (GeneralCandidate) candidate()              {}

// View projects the enrollment onto the common candidate shape.
func (c LabCandidate) View() CandidateView {
	return CandidateView{
		Source:         SourceLab,
		ID:             c.ID,
		FullName:       c.FullName,
		Email:          c.Email,
		Semester:       c.Semester,
		RegistrationID: c.RegistrationID,
		Status:         c.Status,
		ActivityTitle:  c.ActivityTitle,
		Timestamp:      c.Timestamp,
	}
}

// View projects the application onto the common candidate shape.
func (c GeneralCandidate) View() CandidateView {
	return CandidateView{
		Source:         SourceGeneral,
		ID:             c.ID,
		FullName:       c.FullName,
		Email:          c.Email,
		Semester:       c.Semester,
		RegistrationID: c.RegistrationID,
		Status:         c.Status,
		Timestamp:      c.Timestamp,
	}
}

// CandidateView is the fields both candidacy kinds share.
type CandidateView struct {
	Source         CandidateSource    `json:"source"`
	ID             primitive.ObjectID `json:"id"`
	FullName       string             `json:"full_name"`
	Email          string             `json:"email"`
	Semester       string             `json:"semester"`
	RegistrationID string             `json:"registration_id"`
	Status         string             `json:"status,omitempty"`
	ActivityTitle  string             `json:"activity_title,omitempty"`
	Timestamp      Stamp              `json:"timestamp"`
}

// RosterTitle is the roster role text an approved candidate of this source receives.
func (s CandidateSource) RosterTitle() string {
	if s == SourceLab {
		return TitleLabMember
	}
	return TitleGeneralMember
}
