// internal/domain/models/content.go
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event is one entry of the league schedule. Date and time are display text.
type Event struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title          string             `bson:"title" json:"title" validate:"required"`
	Date           string             `bson:"date" json:"date" validate:"required"`
	Time           string             `bson:"time,omitempty" json:"time,omitempty"`
	Location       string             `bson:"location,omitempty" json:"location,omitempty"`
	Description    string             `bson:"description,omitempty" json:"description,omitempty"`
	ProjetoExplica string             `bson:"projeto_explica,omitempty" json:"projeto_explica,omitempty"`
	ActivityID     string             `bson:"activity_id,omitempty" json:"activity_id,omitempty"`
	Type           string             `bson:"type,omitempty" json:"type,omitempty" validate:"omitempty,oneof=meeting workshop symposium outreach"`
	ImageURL       string             `bson:"image_url,omitempty" json:"image_url,omitempty"`
	Ativo          bool               `bson:"ativo" json:"ativo"`
}

// Activity is a research, teaching or extension line.
type Activity struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title" validate:"required"`
	Category    string             `bson:"category" json:"category" validate:"omitempty,oneof=Research Teaching Extension"`
	Coordinator string             `bson:"coordinator,omitempty" json:"coordinator,omitempty"`
	Status      string             `bson:"status" json:"status" validate:"omitempty,oneof=active completed on-hold"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Date        string             `bson:"date,omitempty" json:"date,omitempty"`
	EnrollLink  string             `bson:"enroll_link,omitempty" json:"enroll_link,omitempty" validate:"omitempty,url"`
	ImageURL    string             `bson:"image_url,omitempty" json:"image_url,omitempty"`
}

// Project is a research project shown publicly and fed to the tutor.
type Project struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title          string             `bson:"title" json:"title" validate:"required"`
	Description    string             `bson:"description" json:"description"`
	Advisor        string             `bson:"advisor" json:"advisor"`
	StudentTeam    string             `bson:"student_team,omitempty" json:"student_team,omitempty"`
	Category       string             `bson:"category,omitempty" json:"category,omitempty"`
	Status         string             `bson:"status" json:"status" validate:"omitempty,oneof=active completed"`
	StartDate      string             `bson:"start_date,omitempty" json:"start_date,omitempty"`
	ImageURL       string             `bson:"image_url,omitempty" json:"image_url,omitempty"`
	PublicationURL string             `bson:"publication_url,omitempty" json:"publication_url,omitempty" validate:"omitempty,url"`
	Timestamp      Stamp              `bson:"timestamp" json:"timestamp"`
}

// StatusLabel renders the project status the way the public pages show it.
func (p Project) StatusLabel() string {
	if p.Status == "completed" {
		return "Concluído"
	}
	return "Em Andamento"
}

// Notice is a message on the members' notice board.
type Notice struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title     string             `bson:"title" json:"title" validate:"required"`
	Text      string             `bson:"text" json:"text" validate:"required"`
	Author    string             `bson:"author" json:"author"`
	Timestamp Stamp              `bson:"timestamp" json:"timestamp"`
}

// MemberDoc is a private document addressed to one member.
type MemberDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MemberEmail string             `bson:"member_email" json:"member_email"`
	Title       string             `bson:"title" json:"title"`
	Message     string             `bson:"message,omitempty" json:"message,omitempty"`
	URL         string             `bson:"url" json:"url"`
	FileName    string             `bson:"file_name,omitempty" json:"file_name,omitempty"`
	Timestamp   Stamp              `bson:"timestamp" json:"timestamp"`
}
