// internal/domain/models/member.go
package models

import (
	"net/url"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Member is a row of the official roster. Presence of a person's email here
// is what makes them a member.
type Member struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName  string             `bson:"full_name" json:"full_name"`
	Email     string             `bson:"email" json:"email"`
	Role      string             `bson:"role" json:"role"` // free-text title, e.g. "Membro Efetivo"
	PhotoURL  string             `bson:"photo_url,omitempty" json:"photo_url,omitempty"`
	Timestamp Stamp              `bson:"timestamp" json:"timestamp"`
}

// Roster titles given by the approval workflow.
const (
	TitleLabMember     = "Membro Laboratório"
	TitleGeneralMember = "Membro Efetivo"
)

// AvatarURL builds the generated avatar used for approved candidates.
func AvatarURL(fullName string) string {
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(fullName) + "&background=059669&color=fff"
}
