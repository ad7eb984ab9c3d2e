// internal/domain/models/social.go
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExternalEventID marks attendance recorded outside the app.
const ExternalEventID = "EXTERNAL"

// DefaultEventTitle is used when quick presence is recorded against an event with no title.
const DefaultEventTitle = "Evento da Liga"

// Attendance is one presence record.
type Attendance struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EmailAluno  string             `bson:"email_aluno" json:"email_aluno"`
	IDEvento    string             `bson:"id_evento" json:"id_evento"`
	TitleEvento string             `bson:"title_evento" json:"title_evento"`
	Date        string             `bson:"date" json:"date"`
	Workload    string             `bson:"workload,omitempty" json:"workload,omitempty"`
	Timestamp   Stamp              `bson:"timestamp" json:"timestamp"`
	IsExternal  bool               `bson:"is_external" json:"is_external"`
}

// MediaItem is one attachment of a feed post.
type MediaItem struct {
	URL  string `bson:"url" json:"url"`
	Type string `bson:"type" json:"type"` // image | video
}

// Comment is a reply on a feed post.
type Comment struct {
	ID        string `bson:"id" json:"id"`
	UserID    string `bson:"user_id" json:"user_id"`
	UserName  string `bson:"user_name" json:"user_name"`
	UserPhoto string `bson:"user_photo,omitempty" json:"user_photo,omitempty"`
	UserRole  string `bson:"user_role" json:"user_role"` // admin | student
	Text      string `bson:"text" json:"text"`
	Timestamp Stamp  `bson:"timestamp" json:"timestamp"`
}

// Post is a feed entry.
type Post struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Media       []MediaItem        `bson:"media" json:"media"`
	Caption     string             `bson:"caption" json:"caption"`
	Author      string             `bson:"author" json:"author"`
	AuthorID    string             `bson:"author_id" json:"author_id"`
	Timestamp   Stamp              `bson:"timestamp" json:"timestamp"`
	Likes       []string           `bson:"likes" json:"likes"`
	Comments    []Comment          `bson:"comments" json:"comments"`
	IsAdminPost bool               `bson:"is_admin_post" json:"is_admin_post"`
}

// LikedBy reports whether userID has liked the post.
func (p Post) LikedBy(userID string) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// Message is a direct message between two profiles.
type Message struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SenderID   string             `bson:"sender_id" json:"sender_id"`
	SenderName string             `bson:"sender_name" json:"sender_name"`
	ReceiverID string             `bson:"receiver_id" json:"receiver_id"`
	Message    string             `bson:"message" json:"message"`
	FileURL    string             `bson:"file_url,omitempty" json:"file_url,omitempty"`
	FileName   string             `bson:"file_name,omitempty" json:"file_name,omitempty"`
	Timestamp  Stamp              `bson:"timestamp" json:"timestamp"`
	Read       bool               `bson:"read" json:"read"`
}
