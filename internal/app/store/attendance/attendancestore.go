// internal/app/store/attendance/attendancestore.go
package attendancestore

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/leaguehub/internal/app/system/normalize"
	"github.com/dalemusser/leaguehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound        = errors.New("attendance record not found")
	ErrAlreadyRecorded = errors.New("presence already recorded for this event")
	ErrEmailRequired   = errors.New("attendance needs a member email")
)

// caseless matches emails regardless of case; older rows were typed by hand.
var caseless = &options.Collation{Locale: "en", Strength: 2}

// Store provides access to presence records (presencas).
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("presencas")}
}

// Collection exposes the collection for live watching.
func (s *Store) Collection() *mongo.Collection { return s.c }

func (s *Store) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Attendance, error) {
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Attendance{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListAll returns every record in natural order.
func (s *Store) ListAll(ctx context.Context) ([]models.Attendance, error) {
	return s.find(ctx, bson.M{}, options.Find())
}

// ListForEmail returns one person's records, newest first.
func (s *Store) ListForEmail(ctx context.Context, email string) ([]models.Attendance, error) {
	e := normalize.Email(email)
	if e == "" {
		return []models.Attendance{}, nil
	}
	opts := options.Find().SetCollation(caseless).SetSort(bson.D{{Key: "timestamp", Value: -1}})
	return s.find(ctx, bson.M{"email_aluno": e}, opts)
}

// RecordForEvent stores app-recorded presence for email at ev. Title and
// date are copied from the event so the history survives event edits.
func (s *Store) RecordForEvent(ctx context.Context, email string, ev models.Event) (models.Attendance, error) {
	e := normalize.Email(email)
	if e == "" {
		return models.Attendance{}, ErrEmailRequired
	}
	eventID := ev.ID.Hex()
	n, err := s.c.CountDocuments(ctx, bson.M{"email_aluno": e, "id_evento": eventID},
		options.Count().SetCollation(caseless).SetLimit(1))
	if err != nil {
		return models.Attendance{}, err
	}
	if n > 0 {
		return models.Attendance{}, ErrAlreadyRecorded
	}

	title := strings.TrimSpace(ev.Title)
	if title == "" {
		title = models.DefaultEventTitle
	}
	a := models.Attendance{
		ID:          primitive.NewObjectID(),
		EmailAluno:  e,
		IDEvento:    eventID,
		TitleEvento: title,
		Date:        ev.Date,
		Timestamp:   models.Now(),
	}
	if _, err := s.c.InsertOne(ctx, a); err != nil {
		return models.Attendance{}, err
	}
	return a, nil
}

// ExternalInput describes presence at an activity outside the app.
type ExternalInput struct {
	Email    string `json:"email" validate:"required,email"`
	Title    string `json:"title" validate:"required"`
	Date     string `json:"date" validate:"required"`
	Workload string `json:"workload"`
}

// RecordExternal stores a manual external record.
func (s *Store) RecordExternal(ctx context.Context, in ExternalInput) (models.Attendance, error) {
	e := normalize.Email(in.Email)
	if e == "" {
		return models.Attendance{}, ErrEmailRequired
	}
	a := models.Attendance{
		ID:          primitive.NewObjectID(),
		EmailAluno:  e,
		IDEvento:    models.ExternalEventID,
		TitleEvento: strings.TrimSpace(in.Title),
		Date:        in.Date,
		Workload:    in.Workload,
		Timestamp:   models.Now(),
		IsExternal:  true,
	}
	if _, err := s.c.InsertOne(ctx, a); err != nil {
		return models.Attendance{}, err
	}
	return a, nil
}

// Delete removes a record.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
