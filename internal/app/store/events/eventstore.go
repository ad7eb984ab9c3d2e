// internal/app/store/events/eventstore.go
package eventstore

import (
	"context"
	"errors"

	"github.com/dalemusser/leaguehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when no event matches.
var ErrNotFound = errors.New("event not found")

// Store provides access to the league schedule (cronograma).
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("cronograma")}
}

// Collection exposes the schedule collection for live watching.
func (s *Store) Collection() *mongo.Collection { return s.c }

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.Event, error) {
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Event{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListAll returns every event ordered by date text.
func (s *Store) ListAll(ctx context.Context) ([]models.Event, error) {
	return s.find(ctx, bson.M{})
}

// ListActive returns the events published to non-admins.
func (s *Store) ListActive(ctx context.Context) ([]models.Event, error) {
	return s.find(ctx, bson.M{"ativo": true})
}

// Count returns the number of schedule rows. Every row counts as an
// official event for attendance.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

// GetByID loads an event.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Event, error) {
	var e models.Event
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&e)
	if err == mongo.ErrNoDocuments {
		return models.Event{}, ErrNotFound
	}
	return e, err
}

// Create inserts an event.
func (s *Store) Create(ctx context.Context, e models.Event) (models.Event, error) {
	e.ID = primitive.NewObjectID()
	if _, err := s.c.InsertOne(ctx, e); err != nil {
		return models.Event{}, err
	}
	return e, nil
}

// Update replaces every field of an event except its id.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, e models.Event) error {
	e.ID = primitive.NilObjectID
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": e})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an event. Attendance rows pointing at it are kept.
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
