// internal/app/store/activities/activitystore.go
package activitystore

import (
	"context"
	"errors"

	"github.com/dalemusser/leaguehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when no activity matches.
var ErrNotFound = errors.New("activity not found")

// Store provides access to the activities collection.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("activities")}
}

// Collection exposes the activities collection for live watching.
func (s *Store) Collection() *mongo.Collection { return s.c }

// ListAll returns every activity in natural order.
func (s *Store) ListAll(ctx context.Context) ([]models.Activity, error) {
	cur, err := s.c.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Activity{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID loads an activity.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Activity, error) {
	var a models.Activity
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if err == mongo.ErrNoDocuments {
		return models.Activity{}, ErrNotFound
	}
	return a, err
}

// Create inserts an activity. Status defaults to active.
func (s *Store) Create(ctx context.Context, a models.Activity) (models.Activity, error) {
	a.ID = primitive.NewObjectID()
	if a.Status == "" {
		a.Status = "active"
	}
	if _, err := s.c.InsertOne(ctx, a); err != nil {
		return models.Activity{}, err
	}
	return a, nil
}

// Update replaces every field of an activity except its id.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, a models.Activity) error {
	a.ID = primitive.NilObjectID
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": a})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an activity. Enrollments that reference it are kept.
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
