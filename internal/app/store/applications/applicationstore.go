// internal/app/store/applications/applicationstore.go
package applicationstore

import (
	"context"
	"errors"

	"github.com/dalemusser/leaguehub/internal/app/system/normalize"
	"github.com/dalemusser/leaguehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when no application matches.
var ErrNotFound = errors.New("application not found")

// Store provides access to the inscricoes collection.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("inscricoes")}
}

// Collection exposes the collection for live watching.
func (s *Store) Collection() *mongo.Collection { return s.c }

// ListAll returns every application, newest first.
func (s *Store) ListAll(ctx context.Context) ([]models.Application, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Application{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the number of pending candidacies.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

// GetByID loads a application.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Application, error) {
	var v models.Application
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&v)
	if err == mongo.ErrNoDocuments {
		return models.Application{}, ErrNotFound
	}
	return v, err
}

// Create stores a new application stamped with the current time.
func (s *Store) Create(ctx context.Context, v models.Application) (models.Application, error) {
	v.ID = primitive.NewObjectID()
	v.Email = normalize.Email(v.Email)
	v.FullName = normalize.Name(v.FullName)
	v.Status = ""
	v.Timestamp = models.Now()
	if _, err := s.c.InsertOne(ctx, v); err != nil {
		return models.Application{}, err
	}
	return v, nil
}

// SetStatus writes the informal status (e.g. waiting_list).
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a application.
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

// ExistsForEmail reports whether email already has a pending application.
func (s *Store) ExistsForEmail(ctx context.Context, email string) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"email": normalize.Email(email)}, options.Count().SetLimit(1))
	return n > 0, err
}
