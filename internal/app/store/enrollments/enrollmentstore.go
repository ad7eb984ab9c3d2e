// internal/app/store/enrollments/enrollmentstore.go
package enrollmentstore

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

// ErrNotFound is returned when no enrollment matches.
var (
	ErrNotFound        = errors.New("enrollment not found")
	ErrAlreadyEnrolled = errors.New("already enrolled for this activity")
)

// Store provides access to the enrollments collection.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("enrollments")}
}

// Collection exposes the collection for live watching.
func (s *Store) Collection() *mongo.Collection { return s.c }

// ListAll returns every enrollment, newest first.
func (s *Store) ListAll(ctx context.Context) ([]models.Enrollment, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Enrollment{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the number of pending candidacies.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

// GetByID loads a enrollment.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Enrollment, error) {
	var v models.Enrollment
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&v)
	if err == mongo.ErrNoDocuments {
		return models.Enrollment{}, ErrNotFound
	}
	return v, err
}

// Create stores a new enrollment stamped with the current time.
func (s *Store) Create(ctx context.Context, v models.Enrollment) (models.Enrollment, error) {
	v.ID = primitive.NewObjectID()
	v.Email = normalize.Email(v.Email)
	v.FullName = normalize.Name(v.FullName)
	v.Status = ""
	v.Timestamp = models.Now()
	if _, err := s.c.InsertOne(ctx, v); err != nil {
		return models.Enrollment{}, err
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

// Delete removes a enrollment.
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

// ListForActivity returns the candidacies for one activity or event.
func (s *Store) ListForActivity(ctx context.Context, activityID string) ([]models.Enrollment, error) {
	cur, err := s.c.Find(ctx, bson.M{"activity_id": activityID}, options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Enrollment{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Exists reports whether email already has a pending candidacy for activityID.
func (s *Store) Exists(ctx context.Context, email, activityID string) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{
		"email":       normalize.Email(email),
		"activity_id": activityID,
	}, options.Count().SetLimit(1))
	return n > 0, err
}

// Enroll creates a candidacy unless email already has one for the same
// activity. The check and insert are not atomic; a double submit can at
// worst leave two rows, which approval collapses into one roster entry.
func (s *Store) Enroll(ctx context.Context, v models.Enrollment) (models.Enrollment, error) {
	dup, err := s.Exists(ctx, v.Email, v.ActivityID)
	if err != nil {
		return models.Enrollment{}, err
	}
	if dup {
		return models.Enrollment{}, ErrAlreadyEnrolled
	}
	return s.Create(ctx, v)
}
