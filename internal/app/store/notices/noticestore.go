// internal/app/store/notices/noticestore.go
package noticestore

import (
	"context"
	"errors"

	"github.com/dalemusser/leaguehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when no notice matches.
var ErrNotFound = errors.New("notice not found")

// Store provides access to the members' notice board.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("notices")}
}

// ListRecent returns notices newest first. limit <= 0 means all.
func (s *Store) ListRecent(ctx context.Context, limit int64) ([]models.Notice, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Notice{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create posts a notice stamped with the current time.
func (s *Store) Create(ctx context.Context, n models.Notice) (models.Notice, error) {
	n.ID = primitive.NewObjectID()
	n.Timestamp = models.Now()
	if _, err := s.c.InsertOne(ctx, n); err != nil {
		return models.Notice{}, err
	}
	return n, nil
}

// Delete removes a notice.
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
