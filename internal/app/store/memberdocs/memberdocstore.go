// internal/app/store/memberdocs/memberdocstore.go
package memberdocstore

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

var (
	ErrNotFound      = errors.New("member document not found")
	ErrEmailRequired = errors.New("member document needs a recipient email")
)

// Store provides access to private documents sent to individual members.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("member_docs")}
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.MemberDoc, error) {
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.MemberDoc{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListForEmail returns the documents addressed to email, newest first.
func (s *Store) ListForEmail(ctx context.Context, email string) ([]models.MemberDoc, error) {
	e := normalize.Email(email)
	if e == "" {
		return []models.MemberDoc{}, nil
	}
	return s.find(ctx, bson.M{"member_email": e})
}

// ListAll returns every document for the admin view.
func (s *Store) ListAll(ctx context.Context) ([]models.MemberDoc, error) {
	return s.find(ctx, bson.M{})
}

// Create stores a document record. The file itself lives in blob storage.
func (s *Store) Create(ctx context.Context, d models.MemberDoc) (models.MemberDoc, error) {
	d.MemberEmail = normalize.Email(d.MemberEmail)
	if d.MemberEmail == "" {
		return models.MemberDoc{}, ErrEmailRequired
	}
	d.ID = primitive.NewObjectID()
	d.Timestamp = models.Now()
	if _, err := s.c.InsertOne(ctx, d); err != nil {
		return models.MemberDoc{}, err
	}
	return d, nil
}

// Delete removes a document record.
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
