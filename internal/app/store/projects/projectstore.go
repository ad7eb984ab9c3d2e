// internal/app/store/projects/projectstore.go
package projectstore

import (
	"context"
	"errors"

	"github.com/dalemusser/leaguehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when no project matches.
var ErrNotFound = errors.New("project not found")

// Store provides access to the projetos collection.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("projetos")}
}

// Collection exposes the projects collection for live watching.
func (s *Store) Collection() *mongo.Collection { return s.c }

// ListAll returns every project, newest first.
func (s *Store) ListAll(ctx context.Context) ([]models.Project, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Project{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID loads a project.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Project, error) {
	var p models.Project
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return models.Project{}, ErrNotFound
	}
	return p, err
}

// Create inserts a project stamped with the current time.
func (s *Store) Create(ctx context.Context, p models.Project) (models.Project, error) {
	p.ID = primitive.NewObjectID()
	if p.Status == "" {
		p.Status = "active"
	}
	p.Timestamp = models.Now()
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Project{}, err
	}
	return p, nil
}

// Update replaces the editable fields. The creation timestamp is kept.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, p models.Project) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"title":           p.Title,
		"description":     p.Description,
		"advisor":         p.Advisor,
		"student_team":    p.StudentTeam,
		"category":        p.Category,
		"status":          p.Status,
		"start_date":      p.StartDate,
		"image_url":       p.ImageURL,
		"publication_url": p.PublicationURL,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a project.
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
