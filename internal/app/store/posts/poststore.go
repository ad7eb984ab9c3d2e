// internal/app/store/posts/poststore.go
package poststore

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/leaguehub/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound     = errors.New("post not found")
	ErrEmptyComment = errors.New("comment text is empty")
)

// Store provides access to the posts collection.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("posts")}
}

// Collection exposes the collection for live watching.
func (s *Store) Collection() *mongo.Collection { return s.c }

// ListAll returns every post, newest first.
func (s *Store) ListAll(ctx context.Context) ([]models.Post, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Post{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	for i := range out {
		normalizePost(&out[i])
	}
	return out, nil
}

// GetByID returns one post.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Post, error) {
	var p models.Post
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return models.Post{}, ErrNotFound
	}
	if err != nil {
		return models.Post{}, err
	}
	normalizePost(&p)
	return p, nil
}

// Create inserts an admin post.
func (s *Store) Create(ctx context.Context, p models.Post) (models.Post, error) {
	p.ID = primitive.NewObjectID()
	p.Timestamp = models.Now()
	p.Likes = []string{}
	p.Comments = []models.Comment{}
	if p.Media == nil {
		p.Media = []models.MediaItem{}
	}
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Post{}, err
	}
	return p, nil
}

// Like adds userID to the likes set; liking twice is a no-op.
func (s *Store) Like(ctx context.Context, id primitive.ObjectID, userID string) error {
	return s.updateOne(ctx, id, bson.M{"$addToSet": bson.M{"likes": userID}})
}

// Unlike removes userID from the likes set.
func (s *Store) Unlike(ctx context.Context, id primitive.ObjectID, userID string) error {
	return s.updateOne(ctx, id, bson.M{"$pull": bson.M{"likes": userID}})
}

// ToggleLike likes or unlikes based on the current state and reports
// whether the post is liked afterwards.
func (s *Store) ToggleLike(ctx context.Context, id primitive.ObjectID, userID string) (bool, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	if p.LikedBy(userID) {
		return false, s.Unlike(ctx, id, userID)
	}
	return true, s.Like(ctx, id, userID)
}

// AddComment appends a comment with a generated id.
func (s *Store) AddComment(ctx context.Context, id primitive.ObjectID, c models.Comment) (models.Comment, error) {
	c.Text = strings.TrimSpace(c.Text)
	if c.Text == "" {
		return models.Comment{}, ErrEmptyComment
	}
	c.ID = uuid.NewString()
	c.Timestamp = models.Now()
	if err := s.updateOne(ctx, id, bson.M{"$push": bson.M{"comments": c}}); err != nil {
		return models.Comment{}, err
	}
	return c, nil
}

// UpdateCaption replaces the caption.
func (s *Store) UpdateCaption(ctx context.Context, id primitive.ObjectID, caption string) error {
	return s.updateOne(ctx, id, bson.M{"$set": bson.M{"caption": caption}})
}

// Delete removes a post.
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

func (s *Store) updateOne(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func normalizePost(p *models.Post) {
	if p.Likes == nil {
		p.Likes = []string{}
	}
	if p.Comments == nil {
		p.Comments = []models.Comment{}
	}
	if p.Media == nil {
		p.Media = []models.MediaItem{}
	}
}
