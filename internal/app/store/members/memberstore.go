// internal/app/store/members/memberstore.go
package memberstore

import (
	"context"
	"errors"

	"github.com/dalemusser/leaguehub/internal/app/system/normalize"
	"github.com/dalemusser/leaguehub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound       = errors.New("roster member not found")
	ErrDuplicateEmail = errors.New("a roster member with this email already exists")
	ErrEmailRequired  = errors.New("roster member needs an email")
)

// Store provides access to the official roster (membros).
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("membros")}
}

// Collection exposes the roster collection for live watching.
func (s *Store) Collection() *mongo.Collection { return s.c }

// ListAll returns the roster sorted by name.
func (s *Store) ListAll(ctx context.Context) ([]models.Member, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "full_name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Member{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID loads a roster row.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Member, error) {
	var m models.Member
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return models.Member{}, ErrNotFound
	}
	return m, err
}

// HasEmail reports whether email has a roster row, ignoring case. Rows
// entered by hand may carry mixed-case emails.
func (s *Store) HasEmail(ctx context.Context, email string) (bool, error) {
	e := normalize.Email(email)
	if e == "" {
		return false, nil
	}
	opts := options.Count().SetLimit(1).SetCollation(&options.Collation{Locale: "en", Strength: 2})
	n, err := s.c.CountDocuments(ctx, bson.M{"email": e}, opts)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Upsert creates or refreshes the roster row for m.Email. There is at most
// one row per email; an existing row keeps its _id and original timestamp.
func (s *Store) Upsert(ctx context.Context, m models.Member) (models.Member, error) {
	m.Email = normalize.Email(m.Email)
	if m.Email == "" {
		return models.Member{}, ErrEmailRequired
	}
	if m.Timestamp == "" {
		m.Timestamp = models.Now()
	}
	set := bson.M{
		"full_name": normalize.Name(m.FullName),
		"role":      m.Role,
	}
	if m.PhotoURL != "" {
		set["photo_url"] = m.PhotoURL
	}
	var out models.Member
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"email": m.Email},
		bson.M{
			"$set":         set,
			"$setOnInsert": bson.M{"email": m.Email, "timestamp": m.Timestamp},
		},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&out)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Member{}, ErrDuplicateEmail
		}
		return models.Member{}, err
	}
	return out, nil
}

// Update rewrites a roster row by id. Changing the email to one already on
// the roster returns ErrDuplicateEmail.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, m models.Member) error {
	email := normalize.Email(m.Email)
	if email == "" {
		return ErrEmailRequired
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"full_name": normalize.Name(m.FullName),
		"email":     email,
		"role":      m.Role,
		"photo_url": m.PhotoURL,
	}})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a roster row. The person loses member access on their
// next request.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (models.Member, error) {
	var m models.Member
	err := s.c.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return models.Member{}, ErrNotFound
	}
	return m, err
}
