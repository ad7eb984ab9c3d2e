// internal/app/store/accounts/accountstore.go
package accountstore

import (
	"context"
	"errors"

	"github.com/dalemusser/leaguehub/internal/app/system/normalize"
	"github.com/dalemusser/leaguehub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrDuplicateEmail is returned when an account with the email already exists.
	ErrDuplicateEmail = errors.New("an account with this email already exists")
	// ErrNotFound is returned when no account matches.
	ErrNotFound = errors.New("account not found")
)

// Store provides access to the accounts collection.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("accounts")}
}

// Create inserts a new account. Email is normalized.
func (s *Store) Create(ctx context.Context, a models.Account) (models.Account, error) {
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	a.Email = normalize.Email(a.Email)
	a.DisplayName = normalize.Name(a.DisplayName)
	if a.Provider == "" {
		a.Provider = models.ProviderPassword
	}
	if a.CreatedAt == "" {
		a.CreatedAt = models.Now()
	}
	if _, err := s.c.InsertOne(ctx, a); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Account{}, ErrDuplicateEmail
		}
		return models.Account{}, err
	}
	return a, nil
}

// GetByEmail looks up an account by case-insensitive email.
func (s *Store) GetByEmail(ctx context.Context, email string) (models.Account, error) {
	var a models.Account
	err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&a)
	if err == mongo.ErrNoDocuments {
		return models.Account{}, ErrNotFound
	}
	return a, err
}

// GetByID loads an account.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Account, error) {
	var a models.Account
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if err == mongo.ErrNoDocuments {
		return models.Account{}, ErrNotFound
	}
	return a, err
}

// LinkGoogle records the Google subject and photo on an existing account.
func (s *Store) LinkGoogle(ctx context.Context, id primitive.ObjectID, googleID, photoURL string) error {
	set := bson.M{"google_id": googleID}
	if photoURL != "" {
		set["photo_url"] = photoURL
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
