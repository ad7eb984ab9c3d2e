package userstore

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
	// ErrNotFound is returned when no profile matches.
	ErrNotFound = errors.New("profile not found")
	// ErrDuplicateEmail is returned when another profile already uses the email.
	ErrDuplicateEmail = errors.New("a profile with this email already exists")
)

// Store provides access to the users (profile) collection.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// GetByID loads a profile by its account ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return models.User{}, ErrNotFound
	}
	return u, err
}

// GetByEmail looks up a profile by case-insensitive email.
func (s *Store) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return models.User{}, ErrNotFound
	}
	return u, err
}

// NewProfile describes the profile created on first sign-in.
type NewProfile struct {
	ID       primitive.ObjectID
	Email    string
	FullName string
	PhotoURL string
	Role     models.Role
}

// EnsureProfile returns the profile for p.ID, creating it from p when it does
// not exist yet. created reports whether this call inserted it. An existing
// profile is returned untouched.
func (s *Store) EnsureProfile(ctx context.Context, p NewProfile) (u models.User, created bool, err error) {
	name := normalize.Name(p.FullName)
	if name == "" {
		name = models.DefaultProfileName
	}
	onInsert := bson.M{
		"email":      normalize.Email(p.Email),
		"full_name":  name,
		"role":       p.Role,
		"status":     models.StatusActive,
		"created_at": models.Now(),
	}
	if p.PhotoURL != "" {
		onInsert["photo_url"] = p.PhotoURL
	}
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": p.ID},
		bson.M{"$setOnInsert": onInsert},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, false, ErrDuplicateEmail
		}
		return models.User{}, false, err
	}
	u, err = s.GetByID(ctx, p.ID)
	return u, res.UpsertedCount > 0, err
}

// SetRole overwrites the cached role on a profile.
func (s *Store) SetRole(ctx context.Context, id primitive.ObjectID, role models.Role) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"role":       role,
		"updated_at": models.Now(),
	}})
	return err
}

// SetStatus sets ativo or inativo.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"status":     status,
		"updated_at": models.Now(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ProfileUpdate holds the fields a person may edit on their own profile.
type ProfileUpdate struct {
	FullName       string `json:"full_name" validate:"required"`
	CPF            string `json:"cpf"`
	RegistrationID string `json:"registration_id"`
	PhotoURL       string `json:"photo_url"`
}

// UpdateProfile saves editable fields. Role and email are never touched here.
func (s *Store) UpdateProfile(ctx context.Context, id primitive.ObjectID, upd ProfileUpdate) (models.User, error) {
	set := bson.M{
		"full_name":       normalize.Name(upd.FullName),
		"cpf":             upd.CPF,
		"registration_id": upd.RegistrationID,
		"updated_at":      models.Now(),
	}
	if upd.PhotoURL != "" {
		set["photo_url"] = upd.PhotoURL
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return models.User{}, err
	}
	if res.MatchedCount == 0 {
		return models.User{}, ErrNotFound
	}
	return s.GetByID(ctx, id)
}

// PromoteByEmail marks every profile with email as an active member.
// Used by candidate approval; a candidate may not have signed up yet, in
// which case nothing matches and the roster row alone grants access later.
func (s *Store) PromoteByEmail(ctx context.Context, email string) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"email": normalize.Email(email), "role": bson.M{"$ne": models.RoleAdmin}},
		bson.M{"$set": bson.M{
			"role":       models.RoleMember,
			"status":     models.StatusActive,
			"updated_at": models.Now(),
		}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// ListAll returns every profile sorted by name. The admin uses it to pick a
// conversation partner.
func (s *Store) ListAll(ctx context.Context) ([]models.User, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "full_name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.User{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByIDs loads the profiles among ids that exist, projected to id and
// name. Used to label audit events.
func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	opts := options.Find().SetProjection(bson.M{"_id": 1, "full_name": 1, "email": 1})
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.User{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
