package userstore

import (
	"context"

	"github.com/dalemusser/leaguehub/internal/app/system/auth"
	"github.com/dalemusser/leaguehub/internal/app/system/normalize"
	"github.com/dalemusser/leaguehub/internal/app/system/roles"
	"github.com/dalemusser/leaguehub/internal/app/system/timeouts"
	"github.com/dalemusser/leaguehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Fetcher implements auth.UserFetcher. It loads the profile on each request
// and derives the role from the admin email and the roster, so an approval
// or a roster removal takes effect on the very next request.
type Fetcher struct {
	users    *mongo.Collection
	roster   *mongo.Collection
	resolver roles.Resolver
	log      *zap.Logger
}

// NewFetcher creates a UserFetcher that queries db.
func NewFetcher(db *mongo.Database, resolver roles.Resolver, logger *zap.Logger) *Fetcher {
	return &Fetcher{
		users:    db.Collection("users"),
		roster:   db.Collection("membros"),
		resolver: resolver,
		log:      logger,
	}
}

// FetchUser returns nil when the profile is missing, inactive, or any
// error occurs.
func (f *Fetcher) FetchUser(ctx context.Context, userID string) *auth.SessionUser {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	var u models.User
	proj := options.FindOne().SetProjection(bson.M{
		"_id":       1,
		"full_name": 1,
		"email":     1,
		"photo_url": 1,
		"role":      1,
		"status":    1,
	})
	if err := f.users.FindOne(ctx, bson.M{"_id": oid}, proj).Decode(&u); err != nil {
		return nil
	}
	if normalize.Status(u.Status) == models.StatusInactive {
		return nil
	}

	inRoster := false
	if !f.resolver.IsAdmin(u.Email) {
		// Roster rows entered by hand may carry mixed-case emails.
		opts := options.Count().SetLimit(1).SetCollation(&options.Collation{Locale: "en", Strength: 2})
		n, err := f.roster.CountDocuments(ctx, bson.M{"email": normalize.Email(u.Email)}, opts)
		if err != nil {
			f.log.Warn("roster lookup failed", zap.String("user_id", userID), zap.Error(err))
			return nil
		}
		inRoster = n > 0
	}

	role, stale := f.resolver.Resolve(u.Email, inRoster, u.Role)
	if stale {
		// The stored role is a cache; keep it in step.
		if _, err := f.users.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"role": role}}); err != nil {
			f.log.Warn("role cache update failed", zap.String("user_id", userID), zap.Error(err))
		}
	}

	return &auth.SessionUser{
		ID:       u.ID.Hex(),
		Name:     u.FullName,
		Email:    u.Email,
		PhotoURL: u.PhotoURL,
		Role:     role,
	}
}
