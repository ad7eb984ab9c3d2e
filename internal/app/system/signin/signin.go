// Package signin turns an authenticated account into a session: it derives
// the role, fetches or creates the profile and writes the session cookie.
// Password sign-in and Google sign-in both finish here.
package signin

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	memberstore "github.com/dalemusser/leaguehub/internal/app/store/members"
	userstore "github.com/dalemusser/leaguehub/internal/app/store/users"
	"github.com/dalemusser/leaguehub/internal/app/system/auth"
	"github.com/dalemusser/leaguehub/internal/app/system/normalize"
	"github.com/dalemusser/leaguehub/internal/app/system/roles"
	"github.com/dalemusser/leaguehub/internal/app/system/timeouts"
	"github.com/dalemusser/leaguehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ErrInactive is returned for a profile marked inativo.
var ErrInactive = errors.New("profile is inactive")

// Service completes sign-in for an account.
type Service struct {
	Users    *userstore.Store
	Roster   *memberstore.Store
	Resolver roles.Resolver
	Sessions *auth.SessionManager
	Log      *zap.Logger
}

// New builds a Service on db.
func New(db *mongo.Database, resolver roles.Resolver, sm *auth.SessionManager, logger *zap.Logger) *Service {
	return &Service{
		Users:    userstore.New(db),
		Roster:   memberstore.New(db),
		Resolver: resolver,
		Sessions: sm,
		Log:      logger,
	}
}

// Profile derives the role for acct and returns its profile, creating it
// on first sign-in. A stale stored role is rewritten.
func (s *Service) Profile(ctx context.Context, acct models.Account) (models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	email := normalize.Email(acct.Email)
	inRoster := false
	if !s.Resolver.IsAdmin(email) {
		var err error
		if inRoster, err = s.Roster.HasEmail(ctx, email); err != nil {
			return models.User{}, fmt.Errorf("roster lookup: %w", err)
		}
	}
	role, _ := s.Resolver.Resolve(email, inRoster, "")

	name := acct.DisplayName
	if role == models.RoleAdmin && normalize.Name(name) == "" {
		name = models.DefaultAdminName
	}
	u, _, err := s.Users.EnsureProfile(ctx, userstore.NewProfile{
		ID:       acct.ID,
		Email:    email,
		FullName: name,
		PhotoURL: acct.PhotoURL,
		Role:     role,
	})
	if err != nil {
		return models.User{}, fmt.Errorf("ensure profile: %w", err)
	}
	if normalize.Status(u.Status) == models.StatusInactive {
		return models.User{}, ErrInactive
	}
	if u.Role != role {
		if err := s.Users.SetRole(ctx, u.ID, role); err != nil {
			s.Log.Warn("role cache update failed", zap.String("user_id", u.ID.Hex()), zap.Error(err))
		}
		u.Role = role
	}
	return u, nil
}

// Complete runs Profile and writes the session cookie.
func (s *Service) Complete(w http.ResponseWriter, r *http.Request, acct models.Account) (*auth.SessionUser, error) {
	u, err := s.Profile(r.Context(), acct)
	if err != nil {
		return nil, err
	}
	su := &auth.SessionUser{
		ID:       u.ID.Hex(),
		Name:     u.FullName,
		Email:    u.Email,
		PhotoURL: u.PhotoURL,
		Role:     u.Role,
	}
	if err := s.Sessions.SignIn(w, r, su); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return su, nil
}
