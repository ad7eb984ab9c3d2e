// internal/app/store/settings/settingsstore.go
package settingsstore

import (
	"context"
	"strings"

	"github.com/dalemusser/leaguehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	membershipID = "membership"
	appID        = "app"
)

// Store provides access to the two singleton settings documents:
// settings/membership and configuracoes/app.
type Store struct {
	membership *mongo.Collection
	app        *mongo.Collection
}

// New creates a new settings store.
func New(db *mongo.Database) *Store {
	return &Store{
		membership: db.Collection("settings"),
		app:        db.Collection("configuracoes"),
	}
}

// AppCollection exposes configuracoes for live watching.
func (s *Store) AppCollection() *mongo.Collection { return s.app }

// MembershipCollection exposes settings for live watching.
func (s *Store) MembershipCollection() *mongo.Collection { return s.membership }

// GetMembership returns the membership settings, or defaults when nothing
// has been saved.
func (s *Store) GetMembership(ctx context.Context) (models.MembershipSettings, error) {
	var m models.MembershipSettings
	err := s.membership.FindOne(ctx, bson.M{"_id": membershipID}).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return models.DefaultMembershipSettings(), nil
	}
	if err != nil {
		return models.MembershipSettings{}, err
	}
	if m.Rules == nil {
		m.Rules = []string{}
	}
	if m.Calendar == nil {
		m.Calendar = []models.CalendarStage{}
	}
	if m.SelectionStatus == "" {
		m.SelectionStatus = models.SelectionClosed
	}
	return m, nil
}

// SaveMembership replaces the membership settings.
func (s *Store) SaveMembership(ctx context.Context, m models.MembershipSettings) (models.MembershipSettings, error) {
	if m.Rules == nil {
		m.Rules = []string{}
	}
	if m.Calendar == nil {
		m.Calendar = []models.CalendarStage{}
	}
	m.SelectionStatus = strings.ToLower(strings.TrimSpace(m.SelectionStatus))
	if m.SelectionStatus != models.SelectionOpen {
		m.SelectionStatus = models.SelectionClosed
	}
	m.UpdatedAt = models.Now()

	update := bson.M{"$set": bson.M{
		"edital_url":       m.EditalURL,
		"selection_status": m.SelectionStatus,
		"rules":            m.Rules,
		"calendar":         m.Calendar,
		"dates":            m.Dates,
		"updated_at":       m.UpdatedAt,
	}}
	_, err := s.membership.UpdateOne(ctx, bson.M{"_id": membershipID}, update, options.Update().SetUpsert(true))
	if err != nil {
		return models.MembershipSettings{}, err
	}
	return m, nil
}

// SetEditalURL updates only the edital link, leaving the rest untouched.
func (s *Store) SetEditalURL(ctx context.Context, url string) error {
	_, err := s.membership.UpdateOne(ctx, bson.M{"_id": membershipID},
		bson.M{"$set": bson.M{"edital_url": url, "updated_at": models.Now()}},
		options.Update().SetUpsert(true))
	return err
}

// GetApp returns the site presentation settings (empty when unset).
func (s *Store) GetApp(ctx context.Context) (models.AppSettings, error) {
	var a models.AppSettings
	err := s.app.FindOne(ctx, bson.M{"_id": appID}).Decode(&a)
	if err == mongo.ErrNoDocuments {
		return models.AppSettings{}, nil
	}
	return a, err
}

// SetLogo stores the logo URL.
func (s *Store) SetLogo(ctx context.Context, url string) (models.AppSettings, error) {
	a := models.AppSettings{LogoURL: url, UpdatedAt: models.Now()}
	_, err := s.app.UpdateOne(ctx, bson.M{"_id": appID},
		bson.M{"$set": bson.M{"logo_url": a.LogoURL, "updated_at": a.UpdatedAt}},
		options.Update().SetUpsert(true))
	if err != nil {
		return models.AppSettings{}, err
	}
	return a, nil
}
