package testutil

import (
	"context"
	"net/http"
	"testing"

	"github.com/dalemusser/leaguehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures inserts test documents straight into the collections.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a Fixtures for db.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database.
func (f *Fixtures) DB() *mongo.Database { return f.db }

func (f *Fixtures) insert(ctx context.Context, coll string, doc any) {
	f.t.Helper()
	if _, err := f.db.Collection(coll).InsertOne(ctx, doc); err != nil {
		f.t.Fatalf("insert into %s: %v", coll, err)
	}
}

// CreateProfile inserts a users document.
func (f *Fixtures) CreateProfile(ctx context.Context, fullName, email string, role models.Role) models.User {
	f.t.Helper()
	u := models.User{
		ID:        primitive.NewObjectID(),
		Email:     email,
		FullName:  fullName,
		Role:      role,
		Status:    models.StatusActive,
		CreatedAt: models.Now(),
	}
	f.insert(ctx, "users", u)
	return u
}

// CreateRosterMember inserts a membros row.
func (f *Fixtures) CreateRosterMember(ctx context.Context, fullName, email string) models.Member {
	f.t.Helper()
	m := models.Member{
		ID:        primitive.NewObjectID(),
		FullName:  fullName,
		Email:     email,
		Role:      models.TitleGeneralMember,
		Timestamp: models.Now(),
	}
	f.insert(ctx, "membros", m)
	return m
}

// CreateEvent inserts a cronograma entry.
func (f *Fixtures) CreateEvent(ctx context.Context, title, date string) models.Event {
	f.t.Helper()
	e := models.Event{
		ID:    primitive.NewObjectID(),
		Title: title,
		Date:  date,
		Type:  "meeting",
		Ativo: true,
	}
	f.insert(ctx, "cronograma", e)
	return e
}

// CreateEnrollment inserts a lab candidacy.
func (f *Fixtures) CreateEnrollment(ctx context.Context, fullName, email, activityTitle string) models.Enrollment {
	f.t.Helper()
	e := models.Enrollment{
		ID:             primitive.NewObjectID(),
		ActivityID:     primitive.NewObjectID().Hex(),
		ActivityTitle:  activityTitle,
		FullName:       fullName,
		RegistrationID: "2024001",
		Semester:       "3",
		Email:          email,
		Timestamp:      models.Now(),
	}
	f.insert(ctx, "enrollments", e)
	return e
}

// CreateApplication inserts a general admission candidacy.
func (f *Fixtures) CreateApplication(ctx context.Context, fullName, email string) models.Application {
	f.t.Helper()
	a := models.Application{
		ID:             primitive.NewObjectID(),
		FullName:       fullName,
		Email:          email,
		Semester:       "2",
		RegistrationID: "2024002",
		Timestamp:      models.Now(),
	}
	f.insert(ctx, "inscricoes", a)
	return a
}

// CreateAttendance inserts a presence record.
func (f *Fixtures) CreateAttendance(ctx context.Context, email, eventID string, external bool) models.Attendance {
	f.t.Helper()
	a := models.Attendance{
		ID:          primitive.NewObjectID(),
		EmailAluno:  email,
		IDEvento:    eventID,
		TitleEvento: "Reunião",
		Date:        "2025-05-10",
		Timestamp:   models.Now(),
		IsExternal:  external,
	}
	f.insert(ctx, "presencas", a)
	return a
}

// CreatePost inserts a feed post.
func (f *Fixtures) CreatePost(ctx context.Context, caption string, ts models.Stamp) models.Post {
	f.t.Helper()
	p := models.Post{
		ID:          primitive.NewObjectID(),
		Media:       []models.MediaItem{},
		Caption:     caption,
		Author:      "Admin",
		AuthorID:    primitive.NewObjectID().Hex(),
		Timestamp:   ts,
		Likes:       []string{},
		Comments:    []models.Comment{},
		IsAdminPost: true,
	}
	f.insert(ctx, "posts", p)
	return p
}
