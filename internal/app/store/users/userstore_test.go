package userstore_test

import (
	"context"
	"errors"
	"testing"

	userstore "github.com/dalemusser/leaguehub/internal/app/store/users"
	"github.com/dalemusser/leaguehub/internal/app/system/roles"
	"github.com/dalemusser/leaguehub/internal/domain/models"
	"github.com/dalemusser/leaguehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestStore_EnsureProfile_CreatesOnce(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	id := primitive.NewObjectID()
	u, created, err := store.EnsureProfile(ctx, userstore.NewProfile{ID: id, Email: "Ana@Uni.br", Role: models.RoleVisitor})
	if err != nil {
		t.Fatalf("EnsureProfile failed: %v", err)
	}
	if !created {
		t.Error("expected created=true on first call")
	}
	if u.FullName != models.DefaultProfileName {
		t.Errorf("FullName: got %q, want default %q", u.FullName, models.DefaultProfileName)
	}
	if u.Email != "ana@uni.br" || u.Role != models.RoleVisitor || u.Status != models.StatusActive {
		t.Errorf("unexpected profile: %+v", u)
	}

	again, created, err := store.EnsureProfile(ctx, userstore.NewProfile{ID: id, Email: "ana@uni.br", FullName: "Outro", Role: models.RoleMember})
	if err != nil {
		t.Fatalf("second EnsureProfile failed: %v", err)
	}
	if created {
		t.Error("expected created=false for an existing profile")
	}
	if again.FullName != models.DefaultProfileName || again.Role != models.RoleVisitor {
		t.Errorf("existing profile must be returned untouched: %+v", again)
	}
}

func TestStore_UpdateProfile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	p := fx.CreateProfile(ctx, "Ana", "ana@uni.br", models.RoleMember)

	got, err := store.UpdateProfile(ctx, p.ID, userstore.ProfileUpdate{FullName: " Ana  Souza ", CPF: "123", RegistrationID: "2024"})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if got.FullName != "Ana Souza" || got.CPF != "123" || got.RegistrationID != "2024" {
		t.Errorf("unexpected profile: %+v", got)
	}
	if got.Role != models.RoleMember {
		t.Errorf("role must not change, got %q", got.Role)
	}

	if _, err := store.UpdateProfile(ctx, primitive.NewObjectID(), userstore.ProfileUpdate{FullName: "x"}); !errors.Is(err, userstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_PromoteByEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	v := fx.CreateProfile(ctx, "Vera", "vera@uni.br", models.RoleVisitor)
	_, _ = db.Collection("users").UpdateOne(ctx, bson.M{"_id": v.ID}, bson.M{"$set": bson.M{"status": models.StatusInactive}})

	n, err := store.PromoteByEmail(ctx, "VERA@uni.br")
	if err != nil {
		t.Fatalf("PromoteByEmail failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 profile promoted, got %d", n)
	}
	got, _ := store.GetByID(ctx, v.ID)
	if got.Role != models.RoleMember || got.Status != models.StatusActive {
		t.Errorf("unexpected profile after promotion: %+v", got)
	}

	n, err = store.PromoteByEmail(ctx, "ghost@uni.br")
	if err != nil || n != 0 {
		t.Errorf("no profile: got (%d, %v)", n, err)
	}
}

func TestFetcher_DerivesRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	f := userstore.NewFetcher(db, roles.New("boss@uni.br"), zap.NewNop())

	// Stored as admin but not the admin email and not in the roster.
	impostor := fx.CreateProfile(ctx, "Ivo", "ivo@uni.br", models.RoleAdmin)
	su := f.FetchUser(ctx, impostor.ID.Hex())
	if su == nil || su.Role != models.RoleVisitor {
		t.Fatalf("expected visitor, got %+v", su)
	}
	stored, _ := userstore.New(db).GetByID(ctx, impostor.ID)
	if stored.Role != models.RoleVisitor {
		t.Errorf("stale role should be rewritten, got %q", stored.Role)
	}

	member := fx.CreateProfile(ctx, "Ana", "ana@uni.br", models.RoleVisitor)
	fx.CreateRosterMember(ctx, "Ana", "ANA@uni.br")
	if su := f.FetchUser(ctx, member.ID.Hex()); su == nil || su.Role != models.RoleMember {
		t.Errorf("expected member, got %+v", su)
	}

	boss := fx.CreateProfile(ctx, "Chefe", "boss@uni.br", models.RoleVisitor)
	if su := f.FetchUser(ctx, boss.ID.Hex()); su == nil || su.Role != models.RoleAdmin {
		t.Errorf("expected admin, got %+v", su)
	}
}

func TestFetcher_Rejects(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := userstore.NewFetcher(db, roles.New(""), zap.NewNop())
	if su := f.FetchUser(context.Background(), "not-an-id"); su != nil {
		t.Error("malformed id must return nil")
	}
	if su := f.FetchUser(ctx, primitive.NewObjectID().Hex()); su != nil {
		t.Error("missing profile must return nil")
	}

	fx := testutil.NewFixtures(t, db)
	p := fx.CreateProfile(ctx, "Ina", "ina@uni.br", models.RoleMember)
	_, _ = db.Collection("users").UpdateOne(ctx, bson.M{"_id": p.ID}, bson.M{"$set": bson.M{"status": models.StatusInactive}})
	if su := f.FetchUser(ctx, p.ID.Hex()); su != nil {
		t.Error("inactive profile must return nil")
	}
}
