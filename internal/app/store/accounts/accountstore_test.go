package accountstore_test

import (
	"errors"
	"testing"

	accountstore "github.com/dalemusser/leaguehub/internal/app/store/accounts"
	"github.com/dalemusser/leaguehub/internal/app/system/indexes"
	"github.com/dalemusser/leaguehub/internal/domain/models"
	"github.com/dalemusser/leaguehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestStore_CreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := accountstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Account{Email: "  Ana@Uni.BR ", PasswordHash: "x", DisplayName: " Ana   Souza "})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID.IsZero() {
		t.Error("expected ID to be assigned")
	}
	if created.Email != "ana@uni.br" {
		t.Errorf("Email: got %q", created.Email)
	}
	if created.DisplayName != "Ana Souza" {
		t.Errorf("DisplayName: got %q", created.DisplayName)
	}
	if created.Provider != models.ProviderPassword || created.CreatedAt == "" {
		t.Errorf("defaults not applied: %+v", created)
	}

	got, err := store.GetByEmail(ctx, "ANA@uni.br")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	if got.ID != created.ID || got.PasswordHash != "x" {
		t.Errorf("unexpected account: %+v", got)
	}

	if _, err := store.GetByEmail(ctx, "nobody@uni.br"); !errors.Is(err, accountstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_Create_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	store := accountstore.New(db)

	if _, err := store.Create(ctx, models.Account{Email: "ana@uni.br"}); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	_, err := store.Create(ctx, models.Account{Email: "ANA@uni.br"})
	if !errors.Is(err, accountstore.ErrDuplicateEmail) {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestStore_LinkGoogle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := accountstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a, _ := store.Create(ctx, models.Account{Email: "ana@uni.br"})
	if err := store.LinkGoogle(ctx, a.ID, "g-123", "https://photo"); err != nil {
		t.Fatalf("LinkGoogle failed: %v", err)
	}
	got, _ := store.GetByID(ctx, a.ID)
	if got.GoogleID != "g-123" || got.PhotoURL != "https://photo" {
		t.Errorf("google link not stored: %+v", got)
	}
	if err := store.LinkGoogle(ctx, primitive.NewObjectID(), "g", ""); !errors.Is(err, accountstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
