package oauthstate_test

import (
	"testing"
	"time"

	"github.com/dalemusser/leaguehub/internal/app/store/oauthstate"
	"github.com/dalemusser/leaguehub/internal/testutil"
)

func TestStore_SaveValidate_OneTimeUse(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := oauthstate.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.Save(ctx, "abc", "/feed", time.Now().Add(10*time.Minute)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	ret, ok, err := store.Validate(ctx, "abc")
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if !ok || ret != "/feed" {
		t.Errorf("first Validate: got (%q, %v), want (/feed, true)", ret, ok)
	}

	_, ok, err = store.Validate(ctx, "abc")
	if err != nil {
		t.Fatalf("second Validate failed: %v", err)
	}
	if ok {
		t.Error("a state token must not validate twice")
	}
}

func TestStore_Validate_Expired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := oauthstate.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.Save(ctx, "old", "", time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, ok, _ := store.Validate(ctx, "old"); ok {
		t.Error("expired token validated")
	}
	if _, ok, _ := store.Validate(ctx, "never-saved"); ok {
		t.Error("unknown token validated")
	}
}

func TestStore_CleanupExpired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := oauthstate.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_ = store.Save(ctx, "old1", "", time.Now().Add(-time.Hour))
	_ = store.Save(ctx, "old2", "", time.Now().Add(-time.Minute))
	_ = store.Save(ctx, "live", "", time.Now().Add(time.Hour))

	n, err := store.CleanupExpired(ctx)
	if err != nil {
		t.Fatalf("CleanupExpired failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 removed, got %d", n)
	}
	if _, ok, _ := store.Validate(ctx, "live"); !ok {
		t.Error("live token should survive cleanup")
	}
}
