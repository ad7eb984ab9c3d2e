package bootstrap

import (
	"testing"

	userstore "github.com/dalemusser/leaguehub/internal/app/store/users"
	"github.com/dalemusser/leaguehub/internal/domain/models"
	"github.com/dalemusser/leaguehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func validConfig() AppConfig {
	return AppConfig{
		MongoURI:         "mongodb://localhost:27017",
		AdminEmail:       "admin@uni.br",
		StorageType:      "local",
		StorageLocalPath: "./uploads",
	}
}

func TestEnsureAdmin_PromotesExisting(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := testutil.NewFixtures(t, db).CreateProfile(ctx, "Coordenação", "admin@uni.br", models.RoleVisitor)
	if _, err := db.Collection("users").UpdateOne(ctx, bson.M{"_id": u.ID}, bson.M{"$set": bson.M{"status": models.StatusInactive}}); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	deps := DBDeps{MongoDatabase: db}
	if err := ensureAdmin(ctx, deps, "ADMIN@uni.br", testLogger()); err != nil {
		t.Fatalf("ensureAdmin failed: %v", err)
	}

	got, err := userstore.New(db).GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Role != models.RoleAdmin {
		t.Errorf("expected role admin, got %q", got.Role)
	}
	if got.Status != models.StatusActive {
		t.Errorf("expected status %q, got %q", models.StatusActive, got.Status)
	}
}

func TestEnsureAdmin_NoProfileIsFine(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := ensureAdmin(ctx, DBDeps{MongoDatabase: db}, "ghost@uni.br", testLogger()); err != nil {
		t.Fatalf("ensureAdmin failed: %v", err)
	}
	n, err := db.Collection("users").CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("no profile should be created, found %d", n)
	}
}

func TestEnsureAdmin_LeavesOthersAlone(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	m := testutil.NewFixtures(t, db).CreateProfile(ctx, "Ana", "ana@uni.br", models.RoleMember)
	if err := ensureAdmin(ctx, DBDeps{MongoDatabase: db}, "admin@uni.br", testLogger()); err != nil {
		t.Fatalf("ensureAdmin failed: %v", err)
	}
	got, _ := userstore.New(db).GetByID(ctx, m.ID)
	if got.Role != models.RoleMember {
		t.Errorf("member role changed to %q", got.Role)
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*AppConfig)
		wantErr bool
	}{
		{"valid local", func(*AppConfig) {}, false},
		{"empty mongo uri", func(c *AppConfig) { c.MongoURI = "" }, true},
		{"bad admin email", func(c *AppConfig) { c.AdminEmail = "not-an-email" }, true},
		{"s3 without bucket", func(c *AppConfig) { c.StorageType = "s3"; c.StorageS3Region = "us-east-1" }, true},
		{"s3 complete", func(c *AppConfig) {
			c.StorageType = "s3"
			c.StorageS3Region = "us-east-1"
			c.StorageS3Bucket = "league"
		}, false},
		{"unknown storage", func(c *AppConfig) { c.StorageType = "ftp" }, true},
		{"google id without secret", func(c *AppConfig) { c.GoogleClientID = "id" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := ValidateConfig(nil, cfg, testLogger())
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseSignatories(t *testing.T) {
	got := parseSignatories("Ana Souza|Presidente; |sem nome;Bruno Lima")
	if len(got) != 2 {
		t.Fatalf("expected 2 signatories, got %d: %+v", len(got), got)
	}
	if got[0].Name != "Ana Souza" || got[0].Title != "Presidente" {
		t.Errorf("first = %+v", got[0])
	}
	if got[1].Name != "Bruno Lima" || got[1].Title != "" {
		t.Errorf("second = %+v", got[1])
	}
	if parseSignatories("") != nil {
		t.Error("empty input should yield no signatories")
	}
}

func TestBuildBlobStore_Local(t *testing.T) {
	cfg := validConfig()
	cfg.StorageLocalPath = t.TempDir()
	cfg.StorageLocalURL = "/files"

	blobs, local, err := buildBlobStore(t.Context(), cfg)
	if err != nil {
		t.Fatalf("buildBlobStore: %v", err)
	}
	if local == nil || blobs == nil {
		t.Fatal("local store expected")
	}
	if got := blobs.URL("posts/a.png"); got != "/files/posts/a.png" {
		t.Errorf("URL = %q", got)
	}
}
