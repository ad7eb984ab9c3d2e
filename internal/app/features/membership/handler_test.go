package membership_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/dalemusser/leaguehub/internal/app/features/membership"
	settingsstore "github.com/dalemusser/leaguehub/internal/app/store/settings"
	"github.com/dalemusser/leaguehub/internal/domain/models"
	"github.com/dalemusser/leaguehub/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func setup(t *testing.T) (*mongo.Database, *membership.Handler) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return db, membership.NewHandler(db, testutil.LocalBlobs(t), nil, zap.NewNop())
}

func save(t *testing.T, h *membership.Handler, body map[string]any) {
	t.Helper()
	rec := testutil.NewRecorder()
	h.HandleSave(rec, testutil.NewAuthenticatedRequest(t, http.MethodPut, "/membership", body, testutil.AdminUser()))
	rec.AssertStatus(t, http.StatusCreated)
}

func TestServeSettings_DefaultsBeforeSave(t *testing.T) {
	_, h := setup(t)
	rec := testutil.NewRecorder()
	h.ServeSettings(rec, testutil.NewRequest(http.MethodGet, "/membership", nil))
	rec.AssertStatus(t, http.StatusOK)
	var m models.MembershipSettings
	rec.DecodeJSON(t, &m)
	if m.SelectionStatus != models.SelectionClosed || m.Rules == nil {
		t.Errorf("unexpected defaults %+v", m)
	}
}

func TestSave_SplitsRulesAndKeepsEdital(t *testing.T) {
	db, h := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := settingsstore.New(db).SetEditalURL(ctx, "https://x/edital.pdf"); err != nil {
		t.Fatalf("SetEditalURL: %v", err)
	}

	save(t, h, map[string]any{
		"selection_status": "open",
		"rules_text":       "Ter matrícula ativa\n\n  Cursar a partir do 2º semestre  \n",
	})

	m, err := settingsstore.New(db).GetMembership(ctx)
	if err != nil {
		t.Fatalf("GetMembership: %v", err)
	}
	if len(m.Rules) != 2 || m.Rules[1] != "Cursar a partir do 2º semestre" {
		t.Errorf("rules = %q", m.Rules)
	}
	if m.EditalURL != "https://x/edital.pdf" {
		t.Errorf("edital lost: %q", m.EditalURL)
	}
}

func TestApply(t *testing.T) {
	_, h := setup(t)
	body := map[string]string{
		"full_name":       "Elisa Prado",
		"email":           "elisa@uni.br",
		"semester":        "2",
		"registration_id": "2024777",
	}
	apply := func() *testutil.ResponseRecorder {
		rec := testutil.NewRecorder()
		h.HandleApply(rec, testutil.NewJSONRequest(t, http.MethodPost, "/membership/apply", body))
		return rec
	}

	rec := apply()
	rec.AssertStatus(t, http.StatusConflict)
	rec.AssertContains(t, membership.MsgSelectionClosed)

	save(t, h, map[string]any{"selection_status": "open"})
	apply().AssertStatus(t, http.StatusCreated)

	rec = apply()
	rec.AssertStatus(t, http.StatusConflict)
	rec.AssertContains(t, membership.MsgAlreadyApplied)
}

func TestEditalAndLogoUploads(t *testing.T) {
	db, h := setup(t)
	admin := testutil.AdminUser()

	req := testutil.NewMultipartRequest(t, http.MethodPost, "/membership/edital", nil,
		testutil.FilePart{Field: "file", Name: "edital 2025.pdf", ContentType: "application/pdf", Body: "%PDF-1.4"})
	rec := testutil.NewRecorder()
	h.HandleEdital(rec, testutil.WithUser(req, admin))
	rec.AssertStatus(t, http.StatusOK)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	m, _ := settingsstore.New(db).GetMembership(ctx)
	if !strings.HasPrefix(m.EditalURL, "/files/settings/") || !strings.HasSuffix(m.EditalURL, "edital_2025.pdf") {
		t.Errorf("edital url = %q", m.EditalURL)
	}

	req = testutil.NewMultipartRequest(t, http.MethodPost, "/settings/logo", nil,
		testutil.FilePart{Field: "file", Name: "logo.png", ContentType: "image/png", Body: "png"})
	rec = testutil.NewRecorder()
	h.HandleLogo(rec, testutil.WithUser(req, admin))
	rec.AssertStatus(t, http.StatusOK)

	rec = testutil.NewRecorder()
	h.HandleLogo(rec, testutil.NewAuthenticatedRequest(t, http.MethodPost, "/settings/logo", map[string]string{}, admin))
	rec.AssertStatus(t, http.StatusBadRequest)
}
