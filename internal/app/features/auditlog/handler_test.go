package auditlog_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/leaguehub/internal/app/features/auditlog"
	"github.com/dalemusser/leaguehub/internal/app/store/audit"
	"github.com/dalemusser/leaguehub/internal/domain/models"
	"github.com/dalemusser/leaguehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func seed(t *testing.T) (*auditlog.Handler, models.User) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := testutil.NewFixtures(t, db).CreateProfile(ctx, "Coordenação", "admin@uni.br", models.RoleAdmin)
	store := audit.New(db)
	ghost := primitive.NewObjectID()
	events := []audit.Event{
		{Category: audit.CategoryAuth, EventType: audit.EventLoginSuccess, UserID: &admin.ID, Success: true,
			Timestamp: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)},
		{Category: audit.CategoryAdmin, EventType: audit.EventCandidateApproved, ActorID: &admin.ID, UserID: &ghost,
			Subject: "ana@uni.br", Success: true, Timestamp: time.Date(2025, 3, 2, 12, 0, 0, 0, time.UTC)},
		{Category: audit.CategoryAuth, EventType: audit.EventLoginFailed, Subject: "x@uni.br", FailureReason: "bad password",
			Timestamp: time.Date(2025, 3, 3, 12, 0, 0, 0, time.UTC)},
	}
	for _, e := range events {
		if err := store.Log(ctx, e); err != nil {
			t.Fatalf("log: %v", err)
		}
	}
	return auditlog.NewHandler(db, zap.NewNop()), admin
}

func list(t *testing.T, h *auditlog.Handler, query string) auditlog.Page {
	t.Helper()
	rec := testutil.NewRecorder()
	h.ServeList(rec, testutil.NewAuthenticatedRequest(t, http.MethodGet, "/auditlog"+query, nil, testutil.AdminUser()))
	rec.AssertStatus(t, http.StatusOK)
	var p auditlog.Page
	rec.DecodeJSON(t, &p)
	return p
}

func TestServeList_NewestFirstWithNames(t *testing.T) {
	h, _ := seed(t)
	p := list(t, h, "")
	if p.Total != 3 || len(p.Items) != 3 {
		t.Fatalf("expected 3 events, got total=%d items=%d", p.Total, len(p.Items))
	}
	if p.Items[0].EventType != audit.EventLoginFailed {
		t.Errorf("newest first, got %q", p.Items[0].EventType)
	}
	approved := p.Items[1]
	if approved.ActorName != "Coordenação" {
		t.Errorf("actor name = %q", approved.ActorName)
	}
	if len(approved.TargetName) != 24 {
		t.Errorf("unknown target should fall back to its hex id, got %q", approved.TargetName)
	}
	if p.Zone != auditlog.DefaultZone {
		t.Errorf("zone = %q", p.Zone)
	}
}

func TestServeList_Filters(t *testing.T) {
	h, _ := seed(t)

	if p := list(t, h, "?category=admin"); p.Total != 1 {
		t.Errorf("category filter: total = %d", p.Total)
	}
	if p := list(t, h, "?subject=X@UNI.BR"); p.Total != 1 {
		t.Errorf("subject filter: total = %d", p.Total)
	}
	if p := list(t, h, "?start_date=2025-03-02&end_date=2025-03-02&tz=UTC"); p.Total != 1 || p.Zone != "UTC" {
		t.Errorf("date filter: total = %d zone = %q", p.Total, p.Zone)
	}
}

func TestServeList_LocalTime(t *testing.T) {
	h, _ := seed(t)
	p := list(t, h, "?tz=America/Sao_Paulo")
	// 12:00 UTC is 09:00 in Brasília.
	if got := p.Items[2].LocalTime; got != "01/03/2025 09:00" {
		t.Errorf("local time = %q", got)
	}
}

func TestEventTypes(t *testing.T) {
	if len(auditlog.EventTypes(audit.CategoryAuth))+len(auditlog.EventTypes(audit.CategoryAdmin)) != len(auditlog.EventTypes("")) {
		t.Error("all event types should be the union of both categories")
	}
}

func TestRoutes_MemberForbidden(t *testing.T) {
	h, _ := seed(t)
	router := auditlog.Routes(h, testutil.SessionManager(t))
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAuthenticatedRequest(t, http.MethodGet, "/", nil, testutil.MemberUser()))
	rec.AssertStatus(t, http.StatusForbidden)
}
