package dashboard_test

import (
	"net/http"
	"testing"

	"github.com/dalemusser/leaguehub/internal/app/features/dashboard"
	memberstore "github.com/dalemusser/leaguehub/internal/app/store/members"
	"github.com/dalemusser/leaguehub/internal/app/system/frequency"
	"github.com/dalemusser/leaguehub/internal/domain/models"
	"github.com/dalemusser/leaguehub/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func setup(t *testing.T) (*mongo.Database, *dashboard.Handler) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return db, dashboard.NewHandler(db, nil, zap.NewNop())
}

func decide(t *testing.T, h *dashboard.Handler, fn http.HandlerFunc, source, id string) *testutil.ResponseRecorder {
	t.Helper()
	req := testutil.NewAuthenticatedRequest(t, http.MethodPost, "/dashboard/candidates", nil, testutil.AdminUser())
	req = testutil.WithChiURLParam(req, "source", source)
	req = testutil.WithChiURLParam(req, "id", id)
	rec := testutil.NewRecorder()
	fn(rec, req)
	return rec
}

func TestAdminDashboard_ListsBothSources(t *testing.T) {
	db, h := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)
	fx.CreateEnrollment(ctx, "Ana", "ana@uni.br", "Bancada")
	fx.CreateApplication(ctx, "Bruno", "bruno@uni.br")
	fx.CreateRosterMember(ctx, "Carla", "carla@uni.br")

	rec := testutil.NewRecorder()
	h.ServeDashboard(rec, testutil.NewAuthenticatedRequest(t, http.MethodGet, "/dashboard", nil, testutil.AdminUser()))
	rec.AssertStatus(t, http.StatusOK)
	var got struct {
		Counts     dashboard.Counts       `json:"counts"`
		Candidates []models.CandidateView `json:"candidates"`
	}
	rec.DecodeJSON(t, &got)
	if len(got.Candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(got.Candidates))
	}
	if got.Counts.Members != 1 || got.Counts.Enrollments != 1 || got.Counts.Applications != 1 {
		t.Errorf("unexpected counts %+v", got.Counts)
	}
}

func TestApprove_AddsRosterRowOnce(t *testing.T) {
	db, h := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	enr := testutil.NewFixtures(t, db).CreateEnrollment(ctx, "Ana", "ana@uni.br", "Bancada")

	rec := decide(t, h, h.HandleApprove, "lab", enr.ID.Hex())
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, dashboard.MsgApproved)

	rec = decide(t, h, h.HandleApprove, "lab", enr.ID.Hex())
	rec.AssertStatus(t, http.StatusNotFound)
	rec.AssertContains(t, dashboard.MsgCandidateNotFound)

	rows, err := memberstore.New(db).ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(rows) != 1 || rows[0].Role != models.TitleLabMember {
		t.Errorf("unexpected roster %+v", rows)
	}
}

func TestWaitlistAndReject(t *testing.T) {
	db, h := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	app := testutil.NewFixtures(t, db).CreateApplication(ctx, "Bruno", "bruno@uni.br")

	decide(t, h, h.HandleWaitlist, "general", app.ID.Hex()).AssertStatus(t, http.StatusOK)

	rec := testutil.NewRecorder()
	h.ServeCandidates(rec, testutil.NewAuthenticatedRequest(t, http.MethodGet, "/", nil, testutil.AdminUser()))
	var views []models.CandidateView
	rec.DecodeJSON(t, &views)
	if len(views) != 1 || views[0].Status != models.CandidateWaitlisted {
		t.Fatalf("expected waitlisted candidate, got %+v", views)
	}

	decide(t, h, h.HandleReject, "general", app.ID.Hex()).AssertStatus(t, http.StatusOK)
	decide(t, h, h.HandleReject, "general", app.ID.Hex()).AssertStatus(t, http.StatusNotFound)

	if n, _ := memberstore.New(db).Collection().CountDocuments(ctx, map[string]any{}); n != 0 {
		t.Errorf("reject must not create roster rows, got %d", n)
	}
}

func TestDecide_UnknownSource(t *testing.T) {
	_, h := setup(t)
	decide(t, h, h.HandleApprove, "alien", "0123456789abcdef01234567").AssertStatus(t, http.StatusNotFound)
}

func TestMemberDashboard_ShowsOwnAttendance(t *testing.T) {
	db, h := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)
	ev1 := fx.CreateEvent(ctx, "Reunião 1", "01/03/2025")
	fx.CreateEvent(ctx, "Reunião 2", "08/03/2025")
	member := testutil.MemberUser()
	fx.CreateAttendance(ctx, member.Email, ev1.ID.Hex(), false)
	fx.CreateAttendance(ctx, "other@uni.br", ev1.ID.Hex(), false)

	rec := testutil.NewRecorder()
	h.ServeDashboard(rec, testutil.NewAuthenticatedRequest(t, http.MethodGet, "/dashboard", nil, member))
	rec.AssertStatus(t, http.StatusOK)
	var s frequency.Summary
	rec.DecodeJSON(t, &s)
	if s.OfficialEvents != 2 || s.AppRecorded != 1 || s.Percentage != 50 || !s.BelowThreshold {
		t.Errorf("unexpected summary %+v", s)
	}

	rec = testutil.NewRecorder()
	h.ServeDashboard(rec, testutil.NewAuthenticatedRequest(t, http.MethodGet, "/dashboard", nil, testutil.VisitorUser()))
	rec.AssertStatus(t, http.StatusForbidden)
}
