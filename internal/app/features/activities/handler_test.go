package activities_test

import (
	"net/http"
	"testing"

	"github.com/dalemusser/leaguehub/internal/app/features/activities"
	activitystore "github.com/dalemusser/leaguehub/internal/app/store/activities"
	"github.com/dalemusser/leaguehub/internal/domain/models"
	"github.com/dalemusser/leaguehub/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func setup(t *testing.T) (*mongo.Database, *activities.Handler) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return db, activities.NewHandler(db, nil, zap.NewNop())
}

func create(t *testing.T, h *activities.Handler, body map[string]string) models.Activity {
	t.Helper()
	rec := testutil.NewRecorder()
	h.HandleCreate(rec, testutil.NewAuthenticatedRequest(t, http.MethodPost, "/activities", body, testutil.AdminUser()))
	rec.AssertStatus(t, http.StatusCreated)
	var out struct {
		Data models.Activity `json:"data"`
	}
	rec.DecodeJSON(t, &out)
	return out.Data
}

func TestCreate_DefaultsStatus(t *testing.T) {
	_, h := setup(t)
	a := create(t, h, map[string]string{"title": "Bancada de Anatomia", "category": "Teaching"})
	if a.Status != "active" {
		t.Errorf("status = %q, want active", a.Status)
	}
}

func TestCreate_RejectsBadCategory(t *testing.T) {
	_, h := setup(t)
	rec := testutil.NewRecorder()
	h.HandleCreate(rec, testutil.NewAuthenticatedRequest(t, http.MethodPost, "/activities",
		map[string]string{"title": "X", "category": "Sports"}, testutil.AdminUser()))
	rec.AssertStatus(t, http.StatusUnprocessableEntity)
}

func TestEnroll_ThenListForActivity(t *testing.T) {
	_, h := setup(t)
	a := create(t, h, map[string]string{"title": "Monitoria", "category": "Teaching"})
	body := map[string]string{
		"full_name":       "Diego Lima",
		"registration_id": "2022001",
		"semester":        "5",
		"email":           "Diego@Uni.br",
	}

	req := testutil.NewJSONRequest(t, http.MethodPost, "/activities/"+a.ID.Hex()+"/enroll", body)
	rec := testutil.NewRecorder()
	h.HandleEnroll(rec, testutil.WithChiURLParam(req, "id", a.ID.Hex()))
	rec.AssertStatus(t, http.StatusCreated)

	body["email"] = "diego@uni.br"
	req = testutil.NewJSONRequest(t, http.MethodPost, "/activities/"+a.ID.Hex()+"/enroll", body)
	rec = testutil.NewRecorder()
	h.HandleEnroll(rec, testutil.WithChiURLParam(req, "id", a.ID.Hex()))
	rec.AssertStatus(t, http.StatusConflict)

	req = testutil.NewAuthenticatedRequest(t, http.MethodGet, "/", nil, testutil.AdminUser())
	rec = testutil.NewRecorder()
	h.ServeEnrollments(rec, testutil.WithChiURLParam(req, "id", a.ID.Hex()))
	var rows []models.Enrollment
	rec.DecodeJSON(t, &rows)
	if len(rows) != 1 || rows[0].ActivityTitle != "Monitoria" || rows[0].Email != "diego@uni.br" {
		t.Errorf("unexpected enrollments %+v", rows)
	}
}

func TestEnroll_MissingActivity(t *testing.T) {
	_, h := setup(t)
	id := "0123456789abcdef01234567"
	req := testutil.NewJSONRequest(t, http.MethodPost, "/activities/"+id+"/enroll", map[string]string{})
	rec := testutil.NewRecorder()
	h.HandleEnroll(rec, testutil.WithChiURLParam(req, "id", id))
	rec.AssertStatus(t, http.StatusNotFound)
}

func TestUpdateDelete(t *testing.T) {
	db, h := setup(t)
	a := create(t, h, map[string]string{"title": "Liga na Escola", "category": "Extension"})
	admin := testutil.AdminUser()

	req := testutil.NewAuthenticatedRequest(t, http.MethodPut, "/activities/"+a.ID.Hex(),
		map[string]string{"title": "Liga na Escola", "category": "Extension", "status": "on-hold"}, admin)
	rec := testutil.NewRecorder()
	h.HandleUpdate(rec, testutil.WithChiURLParam(req, "id", a.ID.Hex()))
	rec.AssertStatus(t, http.StatusOK)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	got, err := activitystore.New(db).GetByID(ctx, a.ID)
	if err != nil || got.Status != "on-hold" {
		t.Fatalf("GetByID = %+v, %v", got, err)
	}

	req = testutil.NewAuthenticatedRequest(t, http.MethodDelete, "/activities/"+a.ID.Hex(), nil, admin)
	rec = testutil.NewRecorder()
	h.HandleDelete(rec, testutil.WithChiURLParam(req, "id", a.ID.Hex()))
	rec.AssertStatus(t, http.StatusOK)
}

func TestRoutes_ActivitiesNeedMemberOrAdmin(t *testing.T) {
	_, h := setup(t)
	a := create(t, h, map[string]string{"title": "Monitoria", "category": "Teaching"})
	router := activities.Routes(h, testutil.SessionManager(t))
	enrollBody := map[string]string{
		"full_name":       "Diego Lima",
		"registration_id": "2022001",
		"semester":        "5",
		"email":           "diego@uni.br",
	}

	cases := []struct {
		method, target string
		body           any
	}{
		{http.MethodGet, "/", nil},
		{http.MethodGet, "/" + a.ID.Hex(), nil},
		{http.MethodPost, "/" + a.ID.Hex() + "/enroll", enrollBody},
	}
	for _, c := range cases {
		var req *http.Request
		if c.body == nil {
			req = testutil.NewRequest(c.method, c.target, nil)
		} else {
			req = testutil.NewJSONRequest(t, c.method, c.target, c.body)
		}
		rec := testutil.NewRecorder()
		router.ServeHTTP(rec, req)
		rec.AssertStatus(t, http.StatusUnauthorized)

		rec = testutil.NewRecorder()
		router.ServeHTTP(rec, testutil.NewAuthenticatedRequest(t, c.method, c.target, c.body, testutil.VisitorUser()))
		rec.AssertStatus(t, http.StatusForbidden)
	}

	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewAuthenticatedRequest(t, http.MethodGet, "/", nil, testutil.MemberUser()))
	rec.AssertStatus(t, http.StatusOK)
}
