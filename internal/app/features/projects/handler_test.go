package projects_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/dalemusser/leaguehub/internal/app/features/projects"
	projectstore "github.com/dalemusser/leaguehub/internal/app/store/projects"
	"github.com/dalemusser/leaguehub/internal/testutil"
	"go.uber.org/zap"
)

func TestProjectLifecycle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := projects.NewHandler(db, testutil.LocalBlobs(t), nil, zap.NewNop())
	admin := testutil.AdminUser()

	req := testutil.NewMultipartRequest(t, http.MethodPost, "/projects",
		map[string]string{"title": "Biomarcadores", "advisor": "Profa. Lúcia", "status": "active"},
		testutil.FilePart{Field: "image", Name: "capa.jpg", ContentType: "image/jpeg", Body: "jpg"})
	rec := testutil.NewRecorder()
	h.HandleCreate(rec, testutil.WithUser(req, admin))
	rec.AssertStatus(t, http.StatusCreated)

	rec = testutil.NewRecorder()
	h.ServeList(rec, testutil.NewRequest(http.MethodGet, "/projects", nil))
	rec.AssertStatus(t, http.StatusOK)
	var list []struct {
		ID          string `json:"id"`
		ImageURL    string `json:"image_url"`
		StatusLabel string `json:"status_label"`
	}
	rec.DecodeJSON(t, &list)
	if len(list) != 1 || list[0].StatusLabel != "Em Andamento" {
		t.Fatalf("unexpected list %+v", list)
	}
	if !strings.HasPrefix(list[0].ImageURL, "/files/projects/") {
		t.Fatalf("image not stored: %q", list[0].ImageURL)
	}

	id := list[0].ID
	req = testutil.NewAuthenticatedRequest(t, http.MethodPut, "/projects/"+id,
		map[string]string{"title": "Biomarcadores", "advisor": "Profa. Lúcia", "status": "completed"}, admin)
	rec = testutil.NewRecorder()
	h.HandleUpdate(rec, testutil.WithChiURLParam(req, "id", id))
	rec.AssertStatus(t, http.StatusOK)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	all, err := projectstore.New(db).ListAll(ctx)
	if err != nil || len(all) != 1 {
		t.Fatalf("ListAll: %v", err)
	}
	if all[0].ImageURL != list[0].ImageURL || all[0].StatusLabel() != "Concluído" {
		t.Errorf("update lost image or status: %+v", all[0])
	}

	req = testutil.NewAuthenticatedRequest(t, http.MethodDelete, "/projects/"+id, nil, admin)
	rec = testutil.NewRecorder()
	h.HandleDelete(rec, testutil.WithChiURLParam(req, "id", id))
	rec.AssertStatus(t, http.StatusOK)
}

func TestUpdate_MissingProject(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := projects.NewHandler(db, testutil.LocalBlobs(t), nil, zap.NewNop())
	id := "0123456789abcdef01234567"
	req := testutil.NewAuthenticatedRequest(t, http.MethodPut, "/projects/"+id,
		map[string]string{"title": "X"}, testutil.AdminUser())
	rec := testutil.NewRecorder()
	h.HandleUpdate(rec, testutil.WithChiURLParam(req, "id", id))
	rec.AssertStatus(t, http.StatusNotFound)
}
