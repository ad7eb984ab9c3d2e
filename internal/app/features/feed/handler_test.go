package feed_test

import (
	"net/http"
	"testing"

	"github.com/dalemusser/leaguehub/internal/app/features/feed"
	poststore "github.com/dalemusser/leaguehub/internal/app/store/posts"
	"github.com/dalemusser/leaguehub/internal/domain/models"
	"github.com/dalemusser/leaguehub/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func setup(t *testing.T) (*mongo.Database, *feed.Handler) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return db, feed.NewHandler(db, testutil.LocalBlobs(t), nil, zap.NewNop())
}

func TestCreate_ClassifiesMedia(t *testing.T) {
	db, h := setup(t)
	req := testutil.NewMultipartRequest(t, http.MethodPost, "/feed",
		map[string]string{"caption": "<b>Simpósio</b> amanhã!"},
		testutil.FilePart{Field: "media", Name: "a.jpg", ContentType: "image/jpeg", Body: "jpg"},
		testutil.FilePart{Field: "media", Name: "b.mp4", ContentType: "video/mp4", Body: "mp4"})
	rec := testutil.NewRecorder()
	h.HandleCreate(rec, testutil.WithUser(req, testutil.AdminUser()))
	rec.AssertStatus(t, http.StatusCreated)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	posts, err := poststore.New(db).ListAll(ctx)
	if err != nil || len(posts) != 1 {
		t.Fatalf("ListAll: %v (%d)", err, len(posts))
	}
	p := posts[0]
	if p.Caption != "Simpósio amanhã!" {
		t.Errorf("caption not sanitized: %q", p.Caption)
	}
	if len(p.Media) != 2 || p.Media[0].Type != "image" || p.Media[1].Type != "video" {
		t.Errorf("unexpected media %+v", p.Media)
	}
}

func TestCreate_RejectsEmpty(t *testing.T) {
	_, h := setup(t)
	rec := testutil.NewRecorder()
	h.HandleCreate(rec, testutil.NewAuthenticatedRequest(t, http.MethodPost, "/feed",
		map[string]string{"caption": "  "}, testutil.AdminUser()))
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestLike_Toggles(t *testing.T) {
	db, h := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	p := testutil.NewFixtures(t, db).CreatePost(ctx, "Oi", models.Now())
	member := testutil.MemberUser()

	for _, want := range []bool{true, false, true} {
		req := testutil.NewAuthenticatedRequest(t, http.MethodPost, "/feed/"+p.ID.Hex()+"/like", nil, member)
		rec := testutil.NewRecorder()
		h.HandleLike(rec, testutil.WithChiURLParam(req, "id", p.ID.Hex()))
		rec.AssertStatus(t, http.StatusOK)
		var out map[string]bool
		rec.DecodeJSON(t, &out)
		if out["liked"] != want {
			t.Fatalf("liked = %v, want %v", out["liked"], want)
		}
	}

	got, _ := poststore.New(db).GetByID(ctx, p.ID)
	if len(got.Likes) != 1 || got.Likes[0] != member.ID {
		t.Errorf("likes = %v", got.Likes)
	}
}

func TestComment_LabelsRole(t *testing.T) {
	db, h := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	p := testutil.NewFixtures(t, db).CreatePost(ctx, "Oi", models.Now())

	comment := func(user testutil.TestUser, text string) *testutil.ResponseRecorder {
		req := testutil.NewAuthenticatedRequest(t, http.MethodPost, "/feed/"+p.ID.Hex()+"/comments",
			map[string]string{"text": text}, user)
		rec := testutil.NewRecorder()
		h.HandleComment(rec, testutil.WithChiURLParam(req, "id", p.ID.Hex()))
		return rec
	}
	comment(testutil.AdminUser(), "Bem-vindos").AssertStatus(t, http.StatusCreated)
	comment(testutil.VisitorUser(), "Obrigada").AssertStatus(t, http.StatusCreated)
	comment(testutil.VisitorUser(), "<i></i>").AssertStatus(t, http.StatusBadRequest)

	got, _ := poststore.New(db).GetByID(ctx, p.ID)
	if len(got.Comments) != 2 || got.Comments[0].UserRole != "admin" || got.Comments[1].UserRole != "student" {
		t.Errorf("unexpected comments %+v", got.Comments)
	}
}

func TestCaptionAndDelete(t *testing.T) {
	db, h := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	p := testutil.NewFixtures(t, db).CreatePost(ctx, "Oi", models.Now())
	admin := testutil.AdminUser()

	req := testutil.NewAuthenticatedRequest(t, http.MethodPut, "/feed/"+p.ID.Hex(), map[string]string{"caption": "Olá"}, admin)
	rec := testutil.NewRecorder()
	h.HandleCaption(rec, testutil.WithChiURLParam(req, "id", p.ID.Hex()))
	rec.AssertStatus(t, http.StatusOK)

	req = testutil.NewAuthenticatedRequest(t, http.MethodDelete, "/feed/"+p.ID.Hex(), nil, admin)
	rec = testutil.NewRecorder()
	h.HandleDelete(rec, testutil.WithChiURLParam(req, "id", p.ID.Hex()))
	rec.AssertStatus(t, http.StatusOK)

	rec = testutil.NewRecorder()
	h.HandleDelete(rec, testutil.WithChiURLParam(req, "id", p.ID.Hex()))
	rec.AssertStatus(t, http.StatusNotFound)
}
