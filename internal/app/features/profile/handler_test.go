package profile_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/dalemusser/leaguehub/internal/app/features/profile"
	"github.com/dalemusser/leaguehub/internal/app/system/respond"
	"github.com/dalemusser/leaguehub/internal/domain/models"
	"github.com/dalemusser/leaguehub/internal/testutil"
	"go.uber.org/zap"
)

func TestServeProfile_UsesDerivedRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	// Stored role is stale: the person was removed from the roster.
	u := fx.CreateProfile(ctx, "Ana", "ana@uni.br", models.RoleMember)
	user := testutil.VisitorUser()
	user.ID = u.ID.Hex()
	user.Email = u.Email

	h := profile.NewHandler(db, testutil.LocalBlobs(t), zap.NewNop())
	rec := testutil.NewRecorder()
	h.ServeProfile(rec, testutil.NewAuthenticatedRequest(t, http.MethodGet, "/profile", nil, user))
	rec.AssertStatus(t, http.StatusOK)

	var got models.User
	rec.DecodeJSON(t, &got)
	if got.Role != models.RoleVisitor {
		t.Errorf("role = %q, want visitor", got.Role)
	}
}

func TestHandleUpdate_WithPhoto(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	u := fx.CreateProfile(ctx, "Ana", "ana@uni.br", models.RoleMember)
	user := testutil.MemberUser()
	user.ID = u.ID.Hex()

	h := profile.NewHandler(db, testutil.LocalBlobs(t), zap.NewNop())
	req := testutil.NewMultipartRequest(t, http.MethodPost, "/profile",
		map[string]string{"full_name": "  Ana   Souza ", "registration_id": "2023001"},
		testutil.FilePart{Field: "photo", Name: "eu.jpg", ContentType: "image/jpeg", Body: "JPEG"},
	)
	rec := testutil.NewRecorder()
	h.HandleUpdate(rec, testutil.WithUser(req, user))
	rec.AssertStatus(t, http.StatusOK)

	var out struct {
		Notice string      `json:"notice"`
		Data   models.User `json:"data"`
	}
	rec.DecodeJSON(t, &out)
	if out.Notice != respond.MsgSaved {
		t.Errorf("notice = %q", out.Notice)
	}
	if out.Data.FullName != "Ana Souza" || out.Data.RegistrationID != "2023001" {
		t.Errorf("fields not saved: %+v", out.Data)
	}
	if !strings.HasPrefix(out.Data.PhotoURL, "/files/avatars/") {
		t.Errorf("photo url = %q", out.Data.PhotoURL)
	}
}

func TestHandleUpdate_RequiresName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := profile.NewHandler(db, testutil.LocalBlobs(t), zap.NewNop())
	rec := testutil.NewRecorder()
	h.HandleUpdate(rec, testutil.NewAuthenticatedRequest(t, http.MethodPost, "/profile", map[string]string{"cpf": "1"}, testutil.MemberUser()))
	rec.AssertStatus(t, http.StatusUnprocessableEntity)
	rec.AssertContains(t, "full_name")
}
