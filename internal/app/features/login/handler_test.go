package login_test

import (
	"net/http"
	"testing"

	"github.com/dalemusser/leaguehub/internal/app/features/login"
	"github.com/dalemusser/leaguehub/internal/app/system/authutil"
	"github.com/dalemusser/leaguehub/internal/app/system/indexes"
	"github.com/dalemusser/leaguehub/internal/app/system/ratelimit"
	"github.com/dalemusser/leaguehub/internal/app/system/respond"
	"github.com/dalemusser/leaguehub/internal/app/system/roles"
	"github.com/dalemusser/leaguehub/internal/app/system/signin"
	"github.com/dalemusser/leaguehub/internal/domain/models"
	"github.com/dalemusser/leaguehub/internal/testutil"
	"go.uber.org/zap"
)

func newHandler(t *testing.T) *login.Handler {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	svc := signin.New(db, roles.New("chefe@liga.br"), testutil.SessionManager(t), zap.NewNop())
	limiter := ratelimit.NewSignInLimiter()
	t.Cleanup(limiter.Stop)
	return login.NewHandler(db, svc, nil, limiter, false, zap.NewNop())
}

func register(t *testing.T, h *login.Handler, name, email, password string) *testutil.ResponseRecorder {
	t.Helper()
	rec := testutil.NewRecorder()
	req := testutil.NewJSONRequest(t, http.MethodPost, "/register", map[string]string{
		"full_name": name, "email": email, "password": password,
	})
	h.HandleRegister(rec, req)
	return rec
}

func TestRegisterThenLogin(t *testing.T) {
	h := newHandler(t)

	rec := register(t, h, "Ana Souza", "Ana@Uni.br", "segredo1")
	rec.AssertStatus(t, http.StatusCreated)
	var created login.SessionView
	rec.DecodeJSON(t, &created)
	if created.Email != "ana@uni.br" || created.Role != models.RoleVisitor {
		t.Errorf("unexpected session view: %+v", created)
	}
	if len(rec.Result().Cookies()) == 0 {
		t.Error("sign-up should set the session cookie")
	}

	rec = testutil.NewRecorder()
	h.HandleLogin(rec, testutil.NewJSONRequest(t, http.MethodPost, "/login", map[string]string{
		"email": "ana@uni.br", "password": "segredo1",
	}))
	rec.AssertStatus(t, http.StatusOK)
	var got login.SessionView
	rec.DecodeJSON(t, &got)
	if got.ID != created.ID {
		t.Errorf("login returned another profile: %s vs %s", got.ID, created.ID)
	}
}

func TestRegister_Errors(t *testing.T) {
	h := newHandler(t)
	register(t, h, "Ana", "ana@uni.br", "segredo1").AssertStatus(t, http.StatusCreated)

	tests := []struct {
		name     string
		email    string
		password string
		code     int
		msg      string
	}{
		{"email in use", "ANA@uni.br", "outrasenha", http.StatusConflict, authutil.MsgEmailInUse},
		{"weak password", "bruno@uni.br", "123", http.StatusUnprocessableEntity, authutil.MsgWeakPassword},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := register(t, h, "Alguém", tc.email, tc.password)
			rec.AssertStatus(t, tc.code)
			var n respond.Notice
			rec.DecodeJSON(t, &n)
			if n.Notice != tc.msg {
				t.Errorf("notice = %q, want %q", n.Notice, tc.msg)
			}
		})
	}
}

func TestLogin_InvalidCredential(t *testing.T) {
	h := newHandler(t)
	register(t, h, "Ana", "ana@uni.br", "segredo1").AssertStatus(t, http.StatusCreated)

	for _, body := range []map[string]string{
		{"email": "ana@uni.br", "password": "errada"},
		{"email": "ninguem@uni.br", "password": "segredo1"},
	} {
		rec := testutil.NewRecorder()
		h.HandleLogin(rec, testutil.NewJSONRequest(t, http.MethodPost, "/login", body))
		rec.AssertStatus(t, http.StatusUnauthorized)
		rec.AssertContains(t, authutil.MsgInvalidCredential)
	}
}

func TestLogin_AdminResolvesImmediately(t *testing.T) {
	h := newHandler(t)
	rec := register(t, h, "", "chefe@liga.br", "segredo1")
	rec.AssertStatus(t, http.StatusCreated)
	var v login.SessionView
	rec.DecodeJSON(t, &v)
	if v.Role != models.RoleAdmin {
		t.Errorf("role = %q, want admin", v.Role)
	}
	if v.Name != models.DefaultAdminName {
		t.Errorf("name = %q, want %q", v.Name, models.DefaultAdminName)
	}
}

func TestLogin_RateLimited(t *testing.T) {
	h := newHandler(t)
	var last *testutil.ResponseRecorder
	for i := 0; i < 6; i++ {
		last = testutil.NewRecorder()
		h.HandleLogin(last, testutil.NewJSONRequest(t, http.MethodPost, "/login", map[string]string{
			"email": "alvo@uni.br", "password": "x",
		}))
	}
	last.AssertStatus(t, http.StatusTooManyRequests)
	last.AssertContains(t, ratelimit.MsgTooManyForAccount)
}

func TestServeLogin_ReportsUser(t *testing.T) {
	h := newHandler(t)
	rec := testutil.NewRecorder()
	h.ServeLogin(rec, testutil.NewAuthenticatedRequest(t, http.MethodGet, "/login", nil, testutil.MemberUser()))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"role":"member"`)
}
