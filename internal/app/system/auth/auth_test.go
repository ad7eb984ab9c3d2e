package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/leaguehub/internal/app/system/auth"
	"github.com/dalemusser/leaguehub/internal/domain/models"
	"go.uber.org/zap"
)

func newTestSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager(
		"test-session-key-must-be-32-chars-long",
		"test-session",
		"",
		24*time.Hour,
		false,
		zap.NewNop(),
	)
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}
	return sm
}

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if called != nil {
			*called = true
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestNewSessionManager_EmptyKey(t *testing.T) {
	if _, err := auth.NewSessionManager("", "x", "", time.Hour, false, zap.NewNop()); err == nil {
		t.Fatal("expected error for empty session key")
	}
}

func TestRequireSignedIn_NoUser(t *testing.T) {
	sm := newTestSessionManager(t)
	handler := sm.RequireSignedIn(okHandler(nil))

	tests := []struct {
		name     string
		header   string
		value    string
		wantCode int
		wantHdr  string
	}{
		{"html", "Accept", "text/html", http.StatusSeeOther, "Location"},
		{"htmx", "HX-Request", "true", http.StatusUnauthorized, "HX-Redirect"},
		{"api", "Accept", "application/json", http.StatusUnauthorized, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/profile", nil)
			req.Header.Set(tc.header, tc.value)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tc.wantCode {
				t.Errorf("status: got %d, want %d", rec.Code, tc.wantCode)
			}
			if tc.wantHdr != "" && !strings.HasPrefix(rec.Header().Get(tc.wantHdr), "/login") {
				t.Errorf("%s: got %q, want /login prefix", tc.wantHdr, rec.Header().Get(tc.wantHdr))
			}
		})
	}
}

func TestRequireRole_WrongRole(t *testing.T) {
	sm := newTestSessionManager(t)
	handler := sm.RequireRole("admin")(okHandler(nil))

	req := httptest.NewRequest("GET", "/dashboard", nil)
	req.Header.Set("Accept", "text/html")
	req = withTestUser(req, models.RoleMember)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/forbidden" {
		t.Errorf("expected redirect to /forbidden, got %q", loc)
	}

	api := httptest.NewRequest("GET", "/dashboard", nil)
	api = withTestUser(api, models.RoleMember)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, api)
	if rec.Code != http.StatusForbidden {
		t.Errorf("API: expected status %d, got %d", http.StatusForbidden, rec.Code)
	}
}

func TestRequireRole_CaseInsensitive(t *testing.T) {
	sm := newTestSessionManager(t)
	called := false
	handler := sm.RequireRole("ADMIN")(okHandler(&called))

	req := withTestUser(httptest.NewRequest("GET", "/dashboard", nil), models.RoleAdmin)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !called || rec.Code != http.StatusOK {
		t.Errorf("expected admin to pass, got %d", rec.Code)
	}
}

func TestRequirePrivileged(t *testing.T) {
	sm := newTestSessionManager(t)
	handler := sm.RequirePrivileged(okHandler(nil))

	tests := []struct {
		role models.Role
		want int
	}{
		{models.RoleAdmin, http.StatusOK},
		{models.RoleMember, http.StatusOK},
		{models.RoleVisitor, http.StatusForbidden},
	}
	for _, tc := range tests {
		t.Run(string(tc.role), func(t *testing.T) {
			req := withTestUser(httptest.NewRequest("GET", "/events", nil), tc.role)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Errorf("role %q: got %d, want %d", tc.role, rec.Code, tc.want)
			}
		})
	}
}

func TestCurrentUser(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if u, ok := auth.CurrentUser(req); ok || u != nil {
		t.Error("expected no user in a bare request")
	}

	req = withTestUser(req, models.RoleAdmin)
	u, ok := auth.CurrentUser(req)
	if !ok || u == nil {
		t.Fatal("expected user in context")
	}
	if u.Role != models.RoleAdmin {
		t.Errorf("expected role admin, got %q", u.Role)
	}
}

type stubFetcher struct {
	users map[string]*auth.SessionUser
}

func (f stubFetcher) FetchUser(_ context.Context, id string) *auth.SessionUser {
	return f.users[id]
}

func TestSignIn_LoadSessionUser_UsesFetcher(t *testing.T) {
	sm := newTestSessionManager(t)
	sm.SetUserFetcher(stubFetcher{users: map[string]*auth.SessionUser{
		"u1": {ID: "u1", Name: "Ana", Email: "ana@uni.br", Role: models.RoleMember},
	}})

	// Sign in with a stale role; the fetcher's answer must win.
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/login", nil)
	if err := sm.SignIn(rec, req, &auth.SessionUser{ID: "u1", Role: models.RoleVisitor}); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie")
	}

	var got *auth.SessionUser
	handler := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.CurrentUser(r)
	}))
	next := httptest.NewRequest("GET", "/feed", nil)
	for _, c := range cookies {
		next.AddCookie(c)
	}
	handler.ServeHTTP(httptest.NewRecorder(), next)

	if got == nil {
		t.Fatal("expected user loaded from session")
	}
	if got.Role != models.RoleMember {
		t.Errorf("role: got %q, want member", got.Role)
	}
}

func TestLoadSessionUser_FetcherRejects(t *testing.T) {
	sm := newTestSessionManager(t)
	sm.SetUserFetcher(stubFetcher{users: map[string]*auth.SessionUser{}})

	rec := httptest.NewRecorder()
	if err := sm.SignIn(rec, httptest.NewRequest("POST", "/login", nil), &auth.SessionUser{ID: "gone"}); err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	signedIn := true
	handler := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, signedIn = auth.CurrentUser(r)
	}))
	next := httptest.NewRequest("GET", "/", nil)
	for _, c := range rec.Result().Cookies() {
		next.AddCookie(c)
	}
	handler.ServeHTTP(httptest.NewRecorder(), next)

	if signedIn {
		t.Error("a user the fetcher cannot load must be treated as signed out")
	}
}

func TestSignOut_ExpiresCookie(t *testing.T) {
	sm := newTestSessionManager(t)
	rec := httptest.NewRecorder()
	if err := sm.SignOut(rec, httptest.NewRequest("GET", "/logout", nil)); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == "test-session" && c.MaxAge >= 0 {
			t.Errorf("expected expired cookie, got MaxAge %d", c.MaxAge)
		}
	}
}

func withTestUser(r *http.Request, role models.Role) *http.Request {
	return auth.WithTestUser(r, &auth.SessionUser{
		ID:    "507f1f77bcf86cd799439011",
		Name:  "Test User",
		Email: "test@example.com",
		Role:  role,
	})
}
