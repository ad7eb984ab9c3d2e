package authz_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/leaguehub/internal/app/system/auth"
	"github.com/dalemusser/leaguehub/internal/app/system/authz"
	"github.com/dalemusser/leaguehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func requestAs(role models.Role) *http.Request {
	req := httptest.NewRequest("GET", "/test", nil)
	return auth.WithTestUser(req, &auth.SessionUser{
		ID:    primitive.NewObjectID().Hex(),
		Name:  "Tester",
		Email: " Tester@Uni.BR ",
		Role:  role,
	})
}

func TestUserCtx_NoUser(t *testing.T) {
	role, name, id, ok := authz.UserCtx(httptest.NewRequest("GET", "/", nil))
	if ok || role != models.RoleVisitor || name != "" || id != primitive.NilObjectID {
		t.Errorf("unexpected result: %q %q %v %v", role, name, id, ok)
	}
}

func TestUserCtx_MalformedID(t *testing.T) {
	req := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), &auth.SessionUser{ID: "nope", Role: models.RoleAdmin})
	if _, _, _, ok := authz.UserCtx(req); ok {
		t.Error("malformed id must fail closed")
	}
	if authz.IsAdmin(req) {
		t.Error("malformed id must not be admin")
	}
}

func TestRolePredicates(t *testing.T) {
	tests := []struct {
		role       models.Role
		admin      bool
		member     bool
		privileged bool
	}{
		{models.RoleAdmin, true, false, true},
		{models.RoleMember, false, true, true},
		{models.RoleVisitor, false, false, false},
		{models.Role("superuser"), false, false, false},
	}
	for _, tc := range tests {
		t.Run(string(tc.role), func(t *testing.T) {
			req := requestAs(tc.role)
			if got := authz.IsAdmin(req); got != tc.admin {
				t.Errorf("IsAdmin = %v, want %v", got, tc.admin)
			}
			if got := authz.IsMember(req); got != tc.member {
				t.Errorf("IsMember = %v, want %v", got, tc.member)
			}
			if got := authz.IsPrivileged(req); got != tc.privileged {
				t.Errorf("IsPrivileged = %v, want %v", got, tc.privileged)
			}
		})
	}
}

func TestUserEmail(t *testing.T) {
	if got := authz.UserEmail(requestAs(models.RoleMember)); got != "tester@uni.br" {
		t.Errorf("UserEmail = %q", got)
	}
	if got := authz.UserEmail(httptest.NewRequest("GET", "/", nil)); got != "" {
		t.Errorf("UserEmail without user = %q", got)
	}
}

func TestCanSeeEvent(t *testing.T) {
	hidden := models.Event{Title: "Rascunho", Ativo: false}
	if authz.CanSeeEvent(requestAs(models.RoleMember), hidden) {
		t.Error("members must not see inactive events")
	}
	if !authz.CanSeeEvent(requestAs(models.RoleAdmin), hidden) {
		t.Error("admin sees inactive events")
	}
	if !authz.CanSeeEvent(httptest.NewRequest("GET", "/", nil), models.Event{Ativo: true}) {
		t.Error("active events are public")
	}
}

func TestCanMessage(t *testing.T) {
	if !authz.CanMessage(models.RoleAdmin, false) {
		t.Error("admin may message anyone")
	}
	if !authz.CanMessage(models.RoleMember, true) {
		t.Error("member may message the admin")
	}
	if authz.CanMessage(models.RoleMember, false) {
		t.Error("member may not message another member")
	}
	if authz.CanMessage(models.RoleVisitor, true) {
		t.Error("visitors have no messaging")
	}
}
