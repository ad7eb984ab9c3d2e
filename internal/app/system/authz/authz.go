// internal/app/system/authz/authz.go
package authz

import (
	"net/http"

	"github.com/dalemusser/leaguehub/internal/app/system/auth"
	"github.com/dalemusser/leaguehub/internal/app/system/normalize"
	"github.com/dalemusser/leaguehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the user's role, name, Mongo ObjectID, and a found flag.
// If no user is present in context or the user ID is malformed, it returns
// visitor, "", NilObjectID, false. ok=true means a valid, signed-in user.
func UserCtx(r *http.Request) (role models.Role, name string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return models.RoleVisitor, "", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		// Malformed user ID in session: fail closed.
		return models.RoleVisitor, "", primitive.NilObjectID, false
	}
	return normalize.Role(string(user.Role)), user.Name, userID, true
}

// IsAdmin reports whether the current request's user is the administrator.
func IsAdmin(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == models.RoleAdmin
}

// IsMember reports whether the current request's user is a rostered member.
func IsMember(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == models.RoleMember
}

// IsPrivileged reports whether the user may see restricted views
// (schedule, activities, attendance, messages).
func IsPrivileged(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role.Privileged()
}

// UserEmail returns the signed-in user's normalized email, or "".
func UserEmail(r *http.Request) string {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return ""
	}
	return normalize.Email(user.Email)
}

// CanSeeEvent reports whether the caller may see ev. Inactive events are
// hidden from everyone except the administrator.
func CanSeeEvent(r *http.Request, ev models.Event) bool {
	return ev.Ativo || IsAdmin(r)
}

// CanMessage reports whether a sender with role may open a conversation
// with other. Members may only write to the administrator; the
// administrator may write to anyone.
func CanMessage(role models.Role, otherIsAdmin bool) bool {
	switch role {
	case models.RoleAdmin:
		return true
	case models.RoleMember:
		return otherIsAdmin
	}
	return false
}
