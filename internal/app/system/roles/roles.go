// Package roles derives a person's access level from their email and the
// official roster. The role stored on a profile is a cache of this result
// and never an input to it.
package roles

import (
	"strings"

	"github.com/dalemusser/leaguehub/internal/app/system/normalize"
	"github.com/dalemusser/leaguehub/internal/domain/models"
)

// DefaultAdminEmail is the designated administrator account.
const DefaultAdminEmail = "lapibfesgo@gmail.com"

// Resolver holds the administrator identity used by Resolve.
type Resolver struct {
	AdminEmail string
}

// New returns a Resolver for adminEmail, falling back to DefaultAdminEmail.
func New(adminEmail string) Resolver {
	if strings.TrimSpace(adminEmail) == "" {
		adminEmail = DefaultAdminEmail
	}
	return Resolver{AdminEmail: normalize.Email(adminEmail)}
}

// IsAdmin reports whether email is the designated administrator.
func (r Resolver) IsAdmin(email string) bool {
	e := normalize.Email(email)
	return e != "" && e == normalize.Email(r.AdminEmail)
}

// Resolve derives the role for email. inRoster says whether the email has
// a roster row. stale is true when stored differs from the derived role, so
// the caller should rewrite the profile.
func (r Resolver) Resolve(email string, inRoster bool, stored models.Role) (role models.Role, stale bool) {
	switch {
	case r.IsAdmin(email):
		role = models.RoleAdmin
	case inRoster:
		role = models.RoleMember
	default:
		role = models.RoleVisitor
	}
	return role, stored != role
}

// InRoster reports whether email matches any roster row, ignoring case.
func InRoster(email string, roster []models.Member) bool {
	e := normalize.Email(email)
	if e == "" {
		return false
	}
	for _, m := range roster {
		if normalize.Email(m.Email) == e {
			return true
		}
	}
	return false
}
