// Package normalize canonicalizes user-entered text before it is stored or compared.
package normalize

import (
	"strings"

	"github.com/dalemusser/leaguehub/internal/domain/models"
)

// Email lowercases and trims an email address. Roster membership and
// attendance are keyed by this form.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims a display name and collapses inner runs of whitespace.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Role lowercases a role string. Unknown values come back as visitor.
func Role(s string) models.Role {
	r := models.Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return models.RoleVisitor
	}
	return r
}

// Status maps a profile status onto ativo/inativo. Blank stays blank.
func Status(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return ""
	case models.StatusInactive, "inactive", "disabled":
		return models.StatusInactive
	default:
		return models.StatusActive
	}
}

// Lines splits multi-line text into trimmed, non-empty lines.
// Used for the membership rules textarea.
func Lines(s string) []string {
	out := []string{}
	for _, line := range strings.Split(s, "\n") {
		if l := strings.TrimSpace(line); l != "" {
			out = append(out, l)
		}
	}
	return out
}
