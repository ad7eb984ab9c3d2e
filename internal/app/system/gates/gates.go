// Package gates decides which screen a person may see.
//
// Four views are restricted to admins and members: the schedule, activities,
// attendance and messages. Anyone else asking for one of them lands on home.
// The dashboard additionally requires admin, and the profile requires any
// signed-in person. The decision is re-taken on every navigation, on every
// role change and again right before a restricted view is rendered.
package gates

import (
	"github.com/dalemusser/leaguehub/internal/domain/models"
)

// View names a top-level screen.
type View string

const (
	Home       View = "home"
	Feed       View = "feed"
	Events     View = "events"
	Activities View = "activities"
	Projects   View = "projects"
	Members    View = "members"
	Membership View = "membership"
	Assistant  View = "assistant"
	Messages   View = "messages"
	Attendance View = "attendance"
	Login      View = "login"
	Register   View = "register"
	Profile    View = "profile"
	Dashboard  View = "dashboard"
	Portal     View = "portal"
)

var known = map[View]bool{
	Home: true, Feed: true, Events: true, Activities: true, Projects: true,
	Members: true, Membership: true, Assistant: true, Messages: true,
	Attendance: true, Login: true, Register: true, Profile: true,
	Dashboard: true, Portal: true,
}

var restricted = map[View]bool{
	Events:     true,
	Activities: true,
	Attendance: true,
	Messages:   true,
}

// Known reports whether v is a view the app has.
func Known(v View) bool { return known[v] }

// Restricted reports whether v needs an admin or member.
func Restricted(v View) bool { return restricted[v] }

// Allowed reports whether someone with role (signedIn tells whether there
// is a session at all) may see v.
func Allowed(v View, role models.Role, signedIn bool) bool {
	switch {
	case !known[v]:
		return false
	case restricted[v]:
		return signedIn && role.Privileged()
	case v == Dashboard:
		return signedIn && role == models.RoleAdmin
	case v == Profile, v == Portal:
		return signedIn
	}
	return true
}

// Resolve returns v when allowed and Home otherwise.
func Resolve(v View, role models.Role, signedIn bool) View {
	if Allowed(v, role, signedIn) {
		return v
	}
	return Home
}
