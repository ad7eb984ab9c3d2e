package coordinator

import (
	"sort"
	"strings"

	"github.com/dalemusser/leaguehub/internal/app/system/frequency"
	"github.com/dalemusser/leaguehub/internal/app/system/gates"
	"github.com/dalemusser/leaguehub/internal/domain/models"
)

// homePosts is how many recent posts the home view shows.
const homePosts = 3

// Snapshot is what a client renders.
type Snapshot struct {
	Phase   Phase        `json:"phase"`
	Role    models.Role  `json:"role,omitempty"`
	View    gates.View   `json:"view"`
	Profile *models.User `json:"profile,omitempty"`
	Data    any          `json:"data,omitempty"`
}

// HomeData backs the home view.
type HomeData struct {
	Posts    []models.Post    `json:"posts"`
	Projects []models.Project `json:"projects"`
}

// MessagesData backs the messages view.
type MessagesData struct {
	Messages []models.Message `json:"messages"`
	Unread   int              `json:"unread"`
}

// DashboardData backs the admin dashboard.
type DashboardData struct {
	Events      []models.Event      `json:"events"`
	Activities  []models.Activity   `json:"activities"`
	Projects    []models.Project    `json:"projects"`
	Enrollments []models.Enrollment `json:"enrollments"`
	Roster      []models.Member     `json:"roster"`
	Attendance  []models.Attendance `json:"attendance"`
	Counts      map[string]int      `json:"counts"`
}

// Render re-checks the gate for the current view and builds its payload.
// A restricted view is never produced for a role that may not see it.
func (c *Coordinator) Render() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	signedIn := c.phase == Authenticated
	c.view = gates.Resolve(c.view, c.role, signedIn)

	snap := Snapshot{Phase: c.phase, View: c.view}
	if signedIn {
		snap.Role = c.role
		if c.profile != nil {
			p := *c.profile
			snap.Profile = &p
		}
	}

	switch c.view {
	case gates.Home:
		n := homePosts
		if len(c.posts) < n {
			n = len(c.posts)
		}
		snap.Data = HomeData{Posts: c.posts[:n], Projects: c.projects}
	case gates.Feed:
		snap.Data = c.posts
	case gates.Events:
		snap.Data = ActiveEvents(c.events)
	case gates.Activities:
		snap.Data = c.activities
	case gates.Projects:
		snap.Data = c.projects
	case gates.Members:
		snap.Data = SortMembers(c.roster)
	case gates.Attendance:
		email := ""
		if c.account != nil {
			email = c.account.Email
		}
		snap.Data = frequency.Compute(c.attendance, len(c.events), email)
	case gates.Messages:
		snap.Data = c.messagesData()
	case gates.Dashboard:
		snap.Data = DashboardData{
			Events:      SortEvents(c.events),
			Activities:  c.activities,
			Projects:    c.projects,
			Enrollments: c.enrollments,
			Roster:      SortMembers(c.roster),
			Attendance:  c.attendance,
			Counts: map[string]int{
				"events":      len(c.events),
				"activities":  len(c.activities),
				"projects":    len(c.projects),
				"posts":       len(c.posts),
				"enrollments": len(c.enrollments),
				"members":     len(c.roster),
			},
		}
	}
	return snap
}

func (c *Coordinator) messagesData() MessagesData {
	me := ""
	if c.account != nil {
		me = c.account.ID.Hex()
	}
	d := MessagesData{Messages: c.messages}
	if d.Messages == nil {
		d.Messages = []models.Message{}
	}
	for _, m := range c.messages {
		if m.ReceiverID == me && !m.Read {
			d.Unread++
		}
	}
	return d
}

// ActiveEvents returns the published events ordered by date and time.
func ActiveEvents(all []models.Event) []models.Event {
	out := make([]models.Event, 0, len(all))
	for _, e := range all {
		if e.Ativo {
			out = append(out, e)
		}
	}
	return SortEvents(out)
}

// SortEvents returns a copy ordered by date then time.
func SortEvents(in []models.Event) []models.Event {
	out := append([]models.Event(nil), in...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Time < out[j].Time
	})
	if out == nil {
		out = []models.Event{}
	}
	return out
}

// SortMembers returns a copy ordered by name, ignoring case.
func SortMembers(in []models.Member) []models.Member {
	out := append([]models.Member(nil), in...)
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].FullName) < strings.ToLower(out[j].FullName)
	})
	if out == nil {
		out = []models.Member{}
	}
	return out
}
