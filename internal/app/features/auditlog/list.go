// internal/app/features/auditlog/list.go
package auditlog

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/leaguehub/internal/app/store/audit"
	"github.com/dalemusser/leaguehub/internal/app/system/paging"
	"github.com/dalemusser/leaguehub/internal/app/system/respond"
	"github.com/dalemusser/leaguehub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const pageSize = paging.PageSize

// DefaultZone is used when no valid ?tz= is given.
const DefaultZone = "America/Sao_Paulo"

// Item is one audit event as listed.
type Item struct {
	ID         string            `json:"id"`
	Timestamp  time.Time         `json:"timestamp"`
	LocalTime  string            `json:"local_time"`
	Category   string            `json:"category"`
	EventType  string            `json:"event_type"`
	ActorName  string            `json:"actor_name,omitempty"`
	TargetName string            `json:"target_name,omitempty"`
	Subject    string            `json:"subject,omitempty"`
	IP         string            `json:"ip"`
	Success    bool              `json:"success"`
	Reason     string            `json:"failure_reason,omitempty"`
	Details    map[string]string `json:"details,omitempty"`
}

// Page is the body of GET /auditlog.
type Page struct {
	Items      []Item   `json:"items"`
	Page       int      `json:"page"`
	TotalPages int      `json:"total_pages"`
	Total      int64    `json:"total"`
	Zone       string   `json:"zone"`
	EventTypes []string `json:"event_types"`
}

// ServeList handles GET /auditlog with optional category, event_type,
// subject, start_date, end_date (YYYY-MM-DD), page and tz filters.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "audit log list")
	defer cancel()

	q := r.URL.Query()
	category := strings.TrimSpace(q.Get("category"))
	page := paging.Parse(r, pageSize)

	zone := strings.TrimSpace(q.Get("tz"))
	loc, err := time.LoadLocation(zone)
	if zone == "" || err != nil {
		zone = DefaultZone
		if loc, err = time.LoadLocation(zone); err != nil {
			loc = time.UTC
			zone = "UTC"
		}
	}

	filter := audit.QueryFilter{
		Category:  category,
		EventType: strings.TrimSpace(q.Get("event_type")),
		Subject:   strings.ToLower(strings.TrimSpace(q.Get("subject"))),
		Limit:     page.Limit(),
		Offset:    page.Offset(),
	}
	// Dates are days in the chosen zone.
	if t, err := time.ParseInLocation("2006-01-02", q.Get("start_date"), loc); err == nil {
		filter.StartTime = &t
	}
	if t, err := time.ParseInLocation("2006-01-02", q.Get("end_date"), loc); err == nil {
		end := t.Add(24*time.Hour - time.Nanosecond)
		filter.EndTime = &end
	}

	events, err := h.Events.Query(ctx, filter)
	if err != nil {
		h.Log.Error("failed to query audit events", zap.Error(err))
		respond.ServerError(w)
		return
	}
	total, err := h.Events.CountByFilter(ctx, filter)
	if err != nil {
		h.Log.Error("failed to count audit events", zap.Error(err))
		respond.ServerError(w)
		return
	}

	names := h.names(ctx, events)
	items := make([]Item, 0, len(events))
	for _, e := range events {
		item := Item{
			ID:        e.ID.Hex(),
			Timestamp: e.Timestamp,
			LocalTime: e.Timestamp.In(loc).Format("02/01/2006 15:04"),
			Category:  e.Category,
			EventType: e.EventType,
			Subject:   e.Subject,
			IP:        e.IP,
			Success:   e.Success,
			Reason:    e.FailureReason,
			Details:   e.Details,
		}
		if e.ActorID != nil {
			item.ActorName = label(names, *e.ActorID)
		}
		if e.UserID != nil {
			item.TargetName = label(names, *e.UserID)
		}
		items = append(items, item)
	}

	respond.OK(w, Page{
		Items:      items,
		Page:       page.Number,
		TotalPages: page.TotalPages(total),
		Total:      total,
		Zone:       zone,
		EventTypes: EventTypes(category),
	})
}

// names resolves actor and target ids in one query. A failure only leaves
// the raw ids in place.
func (h *Handler) names(ctx context.Context, events []audit.Event) map[primitive.ObjectID]string {
	seen := make(map[primitive.ObjectID]struct{})
	for _, e := range events {
		if e.ActorID != nil {
			seen[*e.ActorID] = struct{}{}
		}
		if e.UserID != nil {
			seen[*e.UserID] = struct{}{}
		}
	}
	out := make(map[primitive.ObjectID]string, len(seen))
	if len(seen) == 0 {
		return out
	}
	ids := make([]primitive.ObjectID, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	users, err := h.Users.GetByIDs(ctx, ids)
	if err != nil {
		h.Log.Warn("failed to fetch user names for audit log", zap.Error(err))
		return out
	}
	for _, u := range users {
		out[u.ID] = u.FullName
	}
	return out
}

func label(names map[primitive.ObjectID]string, id primitive.ObjectID) string {
	if n, ok := names[id]; ok && n != "" {
		return n
	}
	return id.Hex()
}

// EventTypes lists the event types of category, or all of them.
func EventTypes(category string) []string {
	auth := []string{
		audit.EventSignup,
		audit.EventLoginSuccess,
		audit.EventLoginFailed,
		audit.EventGoogleLogin,
		audit.EventLogout,
		audit.EventRoleReconciled,
	}
	admin := []string{
		audit.EventCandidateApproved,
		audit.EventCandidateWaitlisted,
		audit.EventCandidateRejected,
		audit.EventMemberSaved,
		audit.EventMemberDeleted,
		audit.EventContentCreated,
		audit.EventContentUpdated,
		audit.EventContentDeleted,
		audit.EventAttendanceRecorded,
		audit.EventSettingsUpdated,
	}
	switch category {
	case audit.CategoryAuth:
		return auth
	case audit.CategoryAdmin:
		return admin
	}
	return append(auth, admin...)
}
