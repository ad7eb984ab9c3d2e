// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"

	"github.com/dalemusser/leaguehub/internal/app/store/audit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Config holds audit logging configuration.
type Config struct {
	// Auth controls logging for sign-up, sign-in and sign-out events.
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Auth string
	// Admin controls logging for administrator decisions and content changes.
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Admin string
}

// Logger records audit events to MongoDB (via audit.Store) and zap.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

// getClientIP extracts the client IP from the request.
func getClientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

func userAgent(r *http.Request) string {
	if r == nil {
		return ""
	}
	return r.UserAgent()
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.UserID != nil {
		fields = append(fields, zap.String("user_id", event.UserID.Hex()))
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.Subject != "" {
		fields = append(fields, zap.String("subject", event.Subject))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration.
// A nil Logger is a no-op so handlers under test can leave it unset.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryAuth:
		setting = l.config.Auth
	case audit.CategoryAdmin:
		setting = l.config.Admin
	default:
		setting = "all"
	}
	if setting == "" {
		setting = "all"
	}
	if setting == "off" {
		return
	}

	if setting == "all" || setting == "log" {
		l.logToZap(event)
	}
	if (setting == "all" || setting == "db") && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

// --- Authentication Events ---

// Signup logs account creation.
func (l *Logger) Signup(ctx context.Context, r *http.Request, userID primitive.ObjectID, email, provider string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventSignup,
		UserID:    &userID,
		Subject:   email,
		IP:        getClientIP(r),
		UserAgent: userAgent(r),
		Success:   true,
		Details:   map[string]string{"provider": provider},
	})
}

// LoginSuccess logs a successful sign-in.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, userID primitive.ObjectID, email, provider string) {
	eventType := audit.EventLoginSuccess
	if provider == "google" {
		eventType = audit.EventGoogleLogin
	}
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: eventType,
		UserID:    &userID,
		Subject:   email,
		IP:        getClientIP(r),
		UserAgent: userAgent(r),
		Success:   true,
		Details:   map[string]string{"provider": provider},
	})
}

// LoginFailed logs a rejected sign-in attempt.
func (l *Logger) LoginFailed(ctx context.Context, r *http.Request, email, reason string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailed,
		Subject:       email,
		IP:            getClientIP(r),
		UserAgent:     userAgent(r),
		Success:       false,
		FailureReason: reason,
	})
}

// Logout logs a sign-out.
func (l *Logger) Logout(ctx context.Context, r *http.Request, userIDHex, email string) {
	ev := audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLogout,
		Subject:   email,
		IP:        getClientIP(r),
		UserAgent: userAgent(r),
		Success:   true,
	}
	if oid, err := primitive.ObjectIDFromHex(userIDHex); err == nil {
		ev.UserID = &oid
	}
	l.Log(ctx, ev)
}

// RoleReconciled logs a profile whose stored role was rewritten to match
// the derived one.
func (l *Logger) RoleReconciled(ctx context.Context, userID primitive.ObjectID, email, from, to string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventRoleReconciled,
		UserID:    &userID,
		Subject:   email,
		Success:   true,
		Details:   map[string]string{"from": from, "to": to},
	})
}

// --- Admin Events ---

// CandidateDecision logs an approval, waitlist or rejection.
// err != nil records a failed attempt.
func (l *Logger) CandidateDecision(ctx context.Context, r *http.Request, actorID primitive.ObjectID, eventType, source, candidateID, email string, err error) {
	ev := audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: eventType,
		ActorID:   &actorID,
		Subject:   email,
		IP:        getClientIP(r),
		UserAgent: userAgent(r),
		Success:   err == nil,
		Details: map[string]string{
			"source":       source,
			"candidate_id": candidateID,
		},
	}
	if err != nil {
		ev.FailureReason = err.Error()
	}
	l.Log(ctx, ev)
}

// ContentChanged logs an admin create, update or delete of a collection row.
func (l *Logger) ContentChanged(ctx context.Context, r *http.Request, actorID primitive.ObjectID, eventType, collection, id string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: eventType,
		ActorID:   &actorID,
		Subject:   collection + "/" + id,
		IP:        getClientIP(r),
		UserAgent: userAgent(r),
		Success:   true,
		Details:   map[string]string{"collection": collection},
	})
}

// MemberSaved logs a roster upsert.
func (l *Logger) MemberSaved(ctx context.Context, r *http.Request, actorID primitive.ObjectID, email string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventMemberSaved,
		ActorID:   &actorID,
		Subject:   email,
		IP:        getClientIP(r),
		UserAgent: userAgent(r),
		Success:   true,
	})
}

// MemberDeleted logs removal of a roster row.
func (l *Logger) MemberDeleted(ctx context.Context, r *http.Request, actorID primitive.ObjectID, email string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventMemberDeleted,
		ActorID:   &actorID,
		Subject:   email,
		IP:        getClientIP(r),
		UserAgent: userAgent(r),
		Success:   true,
	})
}

// AttendanceRecorded logs a presence record written by the admin.
func (l *Logger) AttendanceRecorded(ctx context.Context, r *http.Request, actorID primitive.ObjectID, email, eventID string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventAttendanceRecorded,
		ActorID:   &actorID,
		Subject:   email,
		IP:        getClientIP(r),
		UserAgent: userAgent(r),
		Success:   true,
		Details:   map[string]string{"event_id": eventID},
	})
}

// SettingsUpdated logs a change to a settings singleton.
func (l *Logger) SettingsUpdated(ctx context.Context, r *http.Request, actorID primitive.ObjectID, which string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventSettingsUpdated,
		ActorID:   &actorID,
		Subject:   which,
		IP:        getClientIP(r),
		UserAgent: userAgent(r),
		Success:   true,
	})
}
