// internal/app/features/portal/handler.go
package portal

import (
	attendancestore "github.com/dalemusser/leaguehub/internal/app/store/attendance"
	eventstore "github.com/dalemusser/leaguehub/internal/app/store/events"
	memberdocstore "github.com/dalemusser/leaguehub/internal/app/store/memberdocs"
	noticestore "github.com/dalemusser/leaguehub/internal/app/store/notices"
	userstore "github.com/dalemusser/leaguehub/internal/app/store/users"
	"github.com/dalemusser/leaguehub/internal/app/system/auditlog"
	"github.com/dalemusser/leaguehub/internal/app/system/blobstore"
	"github.com/dalemusser/leaguehub/internal/app/system/certificate"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the members' area: notice board, private documents and
// the academic declaration.
type Handler struct {
	Notices    *noticestore.Store
	Docs       *memberdocstore.Store
	Users      *userstore.Store
	Attendance *attendancestore.Store
	Events     *eventstore.Store
	Blobs      blobstore.Store
	AuditLog   *auditlog.Logger
	Log        *zap.Logger

	// Letterhead carries the institution, league and signatories printed
	// on every declaration.
	Letterhead certificate.Declaration
}

func NewHandler(db *mongo.Database, blobs blobstore.Store, letterhead certificate.Declaration, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Notices:    noticestore.New(db),
		Docs:       memberdocstore.New(db),
		Users:      userstore.New(db),
		Attendance: attendancestore.New(db),
		Events:     eventstore.New(db),
		Blobs:      blobs,
		AuditLog:   audit,
		Log:        logger,
		Letterhead: letterhead,
	}
}
