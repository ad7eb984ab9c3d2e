// internal/app/features/events/handler.go
package events

import (
	enrollmentstore "github.com/dalemusser/leaguehub/internal/app/store/enrollments"
	eventstore "github.com/dalemusser/leaguehub/internal/app/store/events"
	"github.com/dalemusser/leaguehub/internal/app/system/auditlog"
	"github.com/dalemusser/leaguehub/internal/app/system/blobstore"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the league schedule (cronograma).
type Handler struct {
	Events      *eventstore.Store
	Enrollments *enrollmentstore.Store
	Blobs       blobstore.Store
	AuditLog    *auditlog.Logger
	Log         *zap.Logger
}

func NewHandler(db *mongo.Database, blobs blobstore.Store, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Events:      eventstore.New(db),
		Enrollments: enrollmentstore.New(db),
		Blobs:       blobs,
		AuditLog:    audit,
		Log:         logger,
	}
}
