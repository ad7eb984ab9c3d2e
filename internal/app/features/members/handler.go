// internal/app/features/members/handler.go
package members

import (
	memberstore "github.com/dalemusser/leaguehub/internal/app/store/members"
	"github.com/dalemusser/leaguehub/internal/app/system/auditlog"
	"github.com/dalemusser/leaguehub/internal/app/system/blobstore"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the feature-level handler for the roster: the public directory
// and the administrator's roster editor.
type Handler struct {
	Log      *zap.Logger
	AuditLog *auditlog.Logger
	Roster   *memberstore.Store
	Blobs    blobstore.Store
}

func NewHandler(db *mongo.Database, blobs blobstore.Store, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:      logger,
		AuditLog: audit,
		Roster:   memberstore.New(db),
		Blobs:    blobs,
	}
}
