// internal/app/features/feed/handler.go
package feed

import (
	poststore "github.com/dalemusser/leaguehub/internal/app/store/posts"
	"github.com/dalemusser/leaguehub/internal/app/system/auditlog"
	"github.com/dalemusser/leaguehub/internal/app/system/blobstore"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the social feed.
type Handler struct {
	Posts    *poststore.Store
	Blobs    blobstore.Store
	AuditLog *auditlog.Logger
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, blobs blobstore.Store, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Posts:    poststore.New(db),
		Blobs:    blobs,
		AuditLog: audit,
		Log:      logger,
	}
}
