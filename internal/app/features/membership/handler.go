// internal/app/features/membership/handler.go
package membership

import (
	applicationstore "github.com/dalemusser/leaguehub/internal/app/store/applications"
	settingsstore "github.com/dalemusser/leaguehub/internal/app/store/settings"
	"github.com/dalemusser/leaguehub/internal/app/system/auditlog"
	"github.com/dalemusser/leaguehub/internal/app/system/blobstore"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the admission page (processo seletivo), applications and
// the site logo.
type Handler struct {
	Settings     *settingsstore.Store
	Applications *applicationstore.Store
	Blobs        blobstore.Store
	AuditLog     *auditlog.Logger
	Log          *zap.Logger
}

func NewHandler(db *mongo.Database, blobs blobstore.Store, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Settings:     settingsstore.New(db),
		Applications: applicationstore.New(db),
		Blobs:        blobs,
		AuditLog:     audit,
		Log:          logger,
	}
}
