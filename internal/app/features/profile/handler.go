// internal/app/features/profile/handler.go
package profile

import (
	userstore "github.com/dalemusser/leaguehub/internal/app/store/users"
	"github.com/dalemusser/leaguehub/internal/app/system/blobstore"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the signed-in person's profile screen.
type Handler struct {
	Users *userstore.Store
	Blobs blobstore.Store
	Log   *zap.Logger
}

// NewHandler constructs a Handler bound to the given Mongo database and logger.
func NewHandler(db *mongo.Database, blobs blobstore.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Users: userstore.New(db),
		Blobs: blobs,
		Log:   logger,
	}
}
