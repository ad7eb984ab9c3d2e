// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/leaguehub/internal/app/system/auditlog"
	"github.com/dalemusser/leaguehub/internal/app/system/blobstore"
	"github.com/dalemusser/leaguehub/internal/app/system/livesync"
	"github.com/dalemusser/leaguehub/internal/app/system/ratelimit"
	"github.com/dalemusser/leaguehub/internal/app/system/tutor"
	"github.com/dalemusser/leaguehub/internal/app/system/workers"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// Services is allocated by ConnectDB and filled in by Startup, since
	// hooks receive DBDeps by value.
	Services *Services
}

// Services are the long-lived components built once at startup.
type Services struct {
	Hub      *livesync.Hub
	Blobs    blobstore.Store
	Local    *blobstore.Local // set when files are served by this process
	Tutor    tutor.Streamer   // nil when no API key is configured
	AuditLog *auditlog.Logger
	Limiter  *ratelimit.SignInLimiter
	Cleanup  *workers.StateCleanup
}
