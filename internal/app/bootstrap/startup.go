// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/leaguehub/internal/app/store/audit"
	"github.com/dalemusser/leaguehub/internal/app/store/oauthstate"
	userstore "github.com/dalemusser/leaguehub/internal/app/store/users"
	"github.com/dalemusser/leaguehub/internal/app/system/auditlog"
	"github.com/dalemusser/leaguehub/internal/app/system/blobstore"
	"github.com/dalemusser/leaguehub/internal/app/system/livesync"
	"github.com/dalemusser/leaguehub/internal/app/system/normalize"
	"github.com/dalemusser/leaguehub/internal/app/system/ratelimit"
	"github.com/dalemusser/leaguehub/internal/app/system/timeouts"
	"github.com/dalemusser/leaguehub/internal/app/system/tutor"
	"github.com/dalemusser/leaguehub/internal/app/system/workers"
	"github.com/dalemusser/leaguehub/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// stateCleanupInterval is how often expired OAuth state tokens are swept.
const stateCleanupInterval = 10 * time.Minute

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. It builds
// the live hub, the blob store, the tutor and the background workers.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	svc := deps.Services
	if svc == nil {
		return errors.New("startup: services not allocated")
	}
	db := deps.MongoDatabase

	if err := ensureAdmin(ctx, deps, appCfg.AdminEmail, logger); err != nil {
		logger.Warn("admin bootstrap failed", zap.Error(err))
	}

	blobs, local, err := buildBlobStore(ctx, appCfg)
	if err != nil {
		logger.Error("blob store init failed", zap.Error(err))
		return err
	}
	svc.Blobs = blobs
	svc.Local = local
	logger.Info("blob store ready", zap.String("type", appCfg.StorageType))

	client, err := tutor.New(ctx, appCfg.GeminiAPIKey, appCfg.GeminiModel)
	switch {
	case errors.Is(err, tutor.ErrNotConfigured):
		logger.Info("tutor disabled; no API key")
	case err != nil:
		logger.Warn("tutor init failed; assistant falls back to its apology", zap.Error(err))
	default:
		svc.Tutor = client
	}

	svc.AuditLog = auditlog.New(audit.New(db), logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})
	svc.Limiter = ratelimit.NewSignInLimiter()

	svc.Hub = livesync.NewHub(db, appCfg.LivesyncPollInterval, logger)
	hctx, cancel := context.WithTimeout(ctx, timeouts.Long())
	defer cancel()
	if err := svc.Hub.Start(hctx); err != nil {
		svc.Limiter.Stop()
		return fmt.Errorf("start live hub: %w", err)
	}

	svc.Cleanup = workers.NewStateCleanup(oauthstate.New(db), logger, stateCleanupInterval)
	svc.Cleanup.Start()
	return nil
}

func buildBlobStore(ctx context.Context, appCfg AppConfig) (blobstore.Store, *blobstore.Local, error) {
	if appCfg.StorageType == "s3" {
		s, err := blobstore.NewS3(ctx, blobstore.S3Config{
			Region:    appCfg.StorageS3Region,
			Bucket:    appCfg.StorageS3Bucket,
			Prefix:    appCfg.StorageS3Prefix,
			Endpoint:  appCfg.StorageS3Endpoint,
			PublicURL: appCfg.StorageS3PublicURL,
		})
		return s, nil, err
	}
	l, err := blobstore.NewLocal(appCfg.StorageLocalPath, appCfg.StorageLocalURL)
	if err != nil {
		return nil, nil, err
	}
	return l, l, nil
}

// ensureAdmin promotes an existing profile for the admin email and
// reactivates it. A missing profile is created on the admin's first sign-in.
func ensureAdmin(ctx context.Context, deps DBDeps, email string, logger *zap.Logger) error {
	email = normalize.Email(email)
	if email == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	users := userstore.New(deps.MongoDatabase)
	u, err := users.GetByEmail(ctx, email)
	if errors.Is(err, userstore.ErrNotFound) {
		logger.Info("admin profile not created yet", zap.String("email", email))
		return nil
	}
	if err != nil {
		return fmt.Errorf("load admin profile: %w", err)
	}
	if u.Role == models.RoleAdmin && normalize.Status(u.Status) != models.StatusInactive {
		return nil
	}
	if err := users.SetRole(ctx, u.ID, models.RoleAdmin); err != nil {
		return fmt.Errorf("promote admin: %w", err)
	}
	if normalize.Status(u.Status) == models.StatusInactive {
		if err := users.SetStatus(ctx, u.ID, models.StatusActive); err != nil {
			return fmt.Errorf("reactivate admin: %w", err)
		}
	}
	logger.Info("admin profile promoted", zap.String("email", email))
	return nil
}
