// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown stops the background workers and live feeds, then disconnects
// from MongoDB.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if svc := deps.Services; svc != nil {
		if svc.Cleanup != nil {
			svc.Cleanup.Stop()
		}
		if svc.Limiter != nil {
			svc.Limiter.Stop()
		}
		if svc.Hub != nil {
			logger.Info("stopping live feeds")
			svc.Hub.Stop()
		}
	}
	if deps.MongoClient != nil {
		logger.Info("disconnecting MongoDB client")
		if err := deps.MongoClient.Disconnect(ctx); err != nil {
			logger.Error("MongoDB disconnect failed", zap.Error(err))
			return err
		}
	}
	return nil
}
