// Package txn runs multi-collection writes inside a Mongo transaction when
// the deployment supports one, and sequentially when it does not.
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// IsNotSupported reports whether err means the server cannot run
// transactions (standalone mongod, some managed deployments).
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) {
		switch ce.Code {
		case 20, 51, 263: // IllegalOperation, sessions unsupported, OperationNotSupportedInTransaction
			return true
		}
	}
	s := strings.ToLower(err.Error())
	has := func(k string) bool { return strings.Contains(s, k) }
	switch {
	case has("transaction") && has("replica set"):
		return true
	case has("session") && has("not supported"):
		return true
	case has("transaction") && has("session"):
		return true
	case has("illegal operation") && has("transaction"):
		return true
	}
	return false
}

// Run executes fn inside a transaction. When the server rejects
// transactions it logs once per call and runs fn again without one, so fn
// must be safe to run on a plain context.
func Run(ctx context.Context, client *mongo.Client, log *zap.Logger, fn func(ctx context.Context) error) error {
	sess, err := client.StartSession()
	if err != nil {
		if IsNotSupported(err) {
			return fallback(ctx, log, err, fn)
		}
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		return fallback(ctx, log, err, fn)
	}
	return err
}

func fallback(ctx context.Context, log *zap.Logger, cause error, fn func(ctx context.Context) error) error {
	if log != nil {
		log.Warn("transactions unavailable, running steps sequentially", zap.Error(cause))
	}
	return fn(ctx)
}
