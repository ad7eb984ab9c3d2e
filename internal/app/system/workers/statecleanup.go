// internal/app/system/workers/statecleanup.go
package workers

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Sweeper removes expired rows and reports how many went.
// oauthstate.Store satisfies it.
type Sweeper interface {
	CleanupExpired(ctx context.Context) (int64, error)
}

// StateCleanup periodically sweeps expired OAuth state tokens.
type StateCleanup struct {
	sweeper  Sweeper
	log      *zap.Logger
	interval time.Duration
	timeout  time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewStateCleanup creates the worker. interval is how often to sweep.
func NewStateCleanup(s Sweeper, logger *zap.Logger, interval time.Duration) *StateCleanup {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &StateCleanup{
		sweeper:  s,
		log:      logger,
		interval: interval,
		timeout:  30 * time.Second,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the background loop.
func (w *StateCleanup) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("oauth state cleanup worker started", zap.Duration("interval", w.interval))
}

// Stop signals the worker to stop and waits for it to finish.
// Calling Stop twice is safe.
func (w *StateCleanup) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
	w.wg.Wait()
	w.log.Info("oauth state cleanup worker stopped")
}

func (w *StateCleanup) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.Sweep()
		}
	}
}

// Sweep runs one cleanup pass.
func (w *StateCleanup) Sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	count, err := w.sweeper.CleanupExpired(ctx)
	if err != nil {
		w.log.Error("failed to remove expired oauth states", zap.Error(err))
		return
	}
	if count > 0 {
		w.log.Info("removed expired oauth states", zap.Int64("count", count))
	}
}
