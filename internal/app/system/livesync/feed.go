// Package livesync keeps an in-memory snapshot of a Mongo collection and
// pushes every new snapshot to subscribers.
//
// A change of any kind reloads the whole collection and replaces the
// snapshot. There is no incremental patching: the league's collections are
// small and a full reload keeps every subscriber's view identical to the
// database after each change.
package livesync

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/dalemusser/leaguehub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Loader reads the full current contents of a collection.
type Loader[T any] func(ctx context.Context) ([]T, error)

// Feed is a live snapshot of one collection.
//
// Subscriber callbacks run on the feed's goroutine, one at a time, in
// subscription order. They receive a shared slice and must not modify it,
// and they must not Subscribe to the same feed.
type Feed[T any] struct {
	name string
	coll *mongo.Collection
	load Loader[T]
	poll time.Duration
	log  *zap.Logger

	deliver sync.Mutex // orders initial deliveries against publishes

	mu     sync.Mutex
	snap   []T
	loaded bool
	subs   map[uint64]func([]T)
	nextID uint64

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewFeed builds a feed. coll is watched for changes; when the server has no
// change streams the feed re-reads every poll interval instead.
func NewFeed[T any](name string, coll *mongo.Collection, load Loader[T], poll time.Duration, log *zap.Logger) *Feed[T] {
	if poll <= 0 {
		poll = 5 * time.Second
	}
	return &Feed[T]{
		name: name,
		coll: coll,
		load: load,
		poll: poll,
		log:  log.With(zap.String("feed", name)),
		subs: map[uint64]func([]T){},
	}
}

// Name returns the collection label the feed was built with.
func (f *Feed[T]) Name() string { return f.name }

// Start loads the first snapshot and begins watching. The initial load
// error is returned; later errors are logged and retried.
func (f *Feed[T]) Start(ctx context.Context) error {
	if err := f.Refresh(ctx); err != nil {
		return err
	}
	runCtx, cancel := context.WithCancel(context.Background())
	f.cancel = cancel
	f.wg.Add(1)
	go f.run(runCtx)
	f.log.Info("live feed started", zap.Int("rows", len(f.Snapshot())))
	return nil
}

// Stop ends watching and waits for the goroutine to exit.
func (f *Feed[T]) Stop() {
	if f.cancel == nil {
		return
	}
	f.cancel()
	f.wg.Wait()
	f.cancel = nil
	f.log.Info("live feed stopped")
}

// Snapshot returns the latest rows.
func (f *Feed[T]) Snapshot() []T {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snap
}

// Subscribe registers fn and, if a snapshot exists, calls it with the
// current rows before returning. The returned func unsubscribes and may be
// called more than once.
func (f *Feed[T]) Subscribe(fn func([]T)) (unsubscribe func()) {
	f.deliver.Lock()
	defer f.deliver.Unlock()

	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.subs[id] = fn
	snap, loaded := f.snap, f.loaded
	f.mu.Unlock()

	if loaded {
		fn(snap)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subs, id)
			f.mu.Unlock()
		})
	}
}

// Refresh reloads the collection and publishes the result.
func (f *Feed[T]) Refresh(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()

	rows, err := f.load(ctx)
	if err != nil {
		return err
	}
	if rows == nil {
		rows = []T{}
	}
	f.publish(rows)
	return nil
}

func (f *Feed[T]) publish(rows []T) {
	f.deliver.Lock()
	defer f.deliver.Unlock()

	f.mu.Lock()
	f.snap = rows
	f.loaded = true
	fns := make([]func([]T), 0, len(f.subs))
	for id := uint64(0); id < f.nextID; id++ {
		if fn, ok := f.subs[id]; ok {
			fns = append(fns, fn)
		}
	}
	f.mu.Unlock()

	for _, fn := range fns {
		fn(rows)
	}
}

func (f *Feed[T]) run(ctx context.Context) {
	defer f.wg.Done()

	for {
		err := f.watch(ctx)
		if ctx.Err() != nil {
			return
		}
		if ChangeStreamsUnsupported(err) {
			f.log.Warn("change streams unavailable, polling instead", zap.Duration("interval", f.poll), zap.Error(err))
			f.pollLoop(ctx)
			return
		}
		f.log.Warn("change stream ended, reconnecting", zap.Error(err))
		select {
		case <-ctx.Done():
			return
		case <-time.After(2 * time.Second):
		}
		// Changes may have been missed while disconnected.
		f.reload(ctx)
	}
}

func (f *Feed[T]) watch(ctx context.Context) error {
	if f.coll == nil {
		return errNoCollection
	}
	cs, err := f.coll.Watch(ctx, mongo.Pipeline{})
	if err != nil {
		return err
	}
	defer cs.Close(context.Background())

	for cs.Next(ctx) {
		f.reload(ctx)
	}
	return cs.Err()
}

func (f *Feed[T]) pollLoop(ctx context.Context) {
	ticker := time.NewTicker(f.poll)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			f.reload(ctx)
		}
	}
}

func (f *Feed[T]) reload(ctx context.Context) {
	if err := f.Refresh(ctx); err != nil && ctx.Err() == nil {
		f.log.Error("snapshot reload failed", zap.Error(err))
	}
}

var errNoCollection = errors.New("livesync: feed has no collection to watch")

// ChangeStreamsUnsupported reports whether err means the deployment cannot
// open change streams (standalone servers), so polling is the only option.
func ChangeStreamsUnsupported(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, errNoCollection) {
		return true
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 40573 || ce.Code == 20) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "changestream") && strings.Contains(s, "replica set")
}
