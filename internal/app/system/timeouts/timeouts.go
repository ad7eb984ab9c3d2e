// Package timeouts holds the deadlines handlers and stores put on I/O.
//
//   - Ping: health checks
//   - Short: single-document reads and writes
//   - Medium: list queries and snapshot reloads
//   - Long: multi-collection writes such as candidate approval
//   - Upload: blob storage transfers
package timeouts

import (
	"context"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Config holds one duration per class. Zero fields keep the current value.
type Config struct {
	Ping   time.Duration
	Short  time.Duration
	Medium time.Duration
	Long   time.Duration
	Upload time.Duration
}

// Defaults are used until Configure or ConfigureFromEnv changes them.
var Defaults = Config{
	Ping:   2 * time.Second,
	Short:  5 * time.Second,
	Medium: 10 * time.Second,
	Long:   30 * time.Second,
	Upload: 2 * time.Minute,
}

var (
	mu  sync.RWMutex
	cur = Defaults
)

func get(pick func(Config) time.Duration) time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return pick(cur)
}

func Ping() time.Duration   { return get(func(c Config) time.Duration { return c.Ping }) }
func Short() time.Duration  { return get(func(c Config) time.Duration { return c.Short }) }
func Medium() time.Duration { return get(func(c Config) time.Duration { return c.Medium }) }
func Long() time.Duration   { return get(func(c Config) time.Duration { return c.Long }) }
func Upload() time.Duration { return get(func(c Config) time.Duration { return c.Upload }) }

// Configure overrides the non-zero fields of c.
func Configure(c Config) {
	mu.Lock()
	defer mu.Unlock()
	merge(&cur.Ping, c.Ping)
	merge(&cur.Short, c.Short)
	merge(&cur.Medium, c.Medium)
	merge(&cur.Long, c.Long)
	merge(&cur.Upload, c.Upload)
}

func merge(dst *time.Duration, v time.Duration) {
	if v > 0 {
		*dst = v
	}
}

// Reset restores Defaults.
func Reset() {
	mu.Lock()
	cur = Defaults
	mu.Unlock()
}

// Current returns the active configuration.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return cur
}

// ConfigureFromEnv reads TIMEOUT_PING, TIMEOUT_SHORT, TIMEOUT_MEDIUM,
// TIMEOUT_LONG and TIMEOUT_UPLOAD. Invalid values are ignored.
// It returns how many values were applied.
func ConfigureFromEnv() int {
	var c Config
	n := 0
	for name, dst := range map[string]*time.Duration{
		"TIMEOUT_PING":   &c.Ping,
		"TIMEOUT_SHORT":  &c.Short,
		"TIMEOUT_MEDIUM": &c.Medium,
		"TIMEOUT_LONG":   &c.Long,
		"TIMEOUT_UPLOAD": &c.Upload,
	} {
		if v := os.Getenv(name); v != "" {
			if d, err := time.ParseDuration(v); err == nil && d > 0 {
				*dst = d
				n++
			}
		}
	}
	Configure(c)
	return n
}

// WithTimeout is context.WithTimeout whose cancel func logs when the
// deadline was what ended the operation.
//
//	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "approve candidate")
//	defer cancel()
func WithTimeout(parent context.Context, d time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, d)
	return ctx, func() {
		if ctx.Err() == context.DeadlineExceeded && log != nil {
			log.Warn("operation timed out", zap.String("operation", operation), zap.Duration("timeout", d))
		}
		cancel()
	}
}
