// internal/app/system/ratelimit/ratelimit.go
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dalemusser/leaguehub/internal/app/system/normalize"
)

// Limiter counts requests per key in fixed windows. It is safe for
// concurrent use. Call Stop to end the background sweep.
type Limiter struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   int
	period  time.Duration
	now     func() time.Time
	stop    chan struct{}
	once    sync.Once
}

type window struct {
	count     int
	expiresAt time.Time
}

// New creates a limiter that admits limit requests per key every period.
func New(limit int, period time.Duration) *Limiter {
	l := &Limiter{
		windows: make(map[string]*window),
		limit:   limit,
		period:  period,
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	go l.sweepLoop(period * 2)
	return l
}

// Allow records one request for key and reports whether it is admitted.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if !ok || now.After(w.expiresAt) {
		l.windows[key] = &window{count: 1, expiresAt: now.Add(l.period)}
		return true
	}
	if w.count >= l.limit {
		return false
	}
	w.count++
	return true
}

// Remaining returns how many requests key may still make in its window.
func (l *Limiter) Remaining(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok || l.now().After(w.expiresAt) {
		return l.limit
	}
	if n := l.limit - w.count; n > 0 {
		return n
	}
	return 0
}

// Reset forgets key.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	delete(l.windows, key)
	l.mu.Unlock()
}

// Stop ends the sweep goroutine. Safe to call more than once.
func (l *Limiter) Stop() {
	l.once.Do(func() { close(l.stop) })
}

func (l *Limiter) sweepLoop(every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-l.stop:
			return
		case <-t.C:
			l.sweep()
		}
	}
}

func (l *Limiter) sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	for k, w := range l.windows {
		if now.After(w.expiresAt) {
			delete(l.windows, k)
		}
	}
}

// ClientIP returns the caller's address, preferring proxy headers.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if ip := strings.TrimSpace(strings.Split(xff, ",")[0]); ip != "" {
			return ip
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// Messages returned when an attempt is refused.
const (
	MsgTooManyFromIP     = "Muitas tentativas. Aguarde um minuto e tente novamente."
	MsgTooManyForAccount = "Muitas tentativas para esta conta. Aguarde alguns minutos."
)

// SignInLimiter throttles sign-in and sign-up attempts both per address and
// per email.
type SignInLimiter struct {
	byIP    *Limiter
	byEmail *Limiter
}

// NewSignInLimiter allows 10 attempts per address per minute and 5 per
// email every 5 minutes.
func NewSignInLimiter() *SignInLimiter {
	return &SignInLimiter{
		byIP:    New(10, time.Minute),
		byEmail: New(5, 5*time.Minute),
	}
}

// Check records an attempt and returns ("", true) when it may proceed,
// otherwise the message to show.
func (s *SignInLimiter) Check(r *http.Request, email string) (string, bool) {
	if !s.byIP.Allow(ClientIP(r)) {
		return MsgTooManyFromIP, false
	}
	if e := normalize.Email(email); e != "" && !s.byEmail.Allow(e) {
		return MsgTooManyForAccount, false
	}
	return "", true
}

// Succeeded clears the per-email counter after a good sign-in.
func (s *SignInLimiter) Succeeded(email string) {
	if e := normalize.Email(email); e != "" {
		s.byEmail.Reset(e)
	}
}

// Stop ends both sweepers.
func (s *SignInLimiter) Stop() {
	s.byIP.Stop()
	s.byEmail.Stop()
}
