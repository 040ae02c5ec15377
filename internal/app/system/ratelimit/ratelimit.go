// internal/app/system/ratelimit/ratelimit.go
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dalemusser/workhub/internal/app/system/normalize"
)

// Limiter is a fixed-window counter per key. It is safe for concurrent use.
type Limiter struct {
	mu       sync.Mutex
	windows  map[string]*window
	limit    int
	duration time.Duration
	now      func() time.Time
	stop     chan struct{}
	once     sync.Once
}

type window struct {
	count     int
	expiresAt time.Time
}

// New creates a limiter allowing limit hits per key per duration. Call Stop
// to end the background sweep.
func New(limit int, duration time.Duration) *Limiter {
	l := &Limiter{
		windows:  make(map[string]*window),
		limit:    limit,
		duration: duration,
		now:      time.Now,
		stop:     make(chan struct{}),
	}
	go l.sweep(duration * 2)
	return l
}

// Allow records a hit for key and reports whether it is within the limit.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if !ok || now.After(w.expiresAt) {
		l.windows[key] = &window{count: 1, expiresAt: now.Add(l.duration)}
		return true
	}
	if w.count >= l.limit {
		return false
	}
	w.count++
	return true
}

// Remaining returns how many hits key has left in its current window.
func (l *Limiter) Remaining(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok || l.now().After(w.expiresAt) {
		return l.limit
	}
	return max(l.limit-w.count, 0)
}

// Reset forgets key.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.windows, key)
}

// Stop ends the sweep goroutine. Safe to call more than once.
func (l *Limiter) Stop() {
	l.once.Do(func() { close(l.stop) })
}

func (l *Limiter) sweep(every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-l.stop:
			return
		case <-t.C:
			l.mu.Lock()
			now := l.now()
			for k, w := range l.windows {
				if now.After(w.expiresAt) {
					delete(l.windows, k)
				}
			}
			l.mu.Unlock()
		}
	}
}

// ClientIP returns the caller's address, preferring the first
// X-Forwarded-For hop, then X-Real-IP, then RemoteAddr without its port.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
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

// Messages returned by AuthLimiter.Check.
const (
	MsgTooManyFromIP     = "Demasiados intentos. Espera un minuto e inténtalo de nuevo."
	MsgTooManyForAccount = "Demasiados intentos para esta cuenta. Espera unos minutos."
)

// AuthLimiter throttles sign-in and password-reset requests per client IP
// and per email.
type AuthLimiter struct {
	ip    *Limiter
	email *Limiter
}

// NewAuthLimiter allows 10 attempts per IP per minute and 5 per email per
// 5 minutes.
func NewAuthLimiter() *AuthLimiter {
	return NewAuthLimiterWithConfig(10, time.Minute, 5, 5*time.Minute)
}

// NewAuthLimiterWithConfig builds an AuthLimiter with custom windows.
func NewAuthLimiterWithConfig(ipLimit int, ipWindow time.Duration, emailLimit int, emailWindow time.Duration) *AuthLimiter {
	return &AuthLimiter{
		ip:    New(ipLimit, ipWindow),
		email: New(emailLimit, emailWindow),
	}
}

// Check records an attempt and returns ("", true) when it may proceed, or
// a user-facing message when it is throttled. A nil limiter allows all.
func (a *AuthLimiter) Check(r *http.Request, email string) (string, bool) {
	if a == nil {
		return "", true
	}
	if !a.ip.Allow(ClientIP(r)) {
		return MsgTooManyFromIP, false
	}
	if key := normalize.Email(email); key != "" && !a.email.Allow(key) {
		return MsgTooManyForAccount, false
	}
	return "", true
}

// Succeeded clears the per-email window after a successful sign-in.
func (a *AuthLimiter) Succeeded(email string) {
	if a == nil {
		return
	}
	if key := normalize.Email(email); key != "" {
		a.email.Reset(key)
	}
}

// Stop ends both sweep goroutines.
func (a *AuthLimiter) Stop() {
	if a == nil {
		return
	}
	a.ip.Stop()
	a.email.Stop()
}
