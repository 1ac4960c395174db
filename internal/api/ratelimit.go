// Per-client rate limiting for the read endpoints. Map renderers polling
// /territory every frame can otherwise starve the tick loop of lock time.
package api

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// limiter is an in-memory token bucket per client IP. Buckets refill by
// window reset rather than continuous drip; stale entries are swept
// periodically.
type limiter struct {
	mu      sync.Mutex
	clients map[string]*clientBucket
	limit   int
	window  time.Duration
}

type clientBucket struct {
	remaining int
	windowAt  time.Time
}

func newLimiter(limit int, window time.Duration) *limiter {
	l := &limiter{
		clients: make(map[string]*clientBucket),
		limit:   limit,
		window:  window,
	}
	go func() {
		for range time.Tick(time.Hour) {
			l.sweep()
		}
	}()
	return l
}

// allow spends one token for ip. On refusal it also reports the seconds
// until that client's window resets, for the Retry-After header.
func (l *limiter) allow(ip string) (ok bool, retryAfter int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	b, found := l.clients[ip]
	if !found || now.Sub(b.windowAt) >= l.window {
		l.clients[ip] = &clientBucket{remaining: l.limit - 1, windowAt: now}
		return true, 0
	}
	if b.remaining > 0 {
		b.remaining--
		return true, 0
	}
	left := l.window - now.Sub(b.windowAt)
	return false, int(left.Seconds()) + 1
}

func (l *limiter) sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := time.Now()
	for ip, b := range l.clients {
		if now.Sub(b.windowAt) > 2*l.window {
			delete(l.clients, ip)
		}
	}
}

// rateLimited wraps a handler, answering 429 with Retry-After once a
// client exhausts its window.
func (l *limiter) rateLimited(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ok, retry := l.allow(clientIP(r))
		if !ok {
			w.Header().Set("Retry-After", strconv.Itoa(retry))
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next(w, r)
	}
}

// clientIP identifies the caller: the first X-Forwarded-For hop when a
// proxy set one, otherwise the remote address without its port.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i >= 0 {
			xff = xff[:i]
		}
		return strings.TrimSpace(xff)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
