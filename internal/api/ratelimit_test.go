package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiterExhaustsAndResets(t *testing.T) {
	l := &limiter{clients: make(map[string]*clientBucket), limit: 3, window: 20 * time.Millisecond}

	for i := 0; i < 3; i++ {
		ok, _ := l.allow("10.0.0.1")
		require.True(t, ok, "request %d should pass", i)
	}
	ok, retry := l.allow("10.0.0.1")
	assert.False(t, ok)
	assert.Positive(t, retry)

	// A different client keeps its own budget.
	ok, _ = l.allow("10.0.0.2")
	assert.True(t, ok)

	time.Sleep(25 * time.Millisecond)
	ok, _ = l.allow("10.0.0.1")
	assert.True(t, ok, "window reset should refill the bucket")
}

func TestRateLimitedHandlerReturns429(t *testing.T) {
	l := &limiter{clients: make(map[string]*clientBucket), limit: 2, window: time.Minute}
	handler := l.rateLimited(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest(http.MethodGet, "/api/v1/status", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/api/v1/status", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.7:54321"
	assert.Equal(t, "192.0.2.7", clientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 192.0.2.7")
	assert.Equal(t, "203.0.113.9", clientIP(req))
}

func TestLimiterSweepDropsStaleClients(t *testing.T) {
	l := &limiter{clients: make(map[string]*clientBucket), limit: 1, window: time.Millisecond}
	l.allow("10.0.0.1")
	time.Sleep(5 * time.Millisecond)
	l.sweep()
	assert.Empty(t, l.clients)
}
