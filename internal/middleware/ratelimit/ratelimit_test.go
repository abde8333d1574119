package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestLimiter(n int) (*Limiter, *time.Time) {
	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := NewLimiter(Config{RequestsPerWindow: n, Window: time.Minute})
	rl.now = func() time.Time { return clock }
	return rl, &clock
}

func TestAllowWithinWindow(t *testing.T) {
	rl, clock := newTestLimiter(2)
	defer rl.Stop()

	assert.True(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.False(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("5.6.7.8"))
	assert.Equal(t, int64(1), rl.Hits())

	*clock = clock.Add(time.Minute)
	assert.True(t, rl.Allow("1.2.3.4"))
}

func TestCleanupStaleEntries(t *testing.T) {
	rl, clock := newTestLimiter(5)
	defer rl.Stop()

	rl.Allow("1.2.3.4")
	*clock = clock.Add(11 * time.Minute)
	rl.Allow("5.6.7.8")

	assert.Equal(t, 1, rl.cleanupStaleEntries())
	assert.Equal(t, 1, rl.ActiveClients())
}

func TestMiddlewareLimitsOnlyListedMethods(t *testing.T) {
	rl, _ := newTestLimiter(1)
	defer rl.Stop()

	h := rl.Middleware(func(*http.Request) string { return "ip" }, http.MethodPost)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) }))

	do := func(method string) int {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(method, "/api/refresh", nil))
		return rr.Code
	}

	assert.Equal(t, http.StatusNoContent, do(http.MethodPost))
	assert.Equal(t, http.StatusTooManyRequests, do(http.MethodPost))
	assert.Equal(t, http.StatusNoContent, do(http.MethodGet))
	assert.Equal(t, http.StatusNoContent, do(http.MethodGet))
}

func TestStopIsIdempotent(t *testing.T) {
	rl := NewLimiter(DefaultConfig())
	rl.Stop()
	rl.Stop()
}
