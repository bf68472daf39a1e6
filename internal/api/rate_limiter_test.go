package api

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_BurstThenRefill(t *testing.T) {
	rl := NewRateLimiter(60, 2) // one token per second

	assert.True(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.False(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("5.6.7.8"), "buckets are per key")

	rl.mu.Lock()
	rl.buckets["1.2.3.4"].lastCheck = time.Now().Add(-2 * time.Second)
	rl.mu.Unlock()
	assert.True(t, rl.Allow("1.2.3.4"))
}

func TestRateLimiter_PruneDropsIdleBuckets(t *testing.T) {
	rl := NewRateLimiter(5, 3)
	rl.Allow("a")
	rl.Allow("b")

	rl.mu.Lock()
	rl.buckets["a"].lastCheck = time.Now().Add(-11 * time.Minute)
	rl.mu.Unlock()

	rl.prune(time.Now())
	assert.Len(t, rl.buckets, 1)
	assert.Contains(t, rl.buckets, "b")
}

func TestExtractIP(t *testing.T) {
	r := httptest.NewRequest("POST", "/login", nil)
	r.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", extractIP(r))

	r.Header.Set("X-Real-IP", "10.0.0.2")
	assert.Equal(t, "10.0.0.2", extractIP(r))

	r.Header.Set("X-Forwarded-For", "10.0.0.3, 172.16.0.1")
	assert.Equal(t, "10.0.0.3", extractIP(r))
}

func TestFormConfirmer(t *testing.T) {
	r := httptest.NewRequest("POST", "/admin/queries/cancel", nil)
	fc := newFormConfirmer(r)
	assert.False(t, fc.Confirm("Discard?"))
	assert.True(t, fc.Asked())
	assert.Equal(t, "Discard?", fc.prompt)

	fc = &formConfirmer{confirmed: true}
	assert.True(t, fc.Confirm("Discard?"))
	assert.False(t, fc.Asked())
}
