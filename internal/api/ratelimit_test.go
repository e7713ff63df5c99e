package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_PerClient(t *testing.T) {
	rl := NewRateLimiter(0.001, 2)
	defer rl.Stop()

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.2"))
}

func TestRateLimiter_Eviction(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	defer rl.Stop()
	rl.maxVisitors = 2

	rl.Allow("a")
	rl.Allow("b")
	rl.visitors["a"].lastSeen = time.Now().Add(-time.Minute)
	rl.Allow("c")
	assert.Len(t, rl.visitors, 2)
	assert.NotContains(t, rl.visitors, "a")

	rl.evictIdle(time.Now().Add(visitorIdleTimeout + time.Second))
	assert.Empty(t, rl.visitors)

	rl.Stop()
	rl.Stop()
}
