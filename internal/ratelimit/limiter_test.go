package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlidingWindow_Allow(t *testing.T) {
	limiter := NewSlidingWindow(3, time.Minute)
	defer limiter.Close()

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow("client1"), "request %d should pass", i)
	}
	assert.False(t, limiter.Allow("client1"))

	// Keys are independent
	assert.True(t, limiter.Allow("client2"))
}

func TestSlidingWindow_WindowSlides(t *testing.T) {
	now := time.Now()
	limiter := NewSlidingWindow(2, time.Minute)
	defer limiter.Close()
	limiter.now = func() time.Time { return now }

	assert.True(t, limiter.Allow("client1"))
	assert.True(t, limiter.Allow("client1"))
	assert.False(t, limiter.Allow("client1"))

	// Half a window later the old requests still count
	now = now.Add(30 * time.Second)
	assert.False(t, limiter.Allow("client1"))

	// Once the first requests fall out of the window, capacity returns
	now = now.Add(31 * time.Second)
	assert.True(t, limiter.Allow("client1"))
}

func TestSlidingWindow_DeniedRequestsDontCount(t *testing.T) {
	now := time.Now()
	limiter := NewSlidingWindow(1, time.Minute)
	defer limiter.Close()
	limiter.now = func() time.Time { return now }

	assert.True(t, limiter.Allow("client1"))

	// Hammering while limited must not extend the lockout
	for i := 0; i < 10; i++ {
		now = now.Add(time.Second)
		assert.False(t, limiter.Allow("client1"))
	}

	now = now.Add(51 * time.Second)
	assert.True(t, limiter.Allow("client1"))
}

func TestSlidingWindow_Sweep(t *testing.T) {
	now := time.Now()
	limiter := NewSlidingWindow(5, time.Minute)
	defer limiter.Close()
	limiter.now = func() time.Time { return now }

	limiter.Allow("client1")
	limiter.Allow("client2")
	assert.Len(t, limiter.buckets, 2)

	now = now.Add(2 * time.Minute)
	limiter.Allow("client2")
	limiter.Sweep()

	assert.Len(t, limiter.buckets, 1)
	assert.Contains(t, limiter.buckets, "client2")
}

func TestSlidingWindow_BackgroundSweepReclaimsIdleBuckets(t *testing.T) {
	limiter := NewSlidingWindow(5, 20*time.Millisecond)
	defer limiter.Close()

	limiter.Allow("one-shot-client")

	// The sweep loop reclaims the bucket once its window drains
	require.Eventually(t, func() bool {
		limiter.mu.Lock()
		defer limiter.mu.Unlock()
		return len(limiter.buckets) == 0
	}, time.Second, 5*time.Millisecond)
}

func TestSlidingWindow_CloseIsIdempotent(t *testing.T) {
	limiter := NewSlidingWindow(1, time.Minute)
	limiter.Close()
	limiter.Close()
}
