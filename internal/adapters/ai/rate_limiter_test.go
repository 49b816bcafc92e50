package ai

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenBucketLimiter_AllowWithinBurst(t *testing.T) {
	limiter := NewTokenBucketLimiter(600, 5)

	for i := 0; i < 5; i++ {
		assert.True(t, limiter.Allow(), "request %d within burst should pass", i)
	}
	assert.False(t, limiter.Allow(), "request beyond burst should be limited")
}

func TestTokenBucketLimiter_RefillsOverTime(t *testing.T) {
	// 6000 req/min = 100 req/s, so one token refills in 10ms
	limiter := NewTokenBucketLimiter(6000, 1)

	require.True(t, limiter.Allow())
	require.False(t, limiter.Allow())

	time.Sleep(20 * time.Millisecond)
	assert.True(t, limiter.Allow(), "token should have refilled")
}

func TestTokenBucketLimiter_WaitHonorsContext(t *testing.T) {
	// Exhaust a slow limiter, then abort the wait
	limiter := NewTokenBucketLimiter(1, 1)
	require.True(t, limiter.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := limiter.Wait(ctx)
	assert.Error(t, err)
}

func TestTokenBucketLimiter_DefaultBurst(t *testing.T) {
	limiter := NewTokenBucketLimiter(500, 0)
	assert.Equal(t, 500.0, limiter.Limit())
	assert.True(t, limiter.Allow())
}
