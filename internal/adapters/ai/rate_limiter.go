package ai

import (
	"context"
	"sync"
	"time"

	"tokenpulse/pkg/errors"
)

// RateLimiter bounds the request rate against the model provider.
type RateLimiter interface {
	// Wait blocks until a request can proceed or context is cancelled.
	Wait(ctx context.Context) error

	// Allow checks if a request can proceed without blocking.
	Allow() bool

	// Limit returns the current rate limit (requests per minute).
	Limit() float64
}

// TokenBucketLimiter implements token bucket rate limiting.
// Thread-safe and efficient for high-concurrency scenarios.
type TokenBucketLimiter struct {
	rate       float64   // requests per second
	burst      int       // maximum burst size
	tokens     float64   // current available tokens
	lastUpdate time.Time // last token refill time
	mu         sync.Mutex
}

// NewTokenBucketLimiter creates a new token bucket rate limiter.
// reqPerMinute: maximum requests per minute (e.g., 500 for OpenAI Tier 1)
// burst: maximum burst size (typically 10-20% of rate)
func NewTokenBucketLimiter(reqPerMinute float64, burst int) *TokenBucketLimiter {
	if burst <= 0 {
		burst = int(reqPerMinute / 10)
		if burst < 1 {
			burst = 1
		}
	}

	return &TokenBucketLimiter{
		rate:       reqPerMinute / 60.0,
		burst:      burst,
		tokens:     float64(burst), // start with full bucket
		lastUpdate: time.Now(),
	}
}

// Wait blocks until a token is available or context is cancelled.
func (l *TokenBucketLimiter) Wait(ctx context.Context) error {
	for {
		if l.Allow() {
			return nil
		}

		// Sleep for the time one token takes to refill
		retryIn := time.Duration(float64(time.Second) / l.rate)
		if retryIn > time.Second {
			retryIn = time.Second
		}

		select {
		case <-ctx.Done():
			return errors.Wrap(errors.ErrRateLimitExceeded, "context cancelled while waiting for rate limit")
		case <-time.After(retryIn):
		}
	}
}

// Allow checks if a request can proceed, consuming a token if so.
func (l *TokenBucketLimiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(l.lastUpdate).Seconds()
	l.lastUpdate = now

	l.tokens += elapsed * l.rate
	if l.tokens > float64(l.burst) {
		l.tokens = float64(l.burst)
	}

	if l.tokens >= 1 {
		l.tokens--
		return true
	}
	return false
}

// Limit returns the configured limit in requests per minute.
func (l *TokenBucketLimiter) Limit() float64 {
	return l.rate * 60.0
}
