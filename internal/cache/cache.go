package cache

import (
	"context"
	"strings"
	"time"
)

// Cache is the process-wide key-value store fronting all collectors.
// Implementations must be safe for concurrent use; concurrent writes to the
// same key are last-write-wins, acceptable because entries are idempotent
// recomputations of the same external fact.
type Cache interface {
	// Get unmarshals the entry for key into dest. Returns false on a miss
	// (absent or expired entry) with dest untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores value under key with the given TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
}

// Key prefixes for the cache namespace. Symbol-scoped keys use the
// lowercased symbol as suffix.
const (
	prefixSocial    = "social"
	prefixNews      = "news"
	prefixSentiment = "sentiment"
	prefixPosts     = "posts"

	// KeyTop25 holds the shared top-25 token snapshot.
	KeyTop25 = "tokens:top25"
)

func symbolKey(prefix, symbol string) string {
	return prefix + ":" + strings.ToLower(symbol)
}

// KeySocial returns the cache key for a symbol's social metrics.
func KeySocial(symbol string) string { return symbolKey(prefixSocial, symbol) }

// KeyNews returns the cache key for a symbol's news headlines.
func KeyNews(symbol string) string { return symbolKey(prefixNews, symbol) }

// KeySentiment returns the cache key for a symbol's sentiment summary.
func KeySentiment(symbol string) string { return symbolKey(prefixSentiment, symbol) }

// KeyPosts returns the cache key for a symbol's top social posts.
func KeyPosts(symbol string) string { return symbolKey(prefixPosts, symbol) }
