package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_SetGet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	type payload struct {
		Symbol string  `json:"symbol"`
		Score  float64 `json:"score"`
	}

	err := m.Set(ctx, KeySocial("BTC"), payload{Symbol: "BTC", Score: 72.5}, time.Minute)
	require.NoError(t, err)

	var got payload
	hit, err := m.Get(ctx, "social:btc", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "BTC", got.Symbol)
	assert.Equal(t, 72.5, got.Score)
}

func TestMemory_MissOnUnknownKey(t *testing.T) {
	m := NewMemory()

	var got string
	hit, err := m.Get(context.Background(), "news:doge", &got)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Empty(t, got)
}

func TestMemory_ExpiryEvictsLazily(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	current := time.Now()
	m.now = func() time.Time { return current }

	require.NoError(t, m.Set(ctx, "sentiment:eth", "bullish", 30*time.Minute))

	var got string
	hit, err := m.Get(ctx, "sentiment:eth", &got)
	require.NoError(t, err)
	assert.True(t, hit)

	// Advance past the TTL
	current = current.Add(31 * time.Minute)

	hit, err = m.Get(ctx, "sentiment:eth", &got)
	require.NoError(t, err)
	assert.False(t, hit)

	m.mu.RLock()
	_, stillThere := m.entries["sentiment:eth"]
	m.mu.RUnlock()
	assert.False(t, stillThere, "expired entry should be evicted on read")
}

func TestMemory_Delete(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.Set(ctx, "posts:sol", []string{"gm"}, time.Hour))
	require.NoError(t, m.Delete(ctx, "posts:sol", "posts:unknown"))

	var got []string
	hit, err := m.Get(ctx, "posts:sol", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "social:btc", KeySocial("BTC"))
	assert.Equal(t, "news:eth", KeyNews("eth"))
	assert.Equal(t, "sentiment:doge", KeySentiment("DoGe"))
	assert.Equal(t, "posts:sol", KeyPosts("SOL"))
	assert.Equal(t, "tokens:top25", KeyTop25)
}
