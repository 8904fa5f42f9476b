package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/careassist/server/internal/websearch"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, ttl time.Duration) (*SearchCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close() //nolint:errcheck // test cleanup
	})

	return NewSearchCacheWithClient(client, ttl), mr
}

func TestSearchCache_SetAndGet(t *testing.T) {
	cache, _ := newTestCache(t, time.Minute)
	ctx := context.Background()

	results := []websearch.Result{
		{Title: "Flu Basics", Snippet: "about the flu", Link: "https://cdc.gov/flu"},
		{Title: "Flu Shots", Snippet: "vaccination", Link: "https://cdc.gov/flu/shots"},
	}

	cache.Set(ctx, "flu symptoms", results)

	got, ok := cache.Get(ctx, "flu symptoms")
	require.True(t, ok)
	assert.Equal(t, results, got)
}

func TestSearchCache_MissOnUnknownQuery(t *testing.T) {
	cache, _ := newTestCache(t, time.Minute)

	got, ok := cache.Get(context.Background(), "never cached")

	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestSearchCache_KeysAreQuerySpecific(t *testing.T) {
	cache, _ := newTestCache(t, time.Minute)
	ctx := context.Background()

	cache.Set(ctx, "query one", []websearch.Result{{Title: "One", Link: "https://example.com/1"}})
	cache.Set(ctx, "query two", []websearch.Result{{Title: "Two", Link: "https://example.com/2"}})

	one, ok := cache.Get(ctx, "query one")
	require.True(t, ok)
	assert.Equal(t, "One", one[0].Title)

	two, ok := cache.Get(ctx, "query two")
	require.True(t, ok)
	assert.Equal(t, "Two", two[0].Title)
}

func TestSearchCache_EntriesExpire(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	cache.Set(ctx, "flu symptoms", []websearch.Result{{Title: "Flu", Link: "https://cdc.gov/flu"}})

	mr.FastForward(2 * time.Minute)

	_, ok := cache.Get(ctx, "flu symptoms")
	assert.False(t, ok)
}

func TestSearchCache_CorruptEntryIsAMiss(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, mr.Set(cacheKey("flu symptoms"), "not json"))

	got, ok := cache.Get(ctx, "flu symptoms")
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestSearchCache_RedisDownDegradesToMiss(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	cache.Set(ctx, "flu symptoms", []websearch.Result{{Title: "Flu", Link: "https://cdc.gov/flu"}})

	mr.Close()

	got, ok := cache.Get(ctx, "flu symptoms")
	assert.False(t, ok)
	assert.Nil(t, got)

	// writes are best effort and must not panic
	cache.Set(ctx, "another query", []websearch.Result{{Title: "X", Link: "https://example.com"}})
}
