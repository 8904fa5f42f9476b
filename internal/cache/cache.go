package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/careassist/server/internal/logger"
	"github.com/careassist/server/internal/websearch"
)

const (
	keySearchResults = "websearch:results:%s"

	defaultTTL = 15 * time.Minute
)

// SearchCache is a redis-backed cache for web search results. All failures
// degrade to a cache miss so a redis outage never breaks a request.
type SearchCache struct {
	client *redis.Client
	ttl    time.Duration
}

// creates a new search cache with a redis connection
func NewSearchCache(redisURL string, ttl time.Duration) (*SearchCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	// test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("connected to redis")

	if ttl <= 0 {
		ttl = defaultTTL
	}

	return &SearchCache{
		client: client,
		ttl:    ttl,
	}, nil
}

// creates a search cache around an existing redis client (used by tests)
func NewSearchCacheWithClient(client *redis.Client, ttl time.Duration) *SearchCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}

	return &SearchCache{client: client, ttl: ttl}
}

// closes the redis connection
func (c *SearchCache) Close() error {
	return c.client.Close()
}

// Get returns cached results for a query, or false on miss or redis error.
func (c *SearchCache) Get(ctx context.Context, query string) ([]websearch.Result, bool) {
	raw, err := c.client.Get(ctx, cacheKey(query)).Result()

	if errors.Is(err, redis.Nil) {
		return nil, false
	}

	if err != nil {
		logger.ErrorErr(err, "failed to read search cache", "query", query)
		return nil, false
	}

	var results []websearch.Result
	if err := json.Unmarshal([]byte(raw), &results); err != nil {
		logger.ErrorErr(err, "failed to decode cached search results", "query", query)
		return nil, false
	}

	return results, true
}

// Set stores results for a query with the configured TTL, best effort.
func (c *SearchCache) Set(ctx context.Context, query string, results []websearch.Result) {
	raw, err := json.Marshal(results)
	if err != nil {
		logger.ErrorErr(err, "failed to encode search results for cache", "query", query)
		return
	}

	if err := c.client.Set(ctx, cacheKey(query), raw, c.ttl).Err(); err != nil {
		logger.ErrorErr(err, "failed to write search cache", "query", query)
	}
}

// queries can contain arbitrary text, so key on a digest
func cacheKey(query string) string {
	sum := sha256.Sum256([]byte(query))
	return fmt.Sprintf(keySearchResults, hex.EncodeToString(sum[:]))
}
