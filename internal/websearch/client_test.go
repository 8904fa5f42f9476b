package websearch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body)) //nolint:errcheck // test server
	}))
	t.Cleanup(server.Close)

	return server
}

func TestSearch_ParsesResults(t *testing.T) {
	var gotQuery map[string][]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{
			"items": [
				{"title": "Flu Basics", "snippet": "about the flu", "link": "https://cdc.gov/flu"},
				{"title": "Flu Shots", "snippet": "vaccination info", "link": "https://cdc.gov/flu/shots"}
			]
		}`)) //nolint:errcheck // test server
	}))
	t.Cleanup(server.Close)

	client := New(SearchConfig{
		APIKey:   "test-key",
		EngineID: "test-cx",
		BaseURL:  server.URL,
	})

	results, err := client.Search(context.Background(), "flu symptoms", 5)

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Flu Basics", results[0].Title)
	assert.Equal(t, "about the flu", results[0].Snippet)
	assert.Equal(t, "https://cdc.gov/flu", results[0].Link)

	// credentials and query forwarded as customsearch parameters
	assert.Equal(t, []string{"test-key"}, gotQuery["key"])
	assert.Equal(t, []string{"test-cx"}, gotQuery["cx"])
	assert.Equal(t, []string{"flu symptoms"}, gotQuery["q"])
	assert.Equal(t, []string{"5"}, gotQuery["num"])
}

func TestSearch_SkipsNonHTMLResults(t *testing.T) {
	server := newTestServer(t, http.StatusOK, `{
		"items": [
			{"title": "Guide PDF", "snippet": "pdf", "link": "https://example.com/a.pdf", "mime": "application/pdf"},
			{"title": "Web Page", "snippet": "html", "link": "https://example.com/page", "mime": "text/html"},
			{"title": "No Mime", "snippet": "plain", "link": "https://example.com/plain"}
		]
	}`)

	client := New(SearchConfig{BaseURL: server.URL})

	results, err := client.Search(context.Background(), "query", 5)

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Web Page", results[0].Title)
	assert.Equal(t, "No Mime", results[1].Title)
}

func TestSearch_DeduplicatesByLink(t *testing.T) {
	server := newTestServer(t, http.StatusOK, `{
		"items": [
			{"title": "First", "snippet": "a", "link": "https://example.com/same"},
			{"title": "Duplicate", "snippet": "b", "link": "https://example.com/same"},
			{"title": "Empty Link", "snippet": "c", "link": ""}
		]
	}`)

	client := New(SearchConfig{BaseURL: server.URL})

	results, err := client.Search(context.Background(), "query", 5)

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "First", results[0].Title)
}

func TestSearch_LimitsResultCount(t *testing.T) {
	server := newTestServer(t, http.StatusOK, `{
		"items": [
			{"title": "1", "snippet": "a", "link": "https://example.com/1"},
			{"title": "2", "snippet": "b", "link": "https://example.com/2"},
			{"title": "3", "snippet": "c", "link": "https://example.com/3"}
		]
	}`)

	client := New(SearchConfig{BaseURL: server.URL})

	results, err := client.Search(context.Background(), "query", 2)

	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSearch_APIErrorPropagates(t *testing.T) {
	server := newTestServer(t, http.StatusForbidden, `{"error": {"message": "quota exceeded"}}`)

	client := New(SearchConfig{BaseURL: server.URL})

	results, err := client.Search(context.Background(), "query", 5)

	require.Error(t, err)
	assert.Nil(t, results)
	assert.Contains(t, err.Error(), "403")
}

func TestSearch_EmptyItems(t *testing.T) {
	server := newTestServer(t, http.StatusOK, `{}`)

	client := New(SearchConfig{BaseURL: server.URL})

	results, err := client.Search(context.Background(), "obscure query", 5)

	require.NoError(t, err)
	assert.Empty(t, results)
}

// in-memory cache for testing
type mapCache struct {
	store map[string][]Result
	gets  int
	sets  int
}

func newMapCache() *mapCache {
	return &mapCache{store: make(map[string][]Result)}
}

func (c *mapCache) Get(_ context.Context, query string) ([]Result, bool) {
	c.gets++
	results, ok := c.store[query]
	return results, ok
}

func (c *mapCache) Set(_ context.Context, query string, results []Result) {
	c.sets++
	c.store[query] = results
}

func TestSearch_CacheHitSkipsProvider(t *testing.T) {
	providerCalls := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		providerCalls++
		w.Write([]byte(`{"items": [{"title": "Fresh", "snippet": "s", "link": "https://example.com/fresh"}]}`)) //nolint:errcheck
	}))
	t.Cleanup(server.Close)

	cache := newMapCache()
	client := New(SearchConfig{BaseURL: server.URL}).WithCache(cache)

	// first search misses the cache and stores the result
	first, err := client.Search(context.Background(), "query", 5)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 1, providerCalls)
	assert.Equal(t, 1, cache.sets)

	// second search is served from cache
	second, err := client.Search(context.Background(), "query", 5)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, providerCalls)
}
