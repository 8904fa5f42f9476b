package websearch

import (
	"context"
	"net/http"
	"time"
)

// Result is one web search hit.
type Result struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Link    string `json:"link"`
}

// caches search results keyed by query; implementations must be safe for
// concurrent use
type ResultCache interface {
	Get(ctx context.Context, query string) ([]Result, bool)
	Set(ctx context.Context, query string, results []Result)
}

// SearchConfig holds provider credentials and limits.
type SearchConfig struct {
	APIKey     string
	EngineID   string
	BaseURL    string        // override for tests, defaults to the Google endpoint
	MaxResults int           // default result count per search
	Timeout    time.Duration // per-request timeout
}

// Client queries the Google Programmable Search JSON API.
type Client struct {
	config     SearchConfig
	httpClient *http.Client
	cache      ResultCache // optional, may be nil
}
