package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/careassist/server/internal/logger"
)

const (
	googleSearchURL     = "https://www.googleapis.com/customsearch/v1"
	defaultMaxResults   = 5
	defaultQueryTimeout = 10 * time.Second
)

// creates a new web search client
func New(config SearchConfig) *Client {
	if config.BaseURL == "" {
		config.BaseURL = googleSearchURL
	}

	if config.MaxResults == 0 {
		config.MaxResults = defaultMaxResults
	}

	if config.Timeout == 0 {
		config.Timeout = defaultQueryTimeout
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// attaches an optional result cache; a nil cache disables caching
func (c *Client) WithCache(cache ResultCache) *Client {
	c.cache = cache
	return c
}

// Search issues a keyword query and returns up to count ranked results.
// Callers decide how to treat provider failures; this client only reports them.
func (c *Client) Search(ctx context.Context, query string, count int) ([]Result, error) {
	if count <= 0 {
		count = c.config.MaxResults
	}

	if c.cache != nil {
		if cached, ok := c.cache.Get(ctx, query); ok {
			logger.Debug("web search cache hit", "query", query)
			return limitResults(cached, count), nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, "GET", c.buildSearchURL(query, count), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search API returned status %d", resp.StatusCode)
	}

	var apiResponse struct {
		Items []struct {
			Title   string `json:"title"`
			Snippet string `json:"snippet"`
			Link    string `json:"link"`
			Mime    string `json:"mime"`
		} `json:"items"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	seen := make(map[string]bool)
	results := make([]Result, 0, len(apiResponse.Items))

	for _, item := range apiResponse.Items {
		// skip non-HTML results (PDFs, images)
		if item.Mime != "" && !strings.Contains(item.Mime, "html") {
			continue
		}

		if item.Link == "" || seen[item.Link] {
			continue
		}

		seen[item.Link] = true
		results = append(results, Result{
			Title:   item.Title,
			Snippet: item.Snippet,
			Link:    item.Link,
		})
	}

	if c.cache != nil && len(results) > 0 {
		c.cache.Set(ctx, query, results)
	}

	return limitResults(results, count), nil
}

// builds the customsearch request URL with credentials and result count
func (c *Client) buildSearchURL(query string, count int) string {
	baseURL, _ := url.Parse(c.config.BaseURL) //nolint:errcheck // validated at construction
	params := url.Values{}
	params.Add("key", c.config.APIKey)
	params.Add("cx", c.config.EngineID)
	params.Add("q", query)
	params.Add("num", fmt.Sprintf("%d", count))
	baseURL.RawQuery = params.Encode()

	return baseURL.String()
}

func limitResults(results []Result, count int) []Result {
	if len(results) > count {
		return results[:count]
	}

	return results
}
