package config

// Config holds all externally injected settings, built once at process start
// and passed to the components that need it.
type Config struct {
	// Postgres connection string for the pgvector document index
	DatabaseURL string

	// model and embedding provider credentials
	OpenAIKey    string
	GroqKey      string
	AnthropicKey string

	// Google Programmable Search credentials
	SearchAPIKey   string
	SearchEngineID string

	// optional redis for web-search result caching (empty = disabled)
	RedisURL string

	Environment string
	Port        string
}

// Flags holds command line options for the ingester
type Flags struct {
	Path  string
	Clear bool
}
