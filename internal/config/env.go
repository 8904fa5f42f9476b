package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// loads configuration from environment variables
func LoadEnvironmentVariables() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		_ = err // not an error - production environments may not have .env file
	}

	databaseURL := os.Getenv("DATABASE_URL")
	openaiKey := os.Getenv("OPENAI_API_KEY")
	groqKey := os.Getenv("GROQ_API_KEY")
	anthropicKey := os.Getenv("ANTHROPIC_API_KEY")
	searchAPIKey := os.Getenv("GOOGLE_CSE_API_KEY")
	searchEngineID := os.Getenv("GOOGLE_CSE_ID")
	redisURL := os.Getenv("REDIS_URL")
	environment := os.Getenv("ENVIRONMENT")
	port := os.Getenv("PORT")

	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	if openaiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required")
	}

	// at least one generator credential must be present
	if groqKey == "" && anthropicKey == "" {
		return nil, fmt.Errorf("GROQ_API_KEY or ANTHROPIC_API_KEY environment variable is required")
	}

	if searchAPIKey == "" {
		return nil, fmt.Errorf("GOOGLE_CSE_API_KEY environment variable is required")
	}

	if searchEngineID == "" {
		return nil, fmt.Errorf("GOOGLE_CSE_ID environment variable is required")
	}

	if environment == "" {
		environment = "development"
	}

	if port == "" {
		port = "8080"
	}

	return &Config{
		DatabaseURL:    databaseURL,
		OpenAIKey:      openaiKey,
		GroqKey:        groqKey,
		AnthropicKey:   anthropicKey,
		SearchAPIKey:   searchAPIKey,
		SearchEngineID: searchEngineID,
		RedisURL:       redisURL,
		Environment:    environment,
		Port:           port,
	}, nil
}
