package main

import (
	"context"
	"fmt"
	"time"

	"github.com/careassist/server/internal/assistant"
	"github.com/careassist/server/internal/cache"
	"github.com/careassist/server/internal/config"
	"github.com/careassist/server/internal/llm"
	"github.com/careassist/server/internal/retriever"
	"github.com/careassist/server/internal/websearch"
	"github.com/jackc/pgx/v5/pgxpool"
)

const webSearchTimeout = 10 * time.Second

// creates and configures all service clients
func InitializeServices(cfg *config.Config, db *pgxpool.Pool, searchCache *cache.SearchCache) (*Services, error) {
	llmClient, err := llm.NewLLM(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	retrieverClient := retriever.New(db, llmClient)

	searchClient := websearch.New(websearch.SearchConfig{
		APIKey:   cfg.SearchAPIKey,
		EngineID: cfg.SearchEngineID,
		Timeout:  webSearchTimeout,
	})

	if searchCache != nil {
		searchClient = searchClient.WithCache(searchCache)
	}

	assistantClient := assistant.New(retrieverClient, searchClient, llmClient)

	return &Services{
		Assistant: assistantClient,
		LLM:       llmClient,
		Retriever: retrieverClient,
		WebSearch: searchClient,
	}, nil
}
