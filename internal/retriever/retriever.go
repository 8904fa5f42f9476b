package retriever

import (
	"context"
	"fmt"

	"github.com/careassist/server/internal/llm"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// creates a new retriever client from an existing pool and embedder
func New(pool *pgxpool.Pool, embedder llm.Embedder) *Client {
	return &Client{
		pool:     pool,
		embedder: embedder,
		topK:     defaultTopK,
	}
}

// creates a new retriever client with auto-configuration from environment
func NewClient(ctx context.Context, embedder llm.Embedder) (*Client, error) {
	config, err := loadRetrieverConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load retriever config: %w", err)
	}

	pool, err := pgxpool.New(ctx, config.DBConnString)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Client{
		pool:     pool,
		embedder: embedder,
		topK:     config.TopK,
	}, nil
}

// closes the retriever client
func (c *Client) Close() {
	c.pool.Close()
}

// returns the configured default top K
func (c *Client) TopK() int {
	return c.topK
}

// Search performs a cosine similarity search over doc_chunks and returns the
// top K passages closest to the query text.
func (c *Client) Search(ctx context.Context, queryText string, topK int) ([]SearchResult, error) {
	// generate embedding for query
	embedding, err := c.embedder.GenerateEmbedding(ctx, queryText)
	if err != nil {
		return nil, fmt.Errorf("failed to generate query embedding: %w", err)
	}

	if topK <= 0 {
		topK = c.topK
	}

	query := `
		SELECT
			id::text,
			title,
			source,
			content,
			1 - (embedding <=> $1) AS similarity
		FROM doc_chunks
		ORDER BY embedding <=> $1
		LIMIT $2
	`

	rows, err := c.pool.Query(ctx, query, pgvector.NewVector(embedding), topK)
	if err != nil {
		return nil, fmt.Errorf("failed to execute search query: %w", err)
	}
	defer rows.Close()

	var results []SearchResult

	for rows.Next() {
		var result SearchResult
		err := rows.Scan(
			&result.ID,
			&result.Title,
			&result.Source,
			&result.Content,
			&result.Similarity,
		)

		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return results, nil
}
