package retriever

import (
	"github.com/careassist/server/internal/llm"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Client performs similarity search over the indexed document chunks.
type Client struct {
	pool     *pgxpool.Pool
	embedder llm.Embedder
	topK     int
}

// SearchResult is one indexed passage returned by vector search.
type SearchResult struct {
	ID         string
	Title      string  // document title the chunk came from
	Source     string  // file or collection identifier
	Content    string  // chunk text
	Similarity float32 // cosine similarity, higher is closer
}

// RetrieverConfig holds connection and search settings.
type RetrieverConfig struct {
	DBConnString string
	TopK         int
}
