package assistant

import (
	"context"

	"github.com/careassist/server/internal/llm"
	"github.com/careassist/server/internal/retriever"
	"github.com/careassist/server/internal/websearch"
)

// interface for local passage retrieval (vector store boundary)
type Retriever interface {
	Search(ctx context.Context, query string, k int) ([]retriever.SearchResult, error)
}

// interface for web search fallback (provider boundary)
type WebSearcher interface {
	Search(ctx context.Context, query string, count int) ([]websearch.Result, error)
}

// origin of a retrieved item
type SourceKind string

const (
	SourceLocal SourceKind = "local"
	SourceWeb   SourceKind = "web"
)

// RetrievedItem is the single normalized result unit, constructed at the
// provider boundary so nothing downstream inspects provider types. Built per
// query and discarded after prompt assembly.
type RetrievedItem struct {
	Source SourceKind
	Title  string
	Text   string // passage content or web snippet
	Link   string // web results only
}

// Assistant orchestrates retrieval, prompt composition, and model calls.
type Assistant struct {
	retriever Retriever
	websearch WebSearcher
	generator llm.TextGenerator
}

// SourceReference describes one context source for client display.
type SourceReference struct {
	Kind  SourceKind `json:"kind"`
	Title string     `json:"title,omitempty"`
	Link  string     `json:"link,omitempty"`
}

// AnswerResponse contains the answer and retrieval metadata for one question.
type AnswerResponse struct {
	Answer  string
	Refused bool // true when context was empty and the model was never called
	Model   string
	Sources []SourceReference
	Usage   llm.Usage
}
