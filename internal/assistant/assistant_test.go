package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/careassist/server/internal/llm"
	"github.com/careassist/server/internal/memory"
	"github.com/careassist/server/internal/retriever"
	"github.com/careassist/server/internal/websearch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// implements Retriever for testing
type mockRetriever struct {
	searchFunc func(ctx context.Context, query string, k int) ([]retriever.SearchResult, error)
	calls      int
	lastQuery  string
	lastK      int
}

func (m *mockRetriever) Search(ctx context.Context, query string, k int) ([]retriever.SearchResult, error) {
	m.calls++
	m.lastQuery = query
	m.lastK = k

	if m.searchFunc != nil {
		return m.searchFunc(ctx, query, k)
	}

	return nil, nil
}

// implements WebSearcher for testing
type mockWebSearcher struct {
	searchFunc func(ctx context.Context, query string, count int) ([]websearch.Result, error)
	calls      int
	lastQuery  string
	lastCount  int
}

func (m *mockWebSearcher) Search(ctx context.Context, query string, count int) ([]websearch.Result, error) {
	m.calls++
	m.lastQuery = query
	m.lastCount = count

	if m.searchFunc != nil {
		return m.searchFunc(ctx, query, count)
	}

	return nil, nil
}

// implements llm.TextGenerator for testing
type mockGenerator struct {
	generateFunc func(ctx context.Context, req llm.TextGenerationRequest) (*llm.TextGenerationResponse, error)
	calls        int
	lastRequest  llm.TextGenerationRequest
}

func (m *mockGenerator) GenerateText(ctx context.Context, req llm.TextGenerationRequest) (*llm.TextGenerationResponse, error) {
	m.calls++
	m.lastRequest = req

	if m.generateFunc != nil {
		return m.generateFunc(ctx, req)
	}

	return &llm.TextGenerationResponse{Text: "mock answer"}, nil
}

func (m *mockGenerator) Model() string {
	return "mock-model"
}

func localResults(n int) []retriever.SearchResult {
	results := make([]retriever.SearchResult, n)

	for i := range results {
		results[i] = retriever.SearchResult{
			Title:      fmt.Sprintf("Local Doc %d", i+1),
			Source:     fmt.Sprintf("doc-%d.md", i+1),
			Content:    fmt.Sprintf("local passage %d", i+1),
			Similarity: 0.9,
		}
	}

	return results
}

func webResults(n int) []websearch.Result {
	results := make([]websearch.Result, n)

	for i := range results {
		results[i] = websearch.Result{
			Title:   fmt.Sprintf("Web Result %d", i+1),
			Snippet: fmt.Sprintf("web snippet %d", i+1),
			Link:    fmt.Sprintf("https://example.com/%d", i+1),
		}
	}

	return results
}

func TestAnswer_SufficientLocalSkipsWeb(t *testing.T) {
	ret := &mockRetriever{searchFunc: func(_ context.Context, _ string, _ int) ([]retriever.SearchResult, error) {
		return localResults(3), nil
	}}
	web := &mockWebSearcher{}
	gen := &mockGenerator{}

	a := New(ret, web, gen)
	window := memory.NewWindow(memory.DefaultExchanges)

	resp, err := a.Answer(context.Background(), window, "Is aspirin safe for children?")

	require.NoError(t, err)
	assert.False(t, resp.Refused)
	assert.Equal(t, "mock answer", resp.Answer)
	assert.Equal(t, "mock-model", resp.Model)

	assert.Equal(t, 1, ret.calls)
	assert.Equal(t, localTopK, ret.lastK)
	assert.Equal(t, 0, web.calls, "web search must not fire when local coverage is sufficient")
	assert.Equal(t, 1, gen.calls)

	// all three passages appear as local context blocks
	prompt := gen.lastRequest.Messages[0].Content
	assert.Equal(t, 3, strings.Count(prompt, "Source: Local"))
	assert.Equal(t, 0, strings.Count(prompt, "Source: Web"))

	// exchange recorded
	require.Equal(t, 2, window.Len())
	turns := window.Turns()
	assert.Equal(t, "Is aspirin safe for children?", turns[0].Text)
	assert.Equal(t, "mock answer", turns[1].Text)
}

func TestAnswer_ThinLocalTriggersWebFallback(t *testing.T) {
	for _, localCount := range []int{0, 1} {
		t.Run(fmt.Sprintf("local_%d", localCount), func(t *testing.T) {
			ret := &mockRetriever{searchFunc: func(_ context.Context, _ string, _ int) ([]retriever.SearchResult, error) {
				return localResults(localCount), nil
			}}
			web := &mockWebSearcher{searchFunc: func(_ context.Context, _ string, _ int) ([]websearch.Result, error) {
				return webResults(2), nil
			}}
			gen := &mockGenerator{}

			a := New(ret, web, gen)
			window := memory.NewWindow(memory.DefaultExchanges)

			resp, err := a.Answer(context.Background(), window, "What are flu symptoms?")

			require.NoError(t, err)
			assert.False(t, resp.Refused)

			assert.Equal(t, 1, web.calls, "exactly one web search per request")
			assert.Equal(t, "What are flu symptoms?", web.lastQuery, "fallback uses the original question verbatim")
			assert.Equal(t, webResultCount, web.lastCount)

			prompt := gen.lastRequest.Messages[0].Content
			assert.Equal(t, localCount, strings.Count(prompt, "Source: Local"))
			assert.Equal(t, 2, strings.Count(prompt, "Source: Web"))
		})
	}
}

func TestAnswer_MergeOrderLocalFirst(t *testing.T) {
	ret := &mockRetriever{searchFunc: func(_ context.Context, _ string, _ int) ([]retriever.SearchResult, error) {
		return localResults(1), nil
	}}
	web := &mockWebSearcher{searchFunc: func(_ context.Context, _ string, _ int) ([]websearch.Result, error) {
		return webResults(2), nil
	}}
	gen := &mockGenerator{}

	a := New(ret, web, gen)
	window := memory.NewWindow(memory.DefaultExchanges)

	resp, err := a.Answer(context.Background(), window, "question")

	require.NoError(t, err)
	require.Len(t, resp.Sources, 3)
	assert.Equal(t, SourceLocal, resp.Sources[0].Kind)
	assert.Equal(t, SourceWeb, resp.Sources[1].Kind)
	assert.Equal(t, SourceWeb, resp.Sources[2].Kind)

	// prompt context reflects the same order
	prompt := gen.lastRequest.Messages[0].Content
	localIdx := strings.Index(prompt, "Source: Local")
	webIdx := strings.Index(prompt, "Source: Web")
	require.NotEqual(t, -1, localIdx)
	require.NotEqual(t, -1, webIdx)
	assert.Less(t, localIdx, webIdx)
}

func TestAnswer_EmptyContextRefusesWithoutModelCall(t *testing.T) {
	ret := &mockRetriever{}
	web := &mockWebSearcher{}
	gen := &mockGenerator{}

	a := New(ret, web, gen)
	window := memory.NewWindow(memory.DefaultExchanges)

	resp, err := a.Answer(context.Background(), window, "What is the dosage?")

	require.NoError(t, err)
	assert.True(t, resp.Refused)
	assert.Equal(t, RefusalMessage, resp.Answer)
	assert.Empty(t, resp.Sources)
	assert.Equal(t, 0, gen.calls, "model must never be called with empty context")

	// the refusal still becomes part of the conversation history
	require.Equal(t, 2, window.Len())
	assert.Equal(t, RefusalMessage, window.Turns()[1].Text)
}

func TestAnswer_WebFailureIsSwallowed(t *testing.T) {
	ret := &mockRetriever{searchFunc: func(_ context.Context, _ string, _ int) ([]retriever.SearchResult, error) {
		return localResults(1), nil
	}}
	web := &mockWebSearcher{searchFunc: func(_ context.Context, _ string, _ int) ([]websearch.Result, error) {
		return nil, errors.New("search quota exceeded")
	}}
	gen := &mockGenerator{}

	a := New(ret, web, gen)
	window := memory.NewWindow(memory.DefaultExchanges)

	resp, err := a.Answer(context.Background(), window, "question")

	require.NoError(t, err)
	assert.False(t, resp.Refused)
	assert.Equal(t, 1, web.calls)
	assert.Equal(t, 1, gen.calls, "answer proceeds on local context alone")
	require.Len(t, resp.Sources, 1)
	assert.Equal(t, SourceLocal, resp.Sources[0].Kind)
}

func TestAnswer_WebFailureWithNoLocalRefuses(t *testing.T) {
	ret := &mockRetriever{}
	web := &mockWebSearcher{searchFunc: func(_ context.Context, _ string, _ int) ([]websearch.Result, error) {
		return nil, errors.New("search down")
	}}
	gen := &mockGenerator{}

	a := New(ret, web, gen)
	window := memory.NewWindow(memory.DefaultExchanges)

	resp, err := a.Answer(context.Background(), window, "question")

	require.NoError(t, err)
	assert.True(t, resp.Refused)
	assert.Equal(t, 0, gen.calls)
}

func TestAnswer_RetrievalFailureIsFatal(t *testing.T) {
	ret := &mockRetriever{searchFunc: func(_ context.Context, _ string, _ int) ([]retriever.SearchResult, error) {
		return nil, errors.New("connection refused")
	}}
	web := &mockWebSearcher{}
	gen := &mockGenerator{}

	a := New(ret, web, gen)
	window := memory.NewWindow(memory.DefaultExchanges)

	resp, err := a.Answer(context.Background(), window, "question")

	require.Error(t, err)
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrRetrievalUnavailable)
	assert.Equal(t, 0, web.calls)
	assert.Equal(t, 0, gen.calls)
	assert.Equal(t, 0, window.Len(), "window untouched on fatal errors")
}

func TestAnswer_ModelFailureLeavesWindowUntouched(t *testing.T) {
	ret := &mockRetriever{searchFunc: func(_ context.Context, _ string, _ int) ([]retriever.SearchResult, error) {
		return localResults(2), nil
	}}
	web := &mockWebSearcher{}
	gen := &mockGenerator{generateFunc: func(_ context.Context, _ llm.TextGenerationRequest) (*llm.TextGenerationResponse, error) {
		return nil, errors.New("rate limited")
	}}

	a := New(ret, web, gen)
	window := memory.NewWindow(memory.DefaultExchanges)
	window.Append("earlier question", "earlier answer")

	resp, err := a.Answer(context.Background(), window, "question")

	require.Error(t, err)
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrModelUnavailable)
	assert.Equal(t, 2, window.Len(), "failed exchange must not be recorded")
}

func TestAnswer_HistoryFlowsIntoPrompt(t *testing.T) {
	ret := &mockRetriever{searchFunc: func(_ context.Context, _ string, _ int) ([]retriever.SearchResult, error) {
		return localResults(2), nil
	}}
	web := &mockWebSearcher{}
	gen := &mockGenerator{}

	a := New(ret, web, gen)
	window := memory.NewWindow(memory.DefaultExchanges)
	window.Append("what is ibuprofen", "ibuprofen is an anti-inflammatory")

	_, err := a.Answer(context.Background(), window, "can I take it with food?")

	require.NoError(t, err)

	prompt := gen.lastRequest.Messages[0].Content
	assert.Contains(t, prompt, "User: what is ibuprofen")
	assert.Contains(t, prompt, "Assistant: ibuprofen is an anti-inflammatory")
	assert.Contains(t, prompt, "can I take it with food?")
	assert.Equal(t, systemInstruction, gen.lastRequest.SystemPrompt)
}

func TestAnswer_UsagePropagated(t *testing.T) {
	ret := &mockRetriever{searchFunc: func(_ context.Context, _ string, _ int) ([]retriever.SearchResult, error) {
		return localResults(3), nil
	}}
	gen := &mockGenerator{generateFunc: func(_ context.Context, _ llm.TextGenerationRequest) (*llm.TextGenerationResponse, error) {
		return &llm.TextGenerationResponse{
			Text:  "answer",
			Usage: llm.Usage{InputTokens: 120, OutputTokens: 45},
		}, nil
	}}

	a := New(ret, &mockWebSearcher{}, gen)
	window := memory.NewWindow(memory.DefaultExchanges)

	resp, err := a.Answer(context.Background(), window, "question")

	require.NoError(t, err)
	assert.Equal(t, 120, resp.Usage.InputTokens)
	assert.Equal(t, 45, resp.Usage.OutputTokens)
}
