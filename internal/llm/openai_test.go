package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOpenAITestEmbedder(t *testing.T, handler http.HandlerFunc) *OpenAIEmbedder {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	embedder := NewOpenAIEmbedder(OpenAIConfig{APIKey: "test-key"})
	embedder.baseURL = server.URL

	return embedder
}

func TestGenerateEmbeddings_Success(t *testing.T) {
	var gotRequest embeddingRequest
	var gotAuth string

	embedder := newOpenAITestEmbedder(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")

		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotRequest))

		// returned out of order, the index field restores ordering
		w.Write([]byte(`{
			"object": "list",
			"data": [
				{"object": "embedding", "index": 1, "embedding": [0.4, 0.5, 0.6]},
				{"object": "embedding", "index": 0, "embedding": [0.1, 0.2, 0.3]}
			],
			"model": "text-embedding-3-small",
			"usage": {"prompt_tokens": 8, "total_tokens": 8}
		}`)) //nolint:errcheck // test server
	})

	embeddings, err := embedder.GenerateEmbeddings(context.Background(), []string{"first text", "second text"})

	require.NoError(t, err)
	require.Len(t, embeddings, 2)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, embeddings[0])
	assert.Equal(t, []float32{0.4, 0.5, 0.6}, embeddings[1])

	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, defaultOpenAIModel, gotRequest.Model)
	assert.Equal(t, []string{"first text", "second text"}, gotRequest.Input)
	assert.Equal(t, "float", gotRequest.Encoding)
}

func TestGenerateEmbedding_Single(t *testing.T) {
	embedder := newOpenAITestEmbedder(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": [{"index": 0, "embedding": [0.7, 0.8]}]}`)) //nolint:errcheck // test server
	})

	embedding, err := embedder.GenerateEmbedding(context.Background(), "single text")

	require.NoError(t, err)
	assert.Equal(t, []float32{0.7, 0.8}, embedding)
}

func TestGenerateEmbeddings_EmptyInput(t *testing.T) {
	embedder := NewOpenAIEmbedder(OpenAIConfig{APIKey: "test-key"})

	_, err := embedder.GenerateEmbeddings(context.Background(), nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no texts")
}

func TestGenerateEmbeddings_APIError(t *testing.T) {
	embedder := newOpenAITestEmbedder(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": {"message": "invalid api key"}}`)) //nolint:errcheck // test server
	})

	_, err := embedder.GenerateEmbeddings(context.Background(), []string{"text"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
