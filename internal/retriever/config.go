package retriever

import (
	"fmt"
	"os"
	"strconv"
)

// default number of passages fetched per query; a policy knob, not an
// architectural necessity
const defaultTopK = 3

// loadRetrieverConfig loads configuration from environment variables
func loadRetrieverConfig() (*RetrieverConfig, error) {
	dbConnString := os.Getenv("DATABASE_URL")
	if dbConnString == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	topK := defaultTopK
	if topKStr := os.Getenv("RETRIEVAL_TOP_K"); topKStr != "" {
		if val, err := strconv.Atoi(topKStr); err == nil {
			topK = val
		}
	}

	return &RetrieverConfig{
		DBConnString: dbConnString,
		TopK:         topK,
	}, nil
}
