package assistant

import "errors"

var (
	// the vector store could not be queried; fatal for the request, distinct
	// from "no relevant documents found"
	ErrRetrievalUnavailable = errors.New("retrieval unavailable")

	// the language model call failed; fatal for the request
	ErrModelUnavailable = errors.New("model unavailable")
)
