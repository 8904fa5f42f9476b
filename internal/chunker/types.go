package chunker

// Chunk is a unit of document text ready for embedding.
type Chunk struct {
	Title   string
	Source  string
	Content string
}

// Section is an intermediate header-delimited slice of a document.
type Section struct {
	Title   string
	Level   int
	Content string
}

// ChunkOptions controls how documents are split.
type ChunkOptions struct {
	MaxTokens       int
	PreserveHeaders bool
}
