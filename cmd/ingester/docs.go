package main

import (
	"context"
	"fmt"

	"github.com/careassist/server/internal/chunker"
	"github.com/careassist/server/internal/config"
	"github.com/careassist/server/internal/llm"
	"github.com/careassist/server/internal/logger"
	"github.com/careassist/server/internal/retriever"
	"github.com/jackc/pgx/v5/pgxpool"
)

// chunks and embeds health documents from the specified path
func IngestDocs(cfg *config.Config, db *pgxpool.Pool, flags config.Flags) error {
	ctx := context.Background()
	logger.Info("starting docs ingestion", "path", flags.Path, "clear", flags.Clear)

	embedder := llm.NewOpenAIEmbedder(llm.OpenAIConfig{
		APIKey: cfg.OpenAIKey,
	})

	// reuse the shared connection pool
	store := retriever.New(db, embedder)

	// clear existing docs if requested
	if flags.Clear {
		logger.Info("clearing existing document chunks")

		if err := store.ClearAllChunks(ctx); err != nil {
			return fmt.Errorf("failed to clear existing chunks: %w", err)
		}

		logger.Info("cleared existing chunks")
	}

	// chunk all document files in directory
	logger.Info("chunking document files", "path", flags.Path)
	chunks, errors := chunker.ChunkDocuments(flags.Path)

	if len(errors) > 0 {
		logger.Warn("encountered errors while chunking", "error_count", len(errors))

		for _, err := range errors {
			logger.Warn("chunking error", "error", err)
		}
	}

	if len(chunks) == 0 {
		return fmt.Errorf("no chunks generated from documents")
	}

	logger.Info("generated chunks", "count", len(chunks))

	// generate embeddings for all chunks
	logger.Info("generating embeddings for chunks")
	texts := make([]string, len(chunks))

	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}

	embeddings, err := embedder.GenerateEmbeddings(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings: %w", err)
	}

	logger.Info("generated embeddings", "count", len(embeddings))

	// insert chunks with embeddings into database
	logger.Info("inserting chunks into database")
	if err := store.InsertChunksBatch(ctx, chunks, embeddings); err != nil {
		return fmt.Errorf("failed to insert chunks: %w", err)
	}

	// verify insertion
	count, err := store.ChunkCount(ctx)
	if err != nil {
		return fmt.Errorf("failed to verify chunk count: %w", err)
	}

	logger.Info("successfully ingested documents",
		"chunks_inserted", len(chunks),
		"total_chunks", count,
	)

	return nil
}
