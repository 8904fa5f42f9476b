package chunker

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/careassist/server/internal/logger"
)

func DefaultOptions() ChunkOptions {
	return ChunkOptions{
		MaxTokens:       800,
		PreserveHeaders: true,
	}
}

// ChunkDocument splits one health document into embedding-sized chunks.
// Markdown documents are split along headers; plain text is treated as a
// single untitled section. The source is recorded on every chunk so
// answers can cite where the text came from.
func ChunkDocument(content, source string, opts ChunkOptions) ([]Chunk, error) {
	title := extractTitle(content, source)
	content = frontmatterRegex.ReplaceAllString(content, "")

	sections := splitByHeaders(content)

	var chunks []Chunk

	for _, section := range sections {
		sectionTitle := title
		if section.Title != "" && section.Title != title {
			sectionTitle = fmt.Sprintf("%s - %s", title, section.Title)
		}

		if estimateTokens(section.Content) <= opts.MaxTokens {
			chunks = append(chunks, Chunk{
				Title:   sectionTitle,
				Source:  source,
				Content: strings.TrimSpace(section.Content),
			})

			continue
		}

		subChunks := splitLargeSection(section, opts)

		for _, subChunk := range subChunks {
			chunks = append(chunks, Chunk{
				Title:   sectionTitle,
				Source:  source,
				Content: strings.TrimSpace(subChunk),
			})
		}
	}

	return chunks, nil
}

// discovers all markdown and plain text files in a directory and chunks them
// returns chunks and a slice of errors encountered (one per failed file)
func ChunkDocuments(docsPath string) ([]Chunk, []error) {
	opts := DefaultOptions()
	var allChunks []Chunk
	var errors []error
	fileCount := 0

	// walk the directory tree to find all document files
	walkErr := filepath.Walk(docsPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			logger.Warn("error accessing path",
				"path", path,
				"error", err,
			)
			errors = append(errors, fmt.Errorf("path %s: %w", path, err))
			return nil // continue walking
		}

		if info.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".md" && ext != ".txt" {
			return nil
		}

		fileCount++

		content, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("failed to read file",
				"path", path,
				"error", err,
			)
			errors = append(errors, fmt.Errorf("read %s: %w", path, err))
			return nil // continue with other files
		}

		source, err := filepath.Rel(docsPath, path)
		if err != nil {
			source = filepath.Base(path)
		}

		chunks, err := ChunkDocument(string(content), source, opts)
		if err != nil {
			logger.Warn("failed to chunk document",
				"path", path,
				"error", err,
			)
			errors = append(errors, fmt.Errorf("chunk %s: %w", path, err))
			return nil // continue with other files
		}

		allChunks = append(allChunks, chunks...)

		return nil
	})

	if walkErr != nil {
		errors = append(errors, fmt.Errorf("walk error: %w", walkErr))
	}

	logger.Info("processed document files",
		"file_count", fileCount,
		"chunks_generated", len(allChunks),
		"errors", len(errors),
	)

	return allChunks, errors
}
