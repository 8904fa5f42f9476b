package chunker

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	frontmatterRegex = regexp.MustCompile(`(?s)^---\n(.*?)\n---\n`)
	headerRegex      = regexp.MustCompile(`(?m)^(#{1,6})\s+(.+)$`)
)

func splitByHeaders(content string) []Section {
	lines := strings.Split(content, "\n")

	var sections []Section
	var currentSection *Section

	for _, line := range lines {
		matches := headerRegex.FindStringSubmatch(line)

		if len(matches) > 0 {
			if currentSection != nil && strings.TrimSpace(currentSection.Content) != "" {
				sections = append(sections, *currentSection)
			}

			level := len(matches[1])
			title := strings.TrimSpace(matches[2])
			currentSection = &Section{
				Title:   title,
				Level:   level,
				Content: line + "\n",
			}
		} else if currentSection != nil {
			currentSection.Content += line + "\n"
		} else {
			// content before any header - create an untitled section
			currentSection = &Section{
				Title:   "",
				Level:   0,
				Content: line + "\n",
			}
		}
	}

	if currentSection != nil && strings.TrimSpace(currentSection.Content) != "" {
		sections = append(sections, *currentSection)
	}

	return sections
}

func splitLargeSection(section Section, opts ChunkOptions) []string {
	var chunks []string
	paragraphs := strings.Split(section.Content, "\n\n")

	var currentChunk strings.Builder
	headerWritten := false

	for _, para := range paragraphs {
		para = strings.TrimSpace(para)

		if para == "" {
			continue
		}

		testContent := currentChunk.String() + "\n\n" + para

		if estimateTokens(testContent) > opts.MaxTokens && currentChunk.Len() > 0 {
			chunks = append(chunks, strings.TrimSpace(currentChunk.String()))
			currentChunk.Reset()
			headerWritten = false
		}

		if !headerWritten && opts.PreserveHeaders && section.Title != "" {
			headerPrefix := strings.Repeat("#", section.Level)
			currentChunk.WriteString(fmt.Sprintf("%s %s\n\n", headerPrefix, section.Title))
			headerWritten = true
		}

		if currentChunk.Len() > 0 {
			currentChunk.WriteString("\n\n")
		}

		currentChunk.WriteString(para)
	}

	if currentChunk.Len() > 0 {
		chunks = append(chunks, strings.TrimSpace(currentChunk.String()))
	}

	return chunks
}

func estimateTokens(text string) int {
	return len(text) / 4
}

// extractTitle returns the document title from frontmatter, the first
// top-level header, or the file name as a last resort.
func extractTitle(content, source string) string {
	matches := frontmatterRegex.FindStringSubmatch(content)
	if len(matches) >= 2 {
		for _, line := range strings.Split(matches[1], "\n") {
			parts := strings.SplitN(line, ":", 2)
			if len(parts) == 2 && strings.TrimSpace(parts[0]) == "title" {
				return strings.TrimSpace(parts[1])
			}
		}
	}

	for _, line := range strings.Split(content, "\n") {
		matches := headerRegex.FindStringSubmatch(line)
		if len(matches) > 0 && len(matches[1]) == 1 {
			return strings.TrimSpace(matches[2])
		}
	}

	name := filepath.Base(source)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.ReplaceAll(name, "-", " ")
	name = strings.ReplaceAll(name, "_", " ")

	return name
}
