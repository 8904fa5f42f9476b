package assistant

import (
	"fmt"
	"strings"
)

// PromptBundle pairs the fixed system instruction with the per-turn user
// message. Built fresh per request, never retained.
type PromptBundle struct {
	SystemInstruction string
	UserMessage       string
}

// process-wide system instruction; the persona, permitted evidence sources,
// and mandatory behaviors never vary per request
const systemInstruction = `You are CareAssist, a health information assistant.

Your scope is general health information. You answer using exactly two kinds of evidence:
1. Passages from a curated collection of local health documents (labeled "Source: Local").
2. Web search results (labeled "Source: Web").

Mandatory behaviors:
- Ground every claim in the provided context and cite its source whenever possible.
- Never present yourself as a diagnostic authority; you do not diagnose, prescribe, or replace medical advice.
- If the context does not cover the question, say so rather than guessing.
- Always close your answer with a disclaimer urging the user to consult a qualified health professional.`

const contextSeparator = "\n\n---\n\n"

// composePrompt builds the per-turn prompt. Section order is fixed: history,
// current question, context, instruction suffix.
func composePrompt(query, history string, items []RetrievedItem) PromptBundle {
	var builder strings.Builder

	builder.WriteString("### Chat History (Last 5 exchanges):\n")
	builder.WriteString(history)
	builder.WriteString("\n### Current User Question:\n")
	builder.WriteString(query)
	builder.WriteString("\n\n### Context (Local Documents + Web Search):\n")
	builder.WriteString(renderContext(items))
	builder.WriteString("\n\n")
	builder.WriteString("Answer only the current question using the context and history. ")
	builder.WriteString("Be professional, clear, and cite sources. ")
	builder.WriteString("End with a reminder to consult a doctor.\n")
	builder.WriteString("Answer:")

	return PromptBundle{
		SystemInstruction: systemInstruction,
		UserMessage:       builder.String(),
	}
}

// renderContext turns retrieved items into labeled blocks, preserving the
// orchestrator's merge order
func renderContext(items []RetrievedItem) string {
	blocks := make([]string, 0, len(items))

	for _, item := range items {
		blocks = append(blocks, renderItem(item))
	}

	return strings.Join(blocks, contextSeparator)
}

// every item reduces to a renderable text block with a labeled source; the
// link line is omitted for local documents
func renderItem(item RetrievedItem) string {
	if item.Source == SourceWeb {
		return fmt.Sprintf("Source: Web\nTitle: %s\nSnippet: %s\nLink: %s",
			item.Title, item.Text, item.Link)
	}

	return fmt.Sprintf("Source: Local\nTitle: %s\nText: %s", item.Title, item.Text)
}
