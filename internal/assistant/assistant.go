package assistant

import (
	"context"
	"fmt"

	"github.com/careassist/server/internal/llm"
	"github.com/careassist/server/internal/logger"
	"github.com/careassist/server/internal/memory"
)

const (
	// passages requested from the vector store per question
	localTopK = 3

	// fewer local hits than this triggers the web fallback; a cheap proxy for
	// "local corpus coverage is probably insufficient"
	minLocalResults = 2

	// web results requested when the fallback fires
	webResultCount = 5
)

// returned verbatim when both sources come back empty; the model is never
// called without context
const RefusalMessage = "I'm sorry, but I do not have enough information from " +
	"the available sources to answer your question. Please consult a qualified " +
	"health professional for guidance."

// creates an assistant over the given retrieval and generation clients
func New(ret Retriever, web WebSearcher, generator llm.TextGenerator) *Assistant {
	return &Assistant{
		retriever: ret,
		websearch: web,
		generator: generator,
	}
}

// Answer runs the full pipeline for one question: retrieve (with web
// fallback), compose, call the model, record the exchange. The window is owned
// by the caller's session and must already be locked for this request.
//
// A refusal is recorded to the window like any other answer so follow-up
// questions see a self-consistent history. On ErrRetrievalUnavailable or
// ErrModelUnavailable the window is left untouched.
func (a *Assistant) Answer(ctx context.Context, window *memory.Window, question string) (*AnswerResponse, error) {
	items, err := a.retrieve(ctx, question)
	if err != nil {
		return nil, err
	}

	if len(items) == 0 {
		window.Append(question, RefusalMessage)

		return &AnswerResponse{
			Answer:  RefusalMessage,
			Refused: true,
		}, nil
	}

	history := memory.RenderHistory(window.Turns())
	bundle := composePrompt(question, history, items)

	resp, err := a.generator.GenerateText(ctx, llm.TextGenerationRequest{
		SystemPrompt: bundle.SystemInstruction,
		Messages: []llm.Message{
			{Role: "user", Content: bundle.UserMessage},
		},
	})

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}

	window.Append(question, resp.Text)

	return &AnswerResponse{
		Answer:  resp.Text,
		Model:   a.generator.Model(),
		Sources: sourceReferences(items),
		Usage:   resp.Usage,
	}, nil
}

// retrieve queries the vector store and escalates to web search when local
// coverage is thin. Local results always come first in the merged sequence;
// web results supplement, never replace, partial local matches.
func (a *Assistant) retrieve(ctx context.Context, question string) ([]RetrievedItem, error) {
	local, err := a.retriever.Search(ctx, question, localTopK)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRetrievalUnavailable, err)
	}

	items := make([]RetrievedItem, 0, len(local)+webResultCount)

	for _, r := range local {
		items = append(items, RetrievedItem{
			Source: SourceLocal,
			Title:  r.Title,
			Text:   r.Content,
		})
	}

	if len(local) < minLocalResults {
		webResults, err := a.websearch.Search(ctx, question, webResultCount)
		if err != nil {
			// a degraded web search must not abort the request; the worst
			// outcome is a less-grounded answer
			logger.ErrorErr(err, "web search failed, continuing with local context only")

			webResults = nil
		}

		for _, r := range webResults {
			items = append(items, RetrievedItem{
				Source: SourceWeb,
				Title:  r.Title,
				Text:   r.Snippet,
				Link:   r.Link,
			})
		}
	}

	return items, nil
}

// builds source references for client display, merge order preserved
func sourceReferences(items []RetrievedItem) []SourceReference {
	refs := make([]SourceReference, 0, len(items))

	for _, item := range items {
		refs = append(refs, SourceReference{
			Kind:  item.Source,
			Title: item.Title,
			Link:  item.Link,
		})
	}

	return refs
}
