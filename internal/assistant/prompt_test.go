package assistant

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposePrompt_SectionOrder(t *testing.T) {
	items := []RetrievedItem{
		{Source: SourceLocal, Title: "Aspirin", Text: "aspirin basics"},
	}

	bundle := composePrompt("current question", "User: prior\nAssistant: reply\n", items)

	prompt := bundle.UserMessage
	historyIdx := strings.Index(prompt, "### Chat History (Last 5 exchanges):")
	questionIdx := strings.Index(prompt, "### Current User Question:")
	contextIdx := strings.Index(prompt, "### Context (Local Documents + Web Search):")
	answerIdx := strings.Index(prompt, "Answer:")

	require.NotEqual(t, -1, historyIdx)
	require.NotEqual(t, -1, questionIdx)
	require.NotEqual(t, -1, contextIdx)
	require.NotEqual(t, -1, answerIdx)

	assert.Less(t, historyIdx, questionIdx)
	assert.Less(t, questionIdx, contextIdx)
	assert.Less(t, contextIdx, answerIdx)

	assert.Contains(t, prompt, "User: prior")
	assert.Contains(t, prompt, "current question")
	assert.Equal(t, systemInstruction, bundle.SystemInstruction)
}

func TestRenderItem_LocalOmitsLink(t *testing.T) {
	rendered := renderItem(RetrievedItem{
		Source: SourceLocal,
		Title:  "Fever Management",
		Text:   "rest and fluids",
	})

	assert.Equal(t, "Source: Local\nTitle: Fever Management\nText: rest and fluids", rendered)
	assert.NotContains(t, rendered, "Link:")
}

func TestRenderItem_WebIncludesLink(t *testing.T) {
	rendered := renderItem(RetrievedItem{
		Source: SourceWeb,
		Title:  "CDC Flu Page",
		Text:   "flu season guidance",
		Link:   "https://cdc.gov/flu",
	})

	assert.Equal(t,
		"Source: Web\nTitle: CDC Flu Page\nSnippet: flu season guidance\nLink: https://cdc.gov/flu",
		rendered)
}

func TestRenderContext_SeparatorBetweenBlocks(t *testing.T) {
	items := []RetrievedItem{
		{Source: SourceLocal, Title: "A", Text: "first"},
		{Source: SourceWeb, Title: "B", Text: "second", Link: "https://example.com"},
	}

	rendered := renderContext(items)

	blocks := strings.Split(rendered, contextSeparator)
	require.Len(t, blocks, 2)
	assert.True(t, strings.HasPrefix(blocks[0], "Source: Local"))
	assert.True(t, strings.HasPrefix(blocks[1], "Source: Web"))
}

func TestRenderContext_Empty(t *testing.T) {
	assert.Equal(t, "", renderContext(nil))
}
