package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"
)

// represents the current state of the TUI
type AppState int

const (
	StateWelcome AppState = iota
	StateChat
)

// main TUI application model
type Model struct {
	state   AppState
	mode    string
	width   int
	height  int
	err     error
	welcome *Welcome
	chat    *ChatModel
}

// sent when an error occurs
type ErrorMsg struct {
	err error
}

// sent to transition to the chat state
type EnterChatMsg struct{}

// sent when the server starts
type ServerStartedMsg struct{}

// sent when the ingester completes
type IngesterCompleteMsg struct{}

// a single line of the visible conversation transcript
type ChatLine struct {
	Role    string
	Content string
	Sources []SourceRef
}

// a cited source attached to an answer
type SourceRef struct {
	Kind  string `json:"kind"`
	Title string `json:"title"`
	Link  string `json:"link,omitempty"`
}

// interactive chat interface
type ChatModel struct {
	input              textinput.Model
	viewport           viewport.Model
	spinner            spinner.Model
	glamourRenderer    *glamour.TermRenderer
	client             *APIClient
	sessionID          string
	transcript         []ChatLine
	width              int
	height             int
	isFetching         bool
	ready              bool
	shouldScrollBottom bool
}

// sent when a session has been created on the server
type SessionCreatedMsg struct {
	sessionID string
}

// sent when the server returns an answer
type AnswerReceivedMsg struct {
	question string
	answer   string
	refused  bool
	model    string
	sources  []SourceRef
}

// sent when the server confirms a cleared session
type SessionResetMsg struct{}

// sent when a chat request fails
type ChatErrorMsg struct {
	question string
	err      error
}

// timeout for answer requests, generation can be slow
const answerRequestTimeout = 90 * time.Second
