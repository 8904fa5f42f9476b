package chat

import "github.com/careassist/server/internal/assistant"

// AnswerRequest asks a question within an existing session.
type AnswerRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Question  string `json:"question" binding:"required"`
}

// AnswerResponse carries the generated answer and its supporting sources.
type AnswerResponse struct {
	Answer  string                      `json:"answer"`
	Refused bool                        `json:"refused"`
	Model   string                      `json:"model,omitempty"`
	Sources []assistant.SourceReference `json:"sources,omitempty"`
}

// CreateSessionResponse returns the ID of a freshly created session.
type CreateSessionResponse struct {
	SessionID string `json:"session_id"`
}

// ResetRequest clears a session's conversation history.
type ResetRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}

// ResetResponse acknowledges a cleared session.
type ResetResponse struct {
	SessionID string `json:"session_id"`
	Cleared   bool   `json:"cleared"`
}
