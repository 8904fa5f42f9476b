package tui

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	tea "github.com/charmbracelet/bubbletea"
)

// manages HTTP requests to the careassist REST API
type APIClient struct {
	endpoint   string
	httpClient *http.Client
}

// creates a new REST client
func NewAPIClient() *APIClient {
	endpoint := os.Getenv("CAREASSIST_API_ENDPOINT")
	if endpoint == "" {
		endpoint = "http://localhost:8080"
	}

	return &APIClient{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: answerRequestTimeout,
		},
	}
}

// creates a new conversation session on the server
func (c *APIClient) CreateSession(ctx context.Context) (string, error) {
	var result createSessionResponse

	if err := c.post(ctx, "/api/v1/chat/sessions", nil, &result); err != nil {
		return "", err
	}

	if result.SessionID == "" {
		return "", fmt.Errorf("server returned empty session id")
	}

	return result.SessionID, nil
}

// asks a question within an existing session
func (c *APIClient) Answer(ctx context.Context, sessionID, question string) (*AnswerReceivedMsg, error) {
	payload := answerRequest{
		SessionID: sessionID,
		Question:  question,
	}

	var result answerResponse

	if err := c.post(ctx, "/api/v1/chat/answer", payload, &result); err != nil {
		return nil, err
	}

	return &AnswerReceivedMsg{
		question: question,
		answer:   result.Answer,
		refused:  result.Refused,
		model:    result.Model,
		sources:  result.Sources,
	}, nil
}

// clears the conversation history of a session
func (c *APIClient) Reset(ctx context.Context, sessionID string) error {
	payload := resetRequest{SessionID: sessionID}

	var result resetResponse

	return c.post(ctx, "/api/v1/chat/reset", payload, &result)
}

func (c *APIClient) post(ctx context.Context, path string, payload, result any) error {
	var body io.Reader

	if payload != nil {
		payloadBytes, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}

		body = bytes.NewReader(payloadBytes)
	}

	url := c.endpoint + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	// handle error responses
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		var errResp apiErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != "" {
			return fmt.Errorf("%s: %s", errResp.Error, errResp.Message)
		}
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}

// returns a tea.Cmd that creates a session
func (c *APIClient) CreateSessionCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), answerRequestTimeout)
		defer cancel()

		sessionID, err := c.CreateSession(ctx)
		if err != nil {
			return ChatErrorMsg{err: err}
		}

		return SessionCreatedMsg{sessionID: sessionID}
	}
}

// returns a tea.Cmd that asks a question
func (c *APIClient) AnswerCmd(sessionID, question string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), answerRequestTimeout)
		defer cancel()

		resp, err := c.Answer(ctx, sessionID, question)
		if err != nil {
			return ChatErrorMsg{question: question, err: err}
		}

		return *resp
	}
}

// returns a tea.Cmd that clears the session history
func (c *APIClient) ResetCmd(sessionID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), answerRequestTimeout)
		defer cancel()

		if err := c.Reset(ctx, sessionID); err != nil {
			return ChatErrorMsg{err: err}
		}

		return SessionResetMsg{}
	}
}

// REST API request/response types

type answerRequest struct {
	SessionID string `json:"session_id"`
	Question  string `json:"question"`
}

type answerResponse struct {
	Answer  string      `json:"answer"`
	Refused bool        `json:"refused"`
	Model   string      `json:"model,omitempty"`
	Sources []SourceRef `json:"sources,omitempty"`
}

type createSessionResponse struct {
	SessionID string `json:"session_id"`
}

type resetRequest struct {
	SessionID string `json:"session_id"`
}

type resetResponse struct {
	SessionID string `json:"session_id"`
	Cleared   bool   `json:"cleared"`
}

type apiErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}
