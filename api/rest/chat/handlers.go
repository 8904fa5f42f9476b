package chat

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/careassist/server/internal/assistant"
	"github.com/careassist/server/internal/errors"
	"github.com/careassist/server/internal/memory"
	"github.com/careassist/server/internal/sessions"
)

// Answerer runs the question pipeline against one session's window.
type Answerer interface {
	Answer(c *gin.Context, window *memory.Window, question string) (*assistant.AnswerResponse, error)
}

// adapts the assistant to the handler boundary so tests can substitute it
type assistantAnswerer struct {
	assistant *assistant.Assistant
}

func (a assistantAnswerer) Answer(c *gin.Context, window *memory.Window, question string) (*assistant.AnswerResponse, error) {
	return a.assistant.Answer(c.Request.Context(), window, question)
}

// CreateSessionHandler godoc
// @Summary Create a conversation session
// @Tags chat
// @Produce json
// @Success 200 {object} CreateSessionResponse
// @Router /api/v1/chat/sessions [post]
func CreateSessionHandler(manager *sessions.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := manager.CreateSession()
		if err != nil {
			errors.InternalError(c, "failed to create session", err)
			return
		}

		c.JSON(http.StatusOK, CreateSessionResponse{SessionID: session.ID})
	}
}

// AnswerHandler godoc
// @Summary Answer a health question
// @Description Retrieves grounded context and generates a cited answer
// @Tags chat
// @Accept json
// @Produce json
// @Param request body AnswerRequest true "Question request"
// @Success 200 {object} AnswerResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 503 {object} errors.ErrorResponse
// @Router /api/v1/chat/answer [post]
func AnswerHandler(answerer Answerer, manager *sessions.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AnswerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		session, ok := manager.GetSession(req.SessionID)
		if !ok {
			errors.SessionNotFound(c)
			return
		}

		// one in-flight request per session; the window is single-writer
		session.Lock()
		defer session.Unlock()

		resp, err := answerer.Answer(c, session.Window, req.Question)
		if err != nil {
			switch {
			case stderrors.Is(err, assistant.ErrRetrievalUnavailable):
				errors.ServiceUnavailable(c, errors.CodeRetrievalUnavailable,
					"the document index is unreachable, please try again", err)
			case stderrors.Is(err, assistant.ErrModelUnavailable):
				errors.ServiceUnavailable(c, errors.CodeModelUnavailable,
					"the answer service is unreachable, please try again", err)
			default:
				errors.InternalError(c, "failed to answer question", err)
			}

			return
		}

		manager.Touch(req.SessionID)

		c.JSON(http.StatusOK, AnswerResponse{
			Answer:  resp.Answer,
			Refused: resp.Refused,
			Model:   resp.Model,
			Sources: resp.Sources,
		})
	}
}

// ResetHandler godoc
// @Summary Clear a session's conversation history
// @Tags chat
// @Accept json
// @Produce json
// @Param request body ResetRequest true "Reset request"
// @Success 200 {object} ResetResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/v1/chat/reset [post]
func ResetHandler(manager *sessions.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ResetRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		session, ok := manager.GetSession(req.SessionID)
		if !ok {
			errors.SessionNotFound(c)
			return
		}

		session.Lock()
		session.Window.Clear()
		session.Unlock()

		c.JSON(http.StatusOK, ResetResponse{SessionID: req.SessionID, Cleared: true})
	}
}
