package chat

import (
	"github.com/gin-gonic/gin"

	"github.com/careassist/server/internal/assistant"
	"github.com/careassist/server/internal/sessions"
)

func RegisterRoutes(router *gin.RouterGroup, assistantClient *assistant.Assistant, manager *sessions.Manager, middleware ...gin.HandlerFunc) {
	chatGroup := router.Group("/chat")
	chatGroup.Use(middleware...)
	{
		chatGroup.POST("/sessions", CreateSessionHandler(manager))
		chatGroup.POST("/answer", AnswerHandler(assistantAnswerer{assistantClient}, manager))
		chatGroup.POST("/reset", ResetHandler(manager))
	}
}
