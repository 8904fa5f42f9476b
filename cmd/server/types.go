package main

import (
	"github.com/careassist/server/internal/assistant"
	"github.com/careassist/server/internal/cache"
	"github.com/careassist/server/internal/config"
	"github.com/careassist/server/internal/llm"
	"github.com/careassist/server/internal/retriever"
	"github.com/careassist/server/internal/sessions"
	"github.com/careassist/server/internal/websearch"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// holds all dependencies and state for the API server
type Server struct {
	db          *pgxpool.Pool
	config      *config.Config
	sessionMgr  *sessions.Manager
	searchCache *cache.SearchCache // nil when REDIS_URL is not configured
	services    *Services
	router      *gin.Engine
}

// holds all external service clients
type Services struct {
	Assistant *assistant.Assistant
	LLM       llm.LLM
	Retriever *retriever.Client
	WebSearch *websearch.Client
}
