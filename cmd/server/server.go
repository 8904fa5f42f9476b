package main

import (
	"context"
	"fmt"
	"time"

	"github.com/careassist/server/internal/cache"
	"github.com/careassist/server/internal/config"
	"github.com/careassist/server/internal/logger"
	"github.com/careassist/server/internal/memory"
	"github.com/careassist/server/internal/sessions"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	// sessions inactive for longer than this are dropped
	sessionTTL = 30 * time.Minute

	// lifetime of cached web search results
	searchCacheTTL = 15 * time.Minute
)

// creates and configures a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	ctx := context.Background()

	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	// modest pool: every request runs at most one similarity query
	poolConfig.MaxConns = 5
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 5 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	db, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// web search cache is optional; run without it when redis is absent
	var searchCache *cache.SearchCache

	if cfg.RedisURL != "" {
		searchCache, err = cache.NewSearchCache(cfg.RedisURL, searchCacheTTL)
		if err != nil {
			logger.ErrorErr(err, "failed to initialize search cache, continuing without caching")
			searchCache = nil
		}
	}

	services, err := InitializeServices(cfg, db, searchCache)
	if err != nil {
		if searchCache != nil {
			searchCache.Close() //nolint:errcheck,gosec // best-effort cleanup on init failure
		}

		db.Close()

		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	sessionMgr := sessions.NewManager(sessionTTL, memory.DefaultExchanges)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	server := &Server{
		db:          db,
		config:      cfg,
		sessionMgr:  sessionMgr,
		searchCache: searchCache,
		services:    services,
		router:      router,
	}

	RegisterRoutes(router, server)

	return server, nil
}
