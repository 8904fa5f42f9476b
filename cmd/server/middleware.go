package main

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	limiter "github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	memorystore "github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/careassist/server/internal/logger"
)

// answering is model-bound and costly; keep the per-client budget small
const chatRateLimit = "30-M"

// allows browser clients to reach the API from other origins
func CORSMiddleware() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	})
}

// returns a per-IP rate limiting middleware for the chat routes
func RateLimitMiddleware() gin.HandlerFunc {
	rate, err := limiter.NewRateFromFormatted(chatRateLimit)
	if err != nil {
		// the format string is a compile-time constant; failing here means a
		// programming error, not a runtime condition
		logger.Fatal("invalid rate limit format", "rate", chatRateLimit, "error", err)
	}

	store := memorystore.NewStore()

	return mgin.NewMiddleware(limiter.New(store, rate))
}
