package server

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/justice-digital/dps-smoketest/pkg/logger"
)

// loggingMiddleware injects the server logger into the request context and
// logs one line per completed request.
func loggingMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		ctx := logger.ContextWithLogger(c.Request.Context(), log)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
		log.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
