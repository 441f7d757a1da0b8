package server

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

const middlewareLogPrefix = "server:middleware"

// requestLogger logs one line per request; errors at warn level.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		msg := fmt.Sprintf("%s - %s %s status=%d latency=%s ip=%s",
			middlewareLogPrefix, c.Request.Method, path, status, time.Since(start), c.RemoteIP())
		if status >= 400 {
			slog.Warn(msg)
			return
		}
		slog.Debug(msg)
	}
}
