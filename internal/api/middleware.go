package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// requestLogger logs each request received using the provided zap logger.
func requestLogger(logger *zap.SugaredLogger) gin.HandlerFunc {
	logger = logger.Desugar().WithOptions(zap.AddCallerSkip(1)).Sugar().Named("http")
	return func(c *gin.Context) {
		t1 := time.Now()
		c.Next()

		status := c.Writer.Status()
		logger.With(
			zap.Int("status", status),
			zap.String("statusText", http.StatusText(status)),
			zap.String("method", c.Request.Method),
			zap.String("url", c.Request.URL.String()),
			zap.String("reqIp", c.ClientIP()),
			zap.String("protocol", c.Request.Proto),
			zap.Int("size", c.Writer.Size()),
			zap.String("latency", time.Since(t1).String()),
			zap.String("userAgent", c.Request.UserAgent()),
			zap.String("reqId", uuid.NewString()),
		).Info("Got Request")
	}
}
