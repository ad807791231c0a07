package middleware

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"drive-me-local/internal/infrastructure/metrics"
)

const maxLogBodySize = 1 << 12 // 4 KB

// bodies of these routes carry credentials
var redactedPaths = map[string]struct{}{
	"/login":    {},
	"/register": {},
}

func RequestLogGin(logger *zap.Logger, mCounter *prometheus.CounterVec) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions ||
			c.Request.URL.Path == "/favicon.ico" ||
			strings.HasSuffix(c.Request.URL.Path, "/metrics") {
			c.Next()
			return
		}

		start := time.Now()
		body := captureBody(c)

		c.Next()

		if mCounter != nil {
			mCounter.WithLabelValues(metrics.AppRequests).Inc()
		}

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("url", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("body", body),
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
		}
		if u := Identity(c); u != nil {
			fields = append(fields, zap.Int64("user_id", int64(u.ID)))
		}

		logger.Info("HTTP request", fields...)
	}
}

func captureBody(c *gin.Context) string {
	if c.Request == nil || c.Request.Body == nil || c.Request.Method == http.MethodGet {
		return ""
	}
	if _, secret := redactedPaths[c.Request.URL.Path]; secret {
		return "<redacted>"
	}
	if strings.HasPrefix(c.GetHeader("Content-Type"), "multipart/form-data") {
		return "<multipart/form-data omitted>"
	}

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, io.LimitReader(c.Request.Body, maxLogBodySize))
	c.Request.Body = io.NopCloser(io.MultiReader(bytes.NewReader(buf.Bytes()), c.Request.Body))

	return buf.String()
}
