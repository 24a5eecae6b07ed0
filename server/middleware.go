package server

import (
	"errors"
	"log/slog"
	"net"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

func isClientDisconnect(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, syscall.EPIPE) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}

	var opErr *net.OpError

	return errors.As(err, &opErr) && opErr.Op == "write"
}

// requestLogger logs every request through log, skipping the noise of
// clients that hung up mid-response.
func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		last := c.Errors.Last()
		if last != nil && isClientDisconnect(last.Err) {
			return
		}

		attrs := []any{
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)),
			slog.String("client", c.ClientIP()),
		}

		if last != nil {
			attrs = append(attrs, slog.String("error", last.Error()))
		}

		log.Debug("request", attrs...)
	}
}
