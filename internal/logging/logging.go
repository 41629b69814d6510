package logging

import (
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// New базовый логгер сервиса: однострочный JSON в stdout, время в UTC
func New() zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	return zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", "smart-agro-tribe").
		Logger()
}

// RequestLogger middleware: одна JSON-строка на запрос
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		evt := log.Info()
		if status >= 500 || len(c.Errors) > 0 {
			evt = log.Error()
		}
		if len(c.Errors) > 0 {
			evt = evt.Str("errors", c.Errors.String())
		}
		evt.
			Str("method", c.Request.Method).
			Str("path", path).
			Str("query", query).
			Int("status", status).
			Float64("latency_ms", float64(latency.Microseconds())/1000.0).
			Str("client_ip", c.ClientIP()).
			Int("bytes_out", c.Writer.Size()).
			Msg("request")
	}
}
