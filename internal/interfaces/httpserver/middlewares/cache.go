package middlewares

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/jujinjujeen/fuga/internal/infrastructure/metrics"
)

// Cache is the keyed store the response cache reads through.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	SetWithTTL(ctx context.Context, key string, ttl time.Duration, value string) error
}

type captureWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// ResponseCache serves GET responses from the cache and stores fresh 200s
// under cache:<path>. Requests with query strings bypass it so search
// results are never cached. Cache faults degrade to a miss.
func ResponseCache(cache Cache, ttl time.Duration, log zerolog.Logger) gin.HandlerFunc {
	logger := log.With().Str("component", "response-cache").Logger()
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet || c.Request.URL.RawQuery != "" {
			c.Next()
			return
		}

		key := "cache:" + c.Request.URL.Path
		ctx := c.Request.Context()

		cached, found, err := cache.Get(ctx, key)
		if err != nil {
			logger.Error().Err(err).Str("key", key).Msg("cache read failed")
		}
		if found {
			metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
			c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(cached))
			c.Abort()
			return
		}
		metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()

		writer := &captureWriter{ResponseWriter: c.Writer}
		c.Writer = writer
		c.Next()

		if writer.Status() != http.StatusOK {
			return
		}
		if err := cache.SetWithTTL(ctx, key, ttl, writer.buf.String()); err != nil {
			logger.Error().Err(err).Str("key", key).Msg("cache write failed")
		}
	}
}
