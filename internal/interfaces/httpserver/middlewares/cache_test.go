package middlewares

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCache struct {
	data map[string]string
	sets int
}

func newMemCache() *memCache {
	return &memCache{data: map[string]string{}}
}

func (m *memCache) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memCache) SetWithTTL(_ context.Context, key string, _ time.Duration, value string) error {
	m.sets++
	m.data[key] = value
	return nil
}

func cachedRouter(cache Cache, handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ResponseCache(cache, time.Hour, zerolog.Nop()))
	r.GET("/api/products", handler)
	r.GET("/api/products/:id", handler)
	r.DELETE("/api/products/:id", handler)
	return r
}

func TestResponseCache(t *testing.T) {
	t.Run("miss stores, hit skips the handler", func(t *testing.T) {
		cache := newMemCache()
		handlerCalls := 0
		r := cachedRouter(cache, func(c *gin.Context) {
			handlerCalls++
			c.JSON(http.StatusOK, gin.H{"n": handlerCalls})
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/products", nil))
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, 1, handlerCalls)
		assert.Contains(t, cache.data, "cache:/api/products")

		w = httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/products", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, handlerCalls)
		assert.JSONEq(t, `{"n":1}`, w.Body.String())
	})

	t.Run("query strings bypass the cache", func(t *testing.T) {
		cache := newMemCache()
		handlerCalls := 0
		r := cachedRouter(cache, func(c *gin.Context) {
			handlerCalls++
			c.JSON(http.StatusOK, gin.H{})
		})

		for i := 0; i < 2; i++ {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/products?search=train", nil))
			require.Equal(t, http.StatusOK, w.Code)
		}
		assert.Equal(t, 2, handlerCalls)
		assert.Empty(t, cache.data)
	})

	t.Run("non-200 responses are not stored", func(t *testing.T) {
		cache := newMemCache()
		r := cachedRouter(cache, func(c *gin.Context) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/products/absent", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Zero(t, cache.sets)
	})

	t.Run("non-GET methods bypass the cache", func(t *testing.T) {
		cache := newMemCache()
		cache.data["cache:/api/products/p1"] = `{"stale":true}`
		r := cachedRouter(cache, func(c *gin.Context) {
			c.Status(http.StatusNoContent)
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/products/p1", nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("detail keys are per product", func(t *testing.T) {
		cache := newMemCache()
		r := cachedRouter(cache, func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"id": c.Param("id")})
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/products/p1", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, cache.data, "cache:/api/products/p1")
		assert.NotContains(t, cache.data, "cache:/api/products")
	})
}
