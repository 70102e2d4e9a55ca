package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/jujinjujeen/fuga/internal/interfaces/httpserver/handlers"
)

// Routes encapsulates API route registration.
type Routes struct {
	handlers *handlers.Provider
	cache    gin.HandlerFunc
}

// NewRoutes builds the route set. cacheMiddleware wraps the GET views; pass
// nil to disable response caching.
func NewRoutes(provider *handlers.Provider, cacheMiddleware gin.HandlerFunc) *Routes {
	return &Routes{handlers: provider, cache: cacheMiddleware}
}

// Register attaches all routes under the /api prefix.
func (r *Routes) Register(router gin.IRouter) {
	group := router.Group("/api")

	group.POST("/presign", r.handlers.Upload.Presign)

	products := group.Group("/products")
	if r.cache != nil {
		products.GET("", r.cache, r.handlers.Product.List)
		products.GET("/:id", r.cache, r.handlers.Product.Get)
	} else {
		products.GET("", r.handlers.Product.List)
		products.GET("/:id", r.handlers.Product.Get)
	}
	products.POST("", r.handlers.Product.Create)
	products.PUT("/:id", r.handlers.Product.Update)
	products.DELETE("/:id", r.handlers.Product.Delete)
}
