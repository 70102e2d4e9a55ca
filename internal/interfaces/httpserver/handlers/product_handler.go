package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/jujinjujeen/fuga/internal/apperrors"
	"github.com/jujinjujeen/fuga/internal/config"
	"github.com/jujinjujeen/fuga/internal/domain/product"
	"github.com/jujinjujeen/fuga/internal/interfaces/httpserver/requests"
	"github.com/jujinjujeen/fuga/internal/interfaces/httpserver/responses"
	"github.com/jujinjujeen/fuga/internal/utils/etag"
)

// ProductService is the orchestrator surface the handler drives.
type ProductService interface {
	Get(ctx context.Context, id string) (*product.Product, error)
	List(ctx context.Context, search string) ([]product.Product, error)
	Create(ctx context.Context, params product.CreateParams) (*product.Product, error)
	Update(ctx context.Context, id string, params product.UpdateParams) (*product.Product, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// ProductHandler exposes the product endpoints.
type ProductHandler struct {
	cfg     *config.Config
	service ProductService
	log     zerolog.Logger
}

func NewProductHandler(cfg *config.Config, service ProductService, log zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		cfg:     cfg,
		service: service,
		log:     log.With().Str("component", "product-handler").Logger(),
	}
}

// List handles GET /api/products.
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.service.List(c.Request.Context(), c.Query("search"))
	if err != nil {
		h.log.Error().Err(err).Msg("list products failed")
		c.JSON(http.StatusInternalServerError, responses.NewError(http.StatusInternalServerError, "Failed to Fetch Products", err.Error()))
		return
	}
	c.JSON(http.StatusOK, responses.FromProducts(products, h.cfg.PublicObjectURL))
}

// Get handles GET /api/products/:id. The response carries the product's
// concurrency token in the ETag header.
func (h *ProductHandler) Get(c *gin.Context) {
	id := c.Param("id")

	prod, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.log.Error().Err(err).Str("id", id).Msg("get product failed")
		c.JSON(http.StatusInternalServerError, responses.NewError(http.StatusInternalServerError, "Failed to Fetch Product", err.Error()))
		return
	}
	if prod == nil {
		c.JSON(http.StatusNotFound, responses.NewError(http.StatusNotFound, "Not Found", "Product with ID "+id+" not found"))
		return
	}

	c.Header("ETag", etag.Generate(prod.UpdatedAt))
	c.JSON(http.StatusOK, responses.FromProduct(prod, h.cfg.PublicObjectURL))
}

// Create handles POST /api/products.
func (h *ProductHandler) Create(c *gin.Context) {
	var req requests.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, responses.NewError(http.StatusBadRequest, "Bad Request", err.Error()))
		return
	}

	prod, err := h.service.Create(c.Request.Context(), product.CreateParams{
		Title:    req.Title,
		Artist:   req.Artist,
		ImageKey: req.ImageKey,
	})
	if err != nil {
		h.respondMutationError(c, "Failed to Create Product", err)
		return
	}

	c.JSON(http.StatusCreated, responses.FromProduct(prod, h.cfg.PublicObjectURL))
}

// Update handles PUT /api/products/:id. The concurrency precondition is
// enforced here, before the orchestrator runs: a stale If-Match token is a
// 412 and the mutation is never attempted.
func (h *ProductHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var req requests.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, responses.NewError(http.StatusBadRequest, "Bad Request", err.Error()))
		return
	}

	current, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.log.Error().Err(err).Str("id", id).Msg("precondition read failed")
		c.JSON(http.StatusInternalServerError, responses.NewError(http.StatusInternalServerError, "Failed to Update Product", err.Error()))
		return
	}
	if current == nil {
		c.JSON(http.StatusNotFound, responses.NewError(http.StatusNotFound, "Not Found", "Product with ID "+id+" not found"))
		return
	}
	if !etag.Validate(c.GetHeader("If-Match"), etag.Generate(current.UpdatedAt)) {
		h.respondMutationError(c, "Conflict", apperrors.NewConflict("Product was modified by another request; refresh and retry"))
		return
	}

	prod, err := h.service.Update(c.Request.Context(), id, product.UpdateParams{
		Title:    req.Title,
		Artist:   req.Artist,
		ImageKey: req.ImageKey,
	})
	if err != nil {
		h.respondMutationError(c, "Failed to Update Product", err)
		return
	}
	if prod == nil {
		c.JSON(http.StatusNotFound, responses.NewError(http.StatusNotFound, "Not Found", "Product with ID "+id+" not found"))
		return
	}

	c.Header("ETag", etag.Generate(prod.UpdatedAt))
	c.JSON(http.StatusOK, responses.FromProduct(prod, h.cfg.PublicObjectURL))
}

// Delete handles DELETE /api/products/:id.
func (h *ProductHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	found, err := h.service.Delete(c.Request.Context(), id)
	if err != nil {
		h.log.Error().Err(err).Str("id", id).Msg("delete product failed")
		c.JSON(http.StatusInternalServerError, responses.NewError(http.StatusInternalServerError, "Failed to Delete Product", err.Error()))
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, responses.NewError(http.StatusNotFound, "Not Found", "Product with ID "+id+" not found"))
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProductHandler) respondMutationError(c *gin.Context, title string, err error) {
	if apperrors.IsValidation(err) || apperrors.IsNotFound(err) {
		c.JSON(http.StatusBadRequest, responses.NewError(http.StatusBadRequest, title, err.Error()))
		return
	}
	if apperrors.IsConflict(err) {
		c.JSON(http.StatusPreconditionFailed, responses.NewError(http.StatusPreconditionFailed, title, err.Error()))
		return
	}
	h.log.Error().Err(err).Msg("mutation failed")
	c.JSON(http.StatusInternalServerError, responses.NewError(http.StatusInternalServerError, title, err.Error()))
}
