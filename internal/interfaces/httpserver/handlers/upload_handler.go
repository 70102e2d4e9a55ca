package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/jujinjujeen/fuga/internal/apperrors"
	"github.com/jujinjujeen/fuga/internal/infrastructure/storage"
	"github.com/jujinjujeen/fuga/internal/interfaces/httpserver/requests"
	"github.com/jujinjujeen/fuga/internal/interfaces/httpserver/responses"
)

// UploadService issues presigned upload grants.
type UploadService interface {
	GenerateUploadGrant(ctx context.Context, req storage.GrantRequest) (*storage.UploadGrant, error)
}

// UploadHandler exposes the presign endpoint.
type UploadHandler struct {
	service UploadService
	log     zerolog.Logger
}

func NewUploadHandler(service UploadService, log zerolog.Logger) *UploadHandler {
	return &UploadHandler{
		service: service,
		log:     log.With().Str("component", "upload-handler").Logger(),
	}
}

// Presign handles POST /api/presign.
func (h *UploadHandler) Presign(c *gin.Context) {
	var req requests.PresignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, responses.NewError(http.StatusBadRequest, "Upload URL Generation Failed", err.Error()))
		return
	}

	grant, err := h.service.GenerateUploadGrant(c.Request.Context(), storage.GrantRequest{
		FileName:      req.FileName,
		ContentType:   req.FileType,
		ContentLength: req.FileSize,
	})
	if err != nil {
		if apperrors.IsValidation(err) {
			c.JSON(http.StatusBadRequest, responses.NewError(http.StatusBadRequest, "Upload URL Generation Failed", err.Error()))
			return
		}
		h.log.Error().Err(err).Msg("presign failed")
		c.JSON(http.StatusInternalServerError, responses.NewError(http.StatusInternalServerError, "Upload URL Generation Failed", err.Error()))
		return
	}

	c.JSON(http.StatusOK, grant)
}
