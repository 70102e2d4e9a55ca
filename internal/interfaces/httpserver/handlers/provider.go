package handlers

import (
	"github.com/rs/zerolog"

	"github.com/jujinjujeen/fuga/internal/config"
)

// Provider wires HTTP handlers.
type Provider struct {
	Product *ProductHandler
	Upload  *UploadHandler
}

func NewProvider(cfg *config.Config, products ProductService, uploads UploadService, log zerolog.Logger) *Provider {
	return &Provider{
		Product: NewProductHandler(cfg, products, log),
		Upload:  NewUploadHandler(uploads, log),
	}
}
