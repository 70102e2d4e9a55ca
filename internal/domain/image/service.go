// Package image decodes uploaded image headers and prepares temporary
// objects for permanent storage.
package image

import (
	"bytes"
	"context"
	"image"
	"strings"

	_ "image/jpeg"
	_ "image/png"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	_ "golang.org/x/image/webp"

	"github.com/jujinjujeen/fuga/internal/apperrors"
)

// Format is a supported image format.
type Format string

const (
	FormatJPEG Format = "jpeg"
	FormatPNG  Format = "png"
	FormatWebP Format = "webp"
)

var formatByMIME = map[string]Format{
	"image/jpeg": FormatJPEG,
	"image/png":  FormatPNG,
	"image/webp": FormatWebP,
}

// Metadata describes a decoded image header.
type Metadata struct {
	Width  int
	Height int
	Format Format
}

// Prepared is the result of promoting a validated upload.
type Prepared struct {
	StorageKey string
	Width      int
	Height     int
	Format     Format
}

// Storage is the subset of the object store gateway the lifecycle needs.
type Storage interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Promote(ctx context.Context, key string) error
}

// Service extracts metadata and runs the prepare-image lifecycle step.
type Service struct {
	storage Storage
	log     zerolog.Logger
}

func NewService(storage Storage, log zerolog.Logger) *Service {
	return &Service{
		storage: storage,
		log:     log.With().Str("component", "image-service").Logger(),
	}
}

// GetMetadata reads the object and decodes its header. Undecodable
// dimensions or format yield a validation error; a decodable format outside
// the supported set names the offending format.
func (s *Service) GetMetadata(ctx context.Context, storageKey string) (*Metadata, error) {
	data, err := s.storage.Read(ctx, storageKey)
	if err != nil {
		return nil, err
	}

	detected := mimetype.Detect(data).String()
	format, ok := formatByMIME[detected]
	if !ok {
		if strings.HasPrefix(detected, "image/") {
			return nil, apperrors.NewValidation("Unsupported image format: %s", strings.TrimPrefix(detected, "image/"))
		}
		return nil, apperrors.NewValidation("Invalid image metadata")
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, apperrors.NewValidation("Invalid image metadata")
	}

	return &Metadata{
		Width:  cfg.Width,
		Height: cfg.Height,
		Format: format,
	}, nil
}

// Prepare validates the temporary object and promotes it to permanent
// storage. It deliberately does not delete anything on failure; the
// orchestrator has the request-level context to decide whether the temp
// object is salvageable.
func (s *Service) Prepare(ctx context.Context, tempKey string) (*Prepared, error) {
	meta, err := s.GetMetadata(ctx, tempKey)
	if err != nil {
		return nil, err
	}

	if err := s.storage.Promote(ctx, tempKey); err != nil {
		return nil, err
	}

	return &Prepared{
		StorageKey: tempKey,
		Width:      meta.Width,
		Height:     meta.Height,
		Format:     meta.Format,
	}, nil
}
