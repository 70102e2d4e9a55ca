// Package product orchestrates product mutations across the object store,
// the relational store and the cache. There is no shared transaction; each
// mutation is an explicit saga with documented compensation.
package product

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jujinjujeen/fuga/internal/apperrors"
	"github.com/jujinjujeen/fuga/internal/domain/image"
	"github.com/jujinjujeen/fuga/internal/utils/async"
)

// Cache keys mirror the request paths the response cache middleware uses.
const (
	ListCacheKey    = "cache:/api/products"
	detailKeyPrefix = "cache:/api/products/"
)

// DetailCacheKey returns the cache key of a product detail view.
func DetailCacheKey(id string) string {
	return detailKeyPrefix + id
}

// Repository defines persistence operations needed by the orchestrator.
// "Record not found" is a nil result, never an error.
type Repository interface {
	Create(ctx context.Context, rec CreateRecord) (*Product, error)
	FindByID(ctx context.Context, id string) (*Product, error)
	FindAll(ctx context.Context, search string) ([]Product, error)
	Update(ctx context.Context, id string, rec UpdateRecord) (*Product, error)
	Delete(ctx context.Context, id string) (*Product, error)
}

// ImagePreparer runs the metadata-extraction plus promotion lifecycle step.
type ImagePreparer interface {
	Prepare(ctx context.Context, tempKey string) (*image.Prepared, error)
}

// ObjectStorage is the slice of the gateway the orchestrator compensates
// through.
type ObjectStorage interface {
	RemoveTemp(ctx context.Context, key string) error
	RemovePerm(ctx context.Context, key string) error
}

// Cache is the keyed cache used for list/detail view invalidation. The
// read-through side lives in the HTTP middleware; the orchestrator only
// ever deletes. Invalidation failures are logged, never escalated.
type Cache interface {
	Delete(ctx context.Context, key string) error
}

// Service is the product mutation orchestrator.
type Service struct {
	repo    Repository
	images  ImagePreparer
	objects ObjectStorage
	cache   Cache
	spawn   async.Spawner
	log     zerolog.Logger
}

func NewService(repo Repository, images ImagePreparer, objects ObjectStorage, cache Cache, spawn async.Spawner, log zerolog.Logger) *Service {
	return &Service{
		repo:    repo,
		images:  images,
		objects: objects,
		cache:   cache,
		spawn:   spawn,
		log:     log.With().Str("component", "product-service").Logger(),
	}
}

// Get returns the product or nil when it does not exist.
func (s *Service) Get(ctx context.Context, id string) (*Product, error) {
	return s.repo.FindByID(ctx, id)
}

// List returns all products, optionally filtered by a title/artist search.
func (s *Service) List(ctx context.Context, search string) ([]Product, error) {
	return s.repo.FindAll(ctx, search)
}

// Create promotes the uploaded image and persists Product+Image as a single
// nested write. If metadata extraction rejects the upload, the unusable temp
// object is deleted before the error is returned; any other failure leaves
// the temp object alone, since destroying it could lose a retryable upload.
// A database failure after a successful promote orphans the permanent
// object; that gap is resolved by tooling, not by this path.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Product, error) {
	prepared, err := s.images.Prepare(ctx, params.ImageKey)
	if err != nil {
		s.discardUnusableUpload(ctx, params.ImageKey, err)
		return nil, err
	}

	prod, err := s.repo.Create(ctx, CreateRecord{
		Title:  params.Title,
		Artist: params.Artist,
		Image: ImageRecord{
			StorageKey: prepared.StorageKey,
			Width:      prepared.Width,
			Height:     prepared.Height,
			Format:     prepared.Format,
		},
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, ListCacheKey)
	return prod, nil
}

// Update persists new title/artist and, when a new image key is provided,
// runs the same extract+promote policy as Create. Submitting the key the
// product already references is a no-op for the image. A missing product is
// a nil result. The replaced permanent object is removed fire-and-forget.
func (s *Service) Update(ctx context.Context, id string, params UpdateParams) (*Product, error) {
	rec := UpdateRecord{Title: params.Title, Artist: params.Artist}

	var oldKey string
	if params.ImageKey != "" {
		current, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if current == nil {
			return nil, nil
		}
		if current.Image != nil {
			oldKey = current.Image.StorageKey
		}

		if params.ImageKey != oldKey {
			prepared, err := s.images.Prepare(ctx, params.ImageKey)
			if err != nil {
				s.discardUnusableUpload(ctx, params.ImageKey, err)
				return nil, err
			}
			rec.Image = &ImageRecord{
				StorageKey: prepared.StorageKey,
				Width:      prepared.Width,
				Height:     prepared.Height,
				Format:     prepared.Format,
			}
		}
	}

	prod, err := s.repo.Update(ctx, id, rec)
	if err != nil {
		return nil, err
	}
	if prod == nil {
		return nil, nil
	}

	if rec.Image != nil && oldKey != "" {
		replaced := oldKey
		s.spawn("remove replaced image", func(ctx context.Context) error {
			return s.objects.RemovePerm(ctx, replaced)
		})
	}

	s.invalidate(ctx, ListCacheKey)
	s.invalidate(ctx, DetailCacheKey(id))
	return prod, nil
}

// Delete removes the product row (cascading its image row) and reports
// whether it existed. The backing permanent object is removed best-effort.
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	prod, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if prod == nil {
		return false, nil
	}

	if prod.Image != nil {
		key := prod.Image.StorageKey
		s.spawn("remove deleted product image", func(ctx context.Context) error {
			return s.objects.RemovePerm(ctx, key)
		})
	}

	s.invalidate(ctx, ListCacheKey)
	s.invalidate(ctx, DetailCacheKey(id))
	return true, nil
}

// discardUnusableUpload deletes the temp object only when the preparation
// failure proves the upload itself is unusable. Infra failures leave it in
// place: ownership is ambiguous and the reclamation job will collect it if
// it is truly abandoned.
func (s *Service) discardUnusableUpload(ctx context.Context, tempKey string, cause error) {
	if !apperrors.IsValidation(cause) {
		return
	}
	if err := s.objects.RemoveTemp(ctx, tempKey); err != nil {
		s.log.Error().Err(err).Str("key", tempKey).Msg("failed to remove rejected upload")
	}
}

func (s *Service) invalidate(ctx context.Context, key string) {
	if err := s.cache.Delete(ctx, key); err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("cache invalidation failed")
	}
}
