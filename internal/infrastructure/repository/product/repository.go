// Package product persists products and their nested image metadata.
package product

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jujinjujeen/fuga/internal/apperrors"
	"github.com/jujinjujeen/fuga/internal/domain/image"
	domain "github.com/jujinjujeen/fuga/internal/domain/product"
	"github.com/jujinjujeen/fuga/internal/infrastructure/database/entities"
)

// Repository handles product persistence. Missing rows map to nil results,
// not errors; only transport faults surface as InfraError.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create writes Product+Image in one transaction so no product ever exists
// with a half-written image.
func (r *Repository) Create(ctx context.Context, rec domain.CreateRecord) (*domain.Product, error) {
	entity := entities.Product{
		ID:     uuid.NewString(),
		Title:  rec.Title,
		Artist: rec.Artist,
		Image: &entities.Image{
			ID:         uuid.NewString(),
			StorageKey: rec.Image.StorageKey,
			Width:      rec.Image.Width,
			Height:     rec.Image.Height,
			Format:     string(rec.Image.Format),
		},
	}
	if err := r.db.WithContext(ctx).Create(&entity).Error; err != nil {
		return nil, apperrors.NewInfra("create product", err)
	}
	prod := mapEntity(entity)
	return &prod, nil
}

// FindByID returns the product with its image, or nil when absent.
func (r *Repository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	var entity entities.Product
	err := r.db.WithContext(ctx).Preload("Image").First(&entity, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.NewInfra(fmt.Sprintf("find product %s", id), err)
	}
	prod := mapEntity(entity)
	return &prod, nil
}

// FindAll returns products newest first, optionally filtered by a
// case-insensitive title/artist search.
func (r *Repository) FindAll(ctx context.Context, search string) ([]domain.Product, error) {
	query := r.db.WithContext(ctx).Preload("Image").Order("created_at DESC")
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("title ILIKE ? OR artist ILIKE ?", pattern, pattern)
	}

	var rows []entities.Product
	if err := query.Find(&rows).Error; err != nil {
		return nil, apperrors.NewInfra("list products", err)
	}

	products := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, mapEntity(row))
	}
	return products, nil
}

// Update writes product fields and, when rec.Image is set, the image row in
// the same transaction. Returns nil when the product does not exist.
func (r *Repository) Update(ctx context.Context, id string, rec domain.UpdateRecord) (*domain.Product, error) {
	var updated *domain.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var entity entities.Product
		if err := tx.Preload("Image").First(&entity, "id = ?", id).Error; err != nil {
			return err
		}

		if err := tx.Model(&entity).Updates(map[string]interface{}{
			"title":  rec.Title,
			"artist": rec.Artist,
		}).Error; err != nil {
			return err
		}

		if rec.Image != nil {
			if entity.Image != nil {
				if err := tx.Model(entity.Image).Updates(map[string]interface{}{
					"storage_key": rec.Image.StorageKey,
					"width":       rec.Image.Width,
					"height":      rec.Image.Height,
					"format":      string(rec.Image.Format),
				}).Error; err != nil {
					return err
				}
			} else {
				img := entities.Image{
					ID:         uuid.NewString(),
					ProductID:  entity.ID,
					StorageKey: rec.Image.StorageKey,
					Width:      rec.Image.Width,
					Height:     rec.Image.Height,
					Format:     string(rec.Image.Format),
				}
				if err := tx.Create(&img).Error; err != nil {
					return err
				}
			}
		}

		var reloaded entities.Product
		if err := tx.Preload("Image").First(&reloaded, "id = ?", id).Error; err != nil {
			return err
		}
		prod := mapEntity(reloaded)
		updated = &prod
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.NewInfra(fmt.Sprintf("update product %s", id), err)
	}
	return updated, nil
}

// Delete removes the product and its image row, returning the deleted
// product (with image, so the caller can clean up storage) or nil when
// absent.
func (r *Repository) Delete(ctx context.Context, id string) (*domain.Product, error) {
	var deleted *domain.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var entity entities.Product
		if err := tx.Preload("Image").First(&entity, "id = ?", id).Error; err != nil {
			return err
		}

		if err := tx.Where("product_id = ?", id).Delete(&entities.Image{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&entities.Product{}, "id = ?", id).Error; err != nil {
			return err
		}

		prod := mapEntity(entity)
		deleted = &prod
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.NewInfra(fmt.Sprintf("delete product %s", id), err)
	}
	return deleted, nil
}

// StorageKeyInUse reports whether any image row references the key. The
// permanent-bucket orphan sweep uses it to spare live objects.
func (r *Repository) StorageKeyInUse(ctx context.Context, storageKey string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Image{}).Where("storage_key = ?", storageKey).Count(&count).Error
	if err != nil {
		return false, apperrors.NewInfra(fmt.Sprintf("check storage key %s", storageKey), err)
	}
	return count > 0, nil
}

func mapEntity(entity entities.Product) domain.Product {
	prod := domain.Product{
		ID:        entity.ID,
		Title:     entity.Title,
		Artist:    entity.Artist,
		CreatedAt: entity.CreatedAt,
		UpdatedAt: entity.UpdatedAt,
	}
	if entity.Image != nil {
		prod.Image = &domain.Image{
			ID:         entity.Image.ID,
			StorageKey: entity.Image.StorageKey,
			Width:      entity.Image.Width,
			Height:     entity.Image.Height,
			Format:     image.Format(entity.Image.Format),
			CreatedAt:  entity.Image.CreatedAt,
		}
	}
	return prod
}
