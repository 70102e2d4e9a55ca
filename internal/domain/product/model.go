package product

import (
	"time"

	"github.com/jujinjujeen/fuga/internal/domain/image"
)

// Product is a catalog entry. It owns at most one Image.
type Product struct {
	ID        string
	Title     string
	Artist    string
	Image     *Image
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Image is the persisted metadata of a promoted upload. Its StorageKey
// always refers to an object in the permanent bucket.
type Image struct {
	ID         string
	StorageKey string
	Width      int
	Height     int
	Format     image.Format
	CreatedAt  time.Time
}

// CreateParams carries validated input for a product creation.
type CreateParams struct {
	Title    string
	Artist   string
	ImageKey string
}

// UpdateParams carries validated input for a product update. An empty
// ImageKey means the stored image is left untouched.
type UpdateParams struct {
	Title    string
	Artist   string
	ImageKey string
}

// ImageRecord is the image payload for a nested repository write.
type ImageRecord struct {
	StorageKey string
	Width      int
	Height     int
	Format     image.Format
}

// CreateRecord is a nested Product+Image write.
type CreateRecord struct {
	Title  string
	Artist string
	Image  ImageRecord
}

// UpdateRecord updates product fields and, when Image is set, replaces the
// image metadata in the same write.
type UpdateRecord struct {
	Title  string
	Artist string
	Image  *ImageRecord
}
