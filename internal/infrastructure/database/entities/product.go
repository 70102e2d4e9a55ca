package entities

import "time"

// Product is the persisted catalog row.
type Product struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	Title     string    `gorm:"type:varchar(200);not null"`
	Artist    string    `gorm:"type:varchar(200);not null"`
	Image     *Image    `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Product) TableName() string {
	return "products"
}

// Image is the persisted metadata of a promoted upload. A product owns at
// most one image; the storage key is globally unique by construction.
type Image struct {
	ID         string    `gorm:"type:uuid;primaryKey"`
	ProductID  string    `gorm:"type:uuid;uniqueIndex;not null"`
	StorageKey string    `gorm:"type:varchar(512);uniqueIndex;not null"`
	Width      int       `gorm:"not null"`
	Height     int       `gorm:"not null"`
	Format     string    `gorm:"type:varchar(8);not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (Image) TableName() string {
	return "images"
}
