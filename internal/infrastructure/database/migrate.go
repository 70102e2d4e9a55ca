package database

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/jujinjujeen/fuga/internal/infrastructure/database/entities"
)

// AutoMigrate applies database schema changes.
func AutoMigrate(ctx context.Context, db *gorm.DB, log zerolog.Logger) error {
	if err := db.WithContext(ctx).AutoMigrate(&entities.Product{}, &entities.Image{}); err != nil {
		return err
	}
	log.Info().Msg("applied product and image migrations")
	return nil
}
