//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/jujinjujeen/fuga/internal/config"
	imagedomain "github.com/jujinjujeen/fuga/internal/domain/image"
	"github.com/jujinjujeen/fuga/internal/domain/product"
	"github.com/jujinjujeen/fuga/internal/infrastructure/cache"
	"github.com/jujinjujeen/fuga/internal/infrastructure/database"
	"github.com/jujinjujeen/fuga/internal/infrastructure/logger"
	repo "github.com/jujinjujeen/fuga/internal/infrastructure/repository/product"
	"github.com/jujinjujeen/fuga/internal/infrastructure/storage"
	"github.com/jujinjujeen/fuga/internal/interfaces/httpserver"
	"github.com/jujinjujeen/fuga/internal/interfaces/httpserver/handlers"
	"github.com/jujinjujeen/fuga/internal/interfaces/httpserver/middlewares"
	"github.com/jujinjujeen/fuga/internal/utils/async"
)

var productSet = wire.NewSet(
	repo.NewRepository,
	wire.Bind(new(product.Repository), new(*repo.Repository)),
	imagedomain.NewService,
	wire.Bind(new(imagedomain.Storage), new(*storage.S3Storage)),
	wire.Bind(new(product.ImagePreparer), new(*imagedomain.Service)),
	wire.Bind(new(product.ObjectStorage), new(*storage.S3Storage)),
	wire.Bind(new(product.Cache), new(*cache.RedisCache)),
	product.NewService,
)

// BuildApplication assembles the product API with Wire.
func BuildApplication(ctx context.Context) (*Application, error) {
	wire.Build(
		config.Load,
		logger.New,
		newDatabaseConfig,
		newGormDB,
		newRedisCache,
		storage.NewS3Storage,
		async.NewSpawner,
		productSet,
		wire.Bind(new(handlers.ProductService), new(*product.Service)),
		wire.Bind(new(handlers.UploadService), new(*storage.S3Storage)),
		handlers.NewProvider,
		wire.Bind(new(middlewares.Cache), new(*cache.RedisCache)),
		newStoragePing,
		newCachePing,
		httpserver.New,
		NewApplication,
	)
	return nil, nil
}

func newDatabaseConfig(cfg *config.Config) database.Config {
	return database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	}
}

func newGormDB(ctx context.Context, cfg database.Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(ctx, db, log); err != nil {
		return nil, err
	}
	return db, nil
}

func newRedisCache(cfg *config.Config, log zerolog.Logger) (*cache.RedisCache, error) {
	return cache.NewRedisCache(cfg.RedisURL, log)
}

func newStoragePing(s *storage.S3Storage) httpserver.StoragePing {
	return s.Health
}

func newCachePing(c *cache.RedisCache) httpserver.CachePing {
	return c.HealthCheck
}
