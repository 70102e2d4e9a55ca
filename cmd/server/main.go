package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
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
	"github.com/jujinjujeen/fuga/internal/jobs"
	"github.com/jujinjujeen/fuga/internal/utils/async"
)

type Application struct {
	httpServer *httpserver.HttpServer
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		log:        log,
	}
}

func (a *Application) Start(ctx context.Context) error {
	return a.httpServer.Run(ctx)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}

	if err := database.AutoMigrate(ctx, db, log); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	objectStore, err := storage.NewS3Storage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize storage")
	}

	redisCache, err := cache.NewRedisCache(cfg.RedisURL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("connect redis")
	}
	defer redisCache.Close()

	productRepository := repo.NewRepository(db)
	imageService := imagedomain.NewService(objectStore, log)
	productService := product.NewService(
		productRepository,
		imageService,
		objectStore,
		redisCache,
		async.NewSpawner(log),
		log,
	)

	reclaimer := jobs.NewReclaimer(objectStore, productRepository, cfg, log)
	scheduler, err := jobs.Schedule(ctx, reclaimer, cfg.CleanupSchedule)
	if err != nil {
		log.Fatal().Err(err).Msg("schedule reclamation job")
	}
	defer scheduler.Stop()

	provider := handlers.NewProvider(cfg, productService, objectStore, log)
	httpServer := httpserver.New(cfg, log, provider, redisCache, objectStore.Health, redisCache.HealthCheck)
	app := NewApplication(httpServer, log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
