package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexivanou/tourbook-api/internal/api"
	"github.com/alexivanou/tourbook-api/internal/config"
	"github.com/alexivanou/tourbook-api/internal/database"
	"github.com/alexivanou/tourbook-api/internal/events"
	"github.com/alexivanou/tourbook-api/internal/metrics"
	"github.com/alexivanou/tourbook-api/internal/middleware"
	"github.com/alexivanou/tourbook-api/internal/repository"
	"github.com/alexivanou/tourbook-api/internal/seeder"
	"github.com/alexivanou/tourbook-api/internal/service"
	"github.com/alexivanou/tourbook-api/internal/stats"
	"github.com/alexivanou/tourbook-api/internal/storage"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if err := cfg.Auth.Validate(); err != nil {
		logger.Fatal("Invalid auth configuration", zap.Error(err))
	}

	db, err := database.Connect(context.Background(), cfg.DB)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatal("Failed to ping database", zap.Error(err))
	}
	logger.Info("Connected to database", zap.String("type", string(cfg.DB.Type)))

	ctx := context.Background()
	if err := database.Migrate(db, cfg.DB, "migrations"); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	repos := repository.NewRepositories(db, cfg.DB.Type)

	if cfg.Seeder.AutoSeed {
		isEmpty, err := repository.IsDatabaseEmpty(ctx, db)
		if err != nil {
			logger.Warn("Failed to check if database is empty", zap.Error(err))
		} else if isEmpty {
			logger.Info("Database is empty, auto-seeding geography...")
			parser := seeder.NewParser(cfg.Seeder.DataDir, cfg.Seeder)
			result, err := seeder.Seed(ctx, repos, parser, logger)
			if err != nil {
				logger.Fatal("Failed to auto-seed database", zap.Error(err))
			}
			logger.Info("Database seeded successfully",
				zap.Int("countries", result.Countries),
				zap.Int("cities", result.Cities),
			)
		}
	}

	images, err := storage.NewLocal(cfg.Storage.UploadDir)
	if err != nil {
		logger.Fatal("Failed to prepare upload directory", zap.Error(err))
	}

	var publisher events.Publisher
	if cfg.AMQP.Enabled {
		amqpPublisher := events.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Queue, logger)
		defer amqpPublisher.Close()
		publisher = amqpPublisher
		logger.Info("Publishing reservation events", zap.String("queue", cfg.AMQP.Queue))
	}

	var cache *middleware.Cache
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("Redis unavailable, catalog cache disabled", zap.Error(err))
		} else {
			cache = middleware.NewCache(middleware.NewRedisStore(rdb), cfg.Redis.CacheTTL, cfg.Redis.Prefix, logger)
			logger.Info("Catalog cache enabled", zap.String("addr", cfg.Redis.Addr))
		}
	}

	m := metrics.New(cfg.Metrics.Namespace)
	svc := service.NewService(repos, images, publisher, m, logger)
	statsCollector := stats.NewCollector(db, cfg.DB)
	router := api.NewRouter(svc, statsCollector, api.Options{
		Auth:      middleware.NewAuthenticator(cfg.Auth.JWTSecret),
		Cache:     cache,
		Metrics:   m,
		Logger:    logger,
		UploadDir: images.Root(),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
