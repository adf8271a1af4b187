package main

import (
	"context"
	"flag"
	"log"

	"github.com/alexivanou/tourbook-api/internal/config"
	"github.com/alexivanou/tourbook-api/internal/database"
	"github.com/alexivanou/tourbook-api/internal/repository"
	"github.com/alexivanou/tourbook-api/internal/seeder"
	"go.uber.org/zap"
)

func main() {
	migrations := flag.String("migrations", "migrations", "Directory holding the migration sets")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
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

	// Make sure the schema exists before importing
	if err := database.Migrate(db, cfg.DB, *migrations); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	logger.Info("Starting data import...", zap.String("data_dir", cfg.Seeder.DataDir))
	parser := seeder.NewParser(cfg.Seeder.DataDir, cfg.Seeder)
	repos := repository.NewRepositories(db, cfg.DB.Type)

	result, err := seeder.Seed(context.Background(), repos, parser, logger)
	if err != nil {
		logger.Fatal("Data import failed", zap.Error(err))
	}

	logger.Info("Data import completed successfully!",
		zap.Int("countries", result.Countries),
		zap.Int("cities", result.Cities),
		zap.Int("skipped_cities", result.SkippedCities),
	)
}
