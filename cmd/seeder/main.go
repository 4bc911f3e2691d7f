package main

import (
	"context"
	"log"

	"github.com/alexivanou/geotemp-api/internal/config"
	"github.com/alexivanou/geotemp-api/internal/database"
	"github.com/alexivanou/geotemp-api/internal/kv"
	"github.com/alexivanou/geotemp-api/internal/repository"
	"github.com/alexivanou/geotemp-api/internal/seeder"
	"github.com/alexivanou/geotemp-api/internal/service"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}
	if cfg.DB.IsMemory() {
		logger.Warn("In-memory database is discarded when this command exits; the server seeds itself on start")
	}

	ctx := context.Background()

	db, err := database.Connect(ctx, cfg.DB)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatal("Failed to ping database", zap.Error(err))
	}
	logger.Info("Connected to database", zap.String("type", string(cfg.DB.Type)))

	if err := database.Migrate(db, cfg.DB, "migrations"); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	parser := seeder.NewParser(cfg.Seeder)

	logger.Info("Parsing countries...")
	countries, err := parser.ParseCountries()
	if err != nil {
		logger.Fatal("Failed to parse countries", zap.Error(err))
	}

	logger.Info("Parsing cities...", zap.String("file", cfg.Seeder.CitiesFile))
	cities, err := parser.ParseCities()
	if err != nil {
		logger.Fatal("Failed to parse cities", zap.Error(err))
	}

	repos := repository.NewRepositories(kv.NewSQLStore(db))
	svc := service.NewService(repos, service.WithLogger(logger))

	res, err := seeder.New(svc, logger).Seed(ctx, countries, cities)
	if err != nil {
		logger.Fatal("Failed to import data", zap.Error(err))
	}

	logger.Info("Data import completed successfully!",
		zap.Int("countries", res.Countries),
		zap.Int("cities", res.Cities),
		zap.Int("skipped", res.SkippedCountries+res.SkippedCities),
	)
}
