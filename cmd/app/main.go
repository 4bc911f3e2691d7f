package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexivanou/geotemp-api/internal/api"
	"github.com/alexivanou/geotemp-api/internal/config"
	"github.com/alexivanou/geotemp-api/internal/database"
	"github.com/alexivanou/geotemp-api/internal/kv"
	"github.com/alexivanou/geotemp-api/internal/metrics"
	"github.com/alexivanou/geotemp-api/internal/repository"
	"github.com/alexivanou/geotemp-api/internal/seeder"
	"github.com/alexivanou/geotemp-api/internal/service"
	"github.com/alexivanou/geotemp-api/internal/stats"
	"go.uber.org/zap"
)

const migrationsRoot = "migrations"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

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

	if err := database.Migrate(db, cfg.DB, migrationsRoot); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	repos := repository.NewRepositories(kv.NewSQLStore(db))
	m := metrics.New()
	svc := service.NewService(repos,
		service.WithLogger(logger.Named("service")),
		service.WithMetrics(m),
	)

	if cfg.Seeder.AutoSeed {
		isEmpty, err := repository.IsStoreEmpty(ctx, repos)
		if err != nil {
			logger.Warn("Failed to check if store is empty", zap.Error(err))
		} else if isEmpty {
			logger.Info("Store is empty, auto-seeding data...")
			if err := autoSeed(ctx, svc, cfg.Seeder, logger); err != nil {
				logger.Warn("Auto-seeding skipped", zap.Error(err))
			}
		}
	}

	statsCollector := stats.NewCollector(db, cfg.DB, repos)
	router := api.NewRouter(svc, statsCollector, m, logger.Named("http"))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
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

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = level
	return zcfg.Build()
}

func autoSeed(ctx context.Context, svc *service.Service, cfg config.SeederConfig, logger *zap.Logger) error {
	parser := seeder.NewParser(cfg)

	logger.Info("Parsing countries...")
	countries, err := parser.ParseCountries()
	if err != nil {
		return fmt.Errorf("failed to parse countries: %w", err)
	}

	logger.Info("Parsing cities...", zap.String("file", cfg.CitiesFile))
	cities, err := parser.ParseCities()
	if err != nil {
		return fmt.Errorf("failed to parse cities: %w", err)
	}

	if _, err := seeder.New(svc, logger.Named("seeder")).Seed(ctx, countries, cities); err != nil {
		return fmt.Errorf("failed to seed: %w", err)
	}
	return nil
}
