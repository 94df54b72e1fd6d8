// Series Board serves an interactive multi-series timeseries dashboard over
// CSV datasets: actual/forecast charts, a ranked sidebar, a geographic map,
// and optional exception analysis.
package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/1broseidon/seriesboard/internal/api"
	"github.com/1broseidon/seriesboard/internal/config"
	"github.com/1broseidon/seriesboard/internal/dataset"
	"github.com/1broseidon/seriesboard/internal/dispatch"
	"github.com/1broseidon/seriesboard/internal/logging"
	"github.com/1broseidon/seriesboard/internal/metrics"
	"github.com/1broseidon/seriesboard/internal/store"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "config.yml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize logger
	logger, err := logging.InitLogger(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
		Fields: cfg.Logging.Fields,
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// Create Prometheus registry
	registry := prometheus.NewRegistry()
	metricsInstance := metrics.NewMetrics(registry)

	// Load the series table
	schema := dataset.SchemaFromConfig(cfg.Data.Columns)
	seriesStore, err := dataset.LoadSeries(cfg.Data.SeriesPath, schema, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load series table")
	}

	// Load the optional ranking table
	var ranking *store.RankingTable
	if cfg.Data.RankingPath != "" {
		ranking, err = dataset.LoadRanking(cfg.Data.RankingPath, cfg.Data.Columns.SeriesID, store.RankingOptions{
			RankColumn:      cfg.Data.RankColumn,
			LatitudeColumn:  cfg.Data.LatitudeColumn,
			LongitudeColumn: cfg.Data.LongitudeColumn,
			ColorColumn:     cfg.Data.MapColorColumn,
		}, logger)
		if err != nil {
			logger.WithError(err).Fatal("Failed to load ranking table")
		}
	}

	// Load the optional exceptions table
	var exceptions *store.ExceptionStore
	if cfg.Data.ExceptionsPath != "" {
		exceptions, err = dataset.LoadExceptions(
			cfg.Data.ExceptionsPath,
			cfg.Data.Columns.SeriesID,
			cfg.Data.Columns.Timestamp,
			cfg.Data.ExceptionCountColumn,
			logger,
		)
		if err != nil {
			logger.WithError(err).Fatal("Failed to load exceptions table")
		}
	}

	// Build the dispatch session over the loaded stores
	session, err := dispatch.NewSession(seriesStore, ranking, exceptions, dispatch.Options{
		DisplayCount: cfg.Data.DisplayCount,
		ShowFeatures: schema.HasFeatures(),
		Logger:       logger,
		Metrics:      metricsInstance,
	})
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize session")
	}

	// Create and start the server
	server := api.NewServer(cfg, session, logger, registry)

	go func() {
		if err := server.Start(); err != nil {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	logger.Info("Series Board started successfully")

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down Series Board...")

	// Gracefully shutdown the server
	if err := server.Stop(); err != nil {
		logger.WithError(err).Error("Failed to shutdown server gracefully")
	}

	logger.Info("Series Board stopped")
}
