package main

import (
	"os"

	"guitar-scraper/config"
	"guitar-scraper/services"
	"guitar-scraper/storage"
	"guitar-scraper/utils"
)

func main() {
	cfg := config.Load()
	logger := utils.NewLogger(cfg.Debug)

	logger.Info("=== Guitar sale transform starting ===")

	records, err := storage.ReadRecords(cfg.RecordsPath)
	if err != nil {
		logger.Error("Failed to load sale records: %v", err)
		os.Exit(1)
	}
	if len(records) == 0 {
		logger.Error("No sale records in %s. Run the scrape stage first.", cfg.RecordsPath)
		os.Exit(1)
	}
	logger.Info("Loaded %d raw sale records from %s", len(records), cfg.RecordsPath)

	builder := services.NewDatasetBuilder(logger)
	cleaned, features, err := builder.Build(records)
	if err != nil {
		logger.Error("Dataset build failed: %v", err)
		os.Exit(1)
	}

	cleanedCSV, err := storage.NewCleanedCSV(cfg.CleanedPath)
	if err != nil {
		logger.Error("Failed to create cleaned CSV: %v", err)
		os.Exit(1)
	}
	if err := cleanedCSV.Write(cleaned); err != nil {
		logger.Error("Cleaned CSV write failed: %v", err)
		os.Exit(1)
	}
	if err := cleanedCSV.Close(); err != nil {
		logger.Error("Cleaned CSV close failed: %v", err)
		os.Exit(1)
	}
	logger.Info("Cleaned table saved to %s", cfg.CleanedPath)

	if err := storage.WriteFeatureCSV(cfg.FeaturesPath, features); err != nil {
		logger.Error("Feature CSV write failed: %v", err)
		os.Exit(1)
	}
	logger.Info("Feature table saved to %s", cfg.FeaturesPath)

	pgWriter, err := storage.NewPostgresWriter(cfg.DSN())
	if err != nil {
		logger.Error("Failed to connect to PostgreSQL: %v", err)
		logger.Error("Make sure Docker is running: docker compose up -d")
		os.Exit(1)
	}
	defer pgWriter.Close()

	if err := pgWriter.Write(cleaned); err != nil {
		logger.Error("PostgreSQL write failed: %v", err)
	} else {
		logger.Info("Cleaned rows stored in PostgreSQL (table: guitar_sales)")
	}

	dbRows, err := pgWriter.FetchAll()
	if err != nil {
		logger.Error("Failed to fetch rows from DB for insights: %v", err)
		dbRows = cleaned
	}

	insightSvc := services.NewInsightService(logger)
	insightSvc.Print(insightSvc.Generate(dbRows))
}
