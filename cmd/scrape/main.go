package main

import (
	"os"

	"guitar-scraper/config"
	"guitar-scraper/scraper/reverb"
	"guitar-scraper/storage"
	"guitar-scraper/utils"
)

func main() {
	cfg := config.Load()
	logger := utils.NewLogger(cfg.Debug)

	logger.Info("=== Guitar sale scraper starting ===")
	logger.Info("Config — pages: %d | links: %s | records: %s",
		cfg.PagesToCrawl, cfg.LinksPath, cfg.RecordsPath)

	if err := cfg.ValidateCredentials(); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}

	scraper := reverb.New(cfg, logger)

	var links []string
	if cfg.ResumeFromLinks {
		loaded, err := storage.ReadLinks(cfg.LinksPath)
		if err != nil {
			logger.Error("Resume requested but link file unusable: %v", err)
			os.Exit(1)
		}
		links = loaded
		logger.Info("Resuming from %s — %d links", cfg.LinksPath, len(links))
	} else {
		collected, err := scraper.CollectLinks()
		if err != nil {
			logger.Error("Link collection failed: %v", err)
			os.Exit(1)
		}
		links = collected

		// Checkpoint: links go to disk before any record extraction, so a
		// crash mid-extraction does not force a full re-crawl.
		if err := storage.WriteLinks(cfg.LinksPath, links); err != nil {
			logger.Error("Failed to persist links: %v", err)
			os.Exit(1)
		}
		logger.Info("Persisted %d links to %s", len(links), cfg.LinksPath)
	}

	if len(links) == 0 {
		logger.Error("No listing links collected. Exiting.")
		os.Exit(1)
	}

	records, err := scraper.ExtractRecords(links)
	if err != nil {
		logger.Error("Record extraction failed: %v", err)
		os.Exit(1)
	}
	if err := storage.WriteRecords(cfg.RecordsPath, records); err != nil {
		logger.Error("Failed to persist records: %v", err)
		os.Exit(1)
	}

	logger.Info("Done — %d sale records saved to %s", len(records), cfg.RecordsPath)
}
