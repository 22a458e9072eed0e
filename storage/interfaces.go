package storage

import "guitar-scraper/models"

// SaleWriter is the interface any cleaned-table storage backend must satisfy.
type SaleWriter interface {
	Write(rows []models.CleanedRow) error
	Close() error
}

var (
	_ SaleWriter = (*CleanedCSV)(nil)
	_ SaleWriter = (*PostgresWriter)(nil)
)
