package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"guitar-scraper/models"
)

// cleanedHeader mirrors the cleaned table's column order.
var cleanedHeader = []string{
	"Final", "Asking", "Name", "Date", "Condition", "Brand", "Model Year", "Model Color",
}

// CleanedCSV writes the full cleaned table to a CSV file. Missing asking
// prices and model years become empty cells.
type CleanedCSV struct {
	file   *os.File
	writer *csv.Writer
}

// NewCleanedCSV creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCleanedCSV(path string) (*CleanedCSV, error) {
	f, w, err := createCSV(path, cleanedHeader)
	if err != nil {
		return nil, err
	}
	return &CleanedCSV{file: f, writer: w}, nil
}

// Write appends all cleaned rows to the file.
func (c *CleanedCSV) Write(rows []models.CleanedRow) error {
	for i := range rows {
		r := &rows[i]

		asking := ""
		if r.HasAsking() {
			asking = formatFloat(r.Asking)
		}
		year := ""
		if r.HasYear() {
			year = strconv.Itoa(r.ModelYear)
		}

		row := []string{
			formatFloat(r.Final),
			asking,
			r.Name,
			r.Date,
			r.Condition,
			r.Brand,
			year,
			r.ModelColor,
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CleanedCSV) Close() error {
	c.writer.Flush()
	return c.file.Close()
}

// WriteFeatureCSV writes the one-hot feature table in a single shot; its
// header comes from the table itself since the one-hot columns depend on
// the data.
func WriteFeatureCSV(path string, table *models.FeatureTable) error {
	f, w, err := createCSV(path, table.Columns)
	if err != nil {
		return err
	}
	defer f.Close()

	for _, values := range table.Rows {
		row := make([]string, len(values))
		for i, v := range values {
			row[i] = formatFloat(v)
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("csv: write feature row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

func createCSV(path string, header []string) (*os.File, *csv.Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		_ = f.Close()
		return nil, nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return f, w, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
