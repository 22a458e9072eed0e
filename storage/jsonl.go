package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"guitar-scraper/models"
)

// Each JSONL file starts with a header line naming its format and version,
// so the transform stage can refuse files written by an older layout.
const (
	linksFormat   = "listing-links"
	recordsFormat = "sale-records"
	formatVersion = 1
)

type fileHeader struct {
	Format  string `json:"format"`
	Version int    `json:"version"`
}

type linkLine struct {
	URL string `json:"url"`
}

// WriteLinks persists the collected listing links as JSONL. This runs
// before record extraction starts — it is the recovery checkpoint for a
// crawl that dies mid-extraction.
func WriteLinks(path string, links []string) error {
	return writeJSONL(path, linksFormat, len(links), func(enc *json.Encoder, i int) error {
		return enc.Encode(linkLine{URL: links[i]})
	})
}

// ReadLinks loads a previously persisted link file.
func ReadLinks(path string) ([]string, error) {
	var links []string
	err := readJSONL(path, linksFormat, func(data []byte) error {
		var line linkLine
		if err := json.Unmarshal(data, &line); err != nil {
			return err
		}
		links = append(links, line.URL)
		return nil
	})
	return links, err
}

// WriteRecords persists the raw sale records as JSONL.
func WriteRecords(path string, records []models.SaleRecord) error {
	return writeJSONL(path, recordsFormat, len(records), func(enc *json.Encoder, i int) error {
		return enc.Encode(records[i])
	})
}

// ReadRecords loads the raw sale records written by the scrape stage.
func ReadRecords(path string) ([]models.SaleRecord, error) {
	var records []models.SaleRecord
	err := readJSONL(path, recordsFormat, func(data []byte) error {
		var rec models.SaleRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return err
		}
		records = append(records, rec)
		return nil
	})
	return records, err
}

func writeJSONL(path, format string, n int, encodeLine func(*json.Encoder, int) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("jsonl: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("jsonl: create %q: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)

	if err := enc.Encode(fileHeader{Format: format, Version: formatVersion}); err != nil {
		return fmt.Errorf("jsonl: write header: %w", err)
	}
	for i := 0; i < n; i++ {
		if err := encodeLine(enc, i); err != nil {
			return fmt.Errorf("jsonl: write line %d: %w", i, err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("jsonl: flush %q: %w", path, err)
	}
	return f.Close()
}

func readJSONL(path, format string, decodeLine func([]byte) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("jsonl: open %q: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if !scanner.Scan() {
		return fmt.Errorf("jsonl: %q is empty", path)
	}
	var header fileHeader
	if err := json.Unmarshal(scanner.Bytes(), &header); err != nil {
		return fmt.Errorf("jsonl: bad header in %q: %w", path, err)
	}
	if header.Format != format || header.Version != formatVersion {
		return fmt.Errorf("jsonl: %q has format %s/v%d, want %s/v%d",
			path, header.Format, header.Version, format, formatVersion)
	}

	line := 1
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		if err := decodeLine(scanner.Bytes()); err != nil {
			return fmt.Errorf("jsonl: %q line %d: %w", path, line, err)
		}
	}
	return scanner.Err()
}
