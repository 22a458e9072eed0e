package storage

import (
	"path/filepath"
	"reflect"
	"testing"

	"guitar-scraper/models"
)

func TestLinksRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "links.jsonl")

	// Duplicates are part of the contract and must survive persistence.
	links := []string{
		"https://reverb.com/price-guide/guide/1",
		"https://reverb.com/price-guide/guide/2",
		"https://reverb.com/price-guide/guide/1",
	}
	if err := WriteLinks(path, links); err != nil {
		t.Fatalf("WriteLinks: %v", err)
	}

	got, err := ReadLinks(path)
	if err != nil {
		t.Fatalf("ReadLinks: %v", err)
	}
	if !reflect.DeepEqual(got, links) {
		t.Errorf("round trip = %v; want %v", got, links)
	}
}

func TestRecordsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.jsonl")

	records := []models.SaleRecord{
		{Name: "Fender Stratocaster 1965", Date: "Jan 5, 2020", Condition: "Excellent", Asking: "$1,000", Final: "$1,250"},
		{Name: "Gibson Les Paul", Date: "Mar 9, 2020", Condition: "Good", Asking: "FREE", Final: "$980"},
	}
	if err := WriteRecords(path, records); err != nil {
		t.Fatalf("WriteRecords: %v", err)
	}

	got, err := ReadRecords(path)
	if err != nil {
		t.Fatalf("ReadRecords: %v", err)
	}
	if !reflect.DeepEqual(got, records) {
		t.Errorf("round trip = %+v; want %+v", got, records)
	}
}

func TestReadRejectsWrongFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "links.jsonl")

	if err := WriteLinks(path, []string{"https://reverb.com/price-guide/guide/1"}); err != nil {
		t.Fatalf("WriteLinks: %v", err)
	}

	// A link file is not a record file; the header must catch the mix-up.
	if _, err := ReadRecords(path); err == nil {
		t.Fatal("expected format error reading a link file as records, got none")
	}
}

func TestReadMissingFile(t *testing.T) {
	if _, err := ReadRecords(filepath.Join(t.TempDir(), "absent.jsonl")); err == nil {
		t.Fatal("expected error for missing file, got none")
	}
}
