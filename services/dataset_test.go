package services

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"testing"

	"guitar-scraper/models"
)

func saleRecord(name, condition, asking, final string) models.SaleRecord {
	return models.SaleRecord{
		Name:      name,
		Date:      "Jan 1, 2020",
		Condition: condition,
		Asking:    asking,
		Final:     final,
	}
}

func TestBuildTopBrandFilter(t *testing.T) {
	b := NewDatasetBuilder(newTestLogger())

	// 21 brands with strictly decreasing sale counts; rank 21 has one sale.
	var records []models.SaleRecord
	for i := 1; i <= 21; i++ {
		brand := fmt.Sprintf("Brand%02d", i)
		for j := 0; j < 22-i; j++ {
			records = append(records,
				saleRecord(brand+" Special 1965", "Excellent", "$100", "$500"))
		}
	}

	cleaned, features, err := b.Build(records)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	for _, row := range cleaned {
		if row.Brand == "Brand21" {
			t.Fatal("rank-21 brand present in cleaned table")
		}
	}
	for _, col := range features.Columns {
		if col == "Brand21" {
			t.Fatal("rank-21 brand present in feature columns")
		}
	}

	want := len(records) - 1 // only Brand21's single sale drops
	if len(cleaned) != want {
		t.Errorf("cleaned rows = %d; want %d", len(cleaned), want)
	}
}

func TestBuildFinalPriceFilter(t *testing.T) {
	b := NewDatasetBuilder(newTestLogger())

	records := []models.SaleRecord{
		saleRecord("Fender Stratocaster 1965", "Excellent", "$100", "$25"),    // below 30
		saleRecord("Fender Stratocaster 1966", "Excellent", "$100", "$30"),    // boundary, exclusive
		saleRecord("Fender Stratocaster 1967", "Excellent", "$100", "$1,250"), // kept
		saleRecord("Fender Stratocaster 1968", "Excellent", "$100", "$45,000"),
	}

	cleaned, features, err := b.Build(records)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	if len(cleaned) != 4 {
		t.Errorf("cleaned table filtered by price: got %d rows, want 4", len(cleaned))
	}
	if len(features.Rows) != 1 {
		t.Fatalf("feature rows = %d; want 1", len(features.Rows))
	}
	if features.Rows[0][0] != 1250 {
		t.Errorf("surviving feature row Final = %v; want 1250", features.Rows[0][0])
	}
}

func TestBuildDropsMissingYearAndAsking(t *testing.T) {
	b := NewDatasetBuilder(newTestLogger())

	records := []models.SaleRecord{
		saleRecord("Fender Stratocaster", "Good", "$100", "$500"),      // no year
		saleRecord("Fender Stratocaster 1965", "Good", "FREE", "$500"), // missing asking
		saleRecord("Fender Stratocaster 1966", "Good", "$100", "$500"),
	}

	cleaned, features, err := b.Build(records)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	if len(cleaned) != 3 {
		t.Errorf("cleaned rows = %d; want 3 (missing values survive cleaning)", len(cleaned))
	}
	if !math.IsNaN(cleaned[1].Asking) {
		t.Errorf("FREE asking = %v; want NaN", cleaned[1].Asking)
	}
	if len(features.Rows) != 1 {
		t.Errorf("feature rows = %d; want 1", len(features.Rows))
	}
}

func TestBuildFeatureEncoding(t *testing.T) {
	b := NewDatasetBuilder(newTestLogger())

	records := []models.SaleRecord{
		saleRecord("Fender Stratocaster 1965 Sunburst", "Excellent", "$1,000", "$1,250"),
		saleRecord("Gibson Les Paul 1959", "Good", "$2,000", "$5,000"),
	}

	_, features, err := b.Build(records)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	wantColumns := []string{
		"Final", "Asking", "Model Year",
		"Fender", "Gibson",
		"Excellent", "Good",
		"NA", "Sunburst",
	}
	if !reflect.DeepEqual(features.Columns, wantColumns) {
		t.Fatalf("feature columns = %v; want %v", features.Columns, wantColumns)
	}

	wantRows := [][]float64{
		{1250, 1000, 1965, 1, 0, 1, 0, 0, 1},
		{5000, 2000, 1959, 0, 1, 0, 1, 1, 0},
	}
	if !reflect.DeepEqual(features.Rows, wantRows) {
		t.Fatalf("feature rows = %v; want %v", features.Rows, wantRows)
	}
}

func TestBuildMalformedFinalIsFatal(t *testing.T) {
	b := NewDatasetBuilder(newTestLogger())

	records := []models.SaleRecord{
		saleRecord("Fender Stratocaster 1965", "Good", "$100", "FREE"),
	}
	if _, _, err := b.Build(records); err == nil {
		t.Fatal("expected error for unparsable final price, got none")
	}
}

// Re-running the builder on its own cleaned output must remove nothing
// further: the filter predicates are idempotent.
func TestBuildIdempotent(t *testing.T) {
	b := NewDatasetBuilder(newTestLogger())

	records := []models.SaleRecord{
		saleRecord("Fender Stratocaster 1965 Sunburst", "Excellent", "$1,000", "$1,250"),
		saleRecord("Gibson Les Paul 1959", "Good", "FREE", "$5,000"),
		saleRecord("Gibson SG Cherry", "Fair", "$300", "$25"),
	}

	cleaned1, features1, err := b.Build(records)
	if err != nil {
		t.Fatalf("first Build returned error: %v", err)
	}

	cleaned2, features2, err := b.Build(asRecords(cleaned1))
	if err != nil {
		t.Fatalf("second Build returned error: %v", err)
	}

	if len(cleaned2) != len(cleaned1) {
		t.Errorf("second pass cleaned rows = %d; want %d", len(cleaned2), len(cleaned1))
	}
	if !reflect.DeepEqual(features2.Rows, features1.Rows) {
		t.Errorf("second pass feature rows differ:\n got %v\nwant %v", features2.Rows, features1.Rows)
	}
}

func asRecords(rows []models.CleanedRow) []models.SaleRecord {
	records := make([]models.SaleRecord, 0, len(rows))
	for i := range rows {
		r := &rows[i]
		asking := "FREE"
		if r.HasAsking() {
			asking = "$" + strconv.FormatFloat(r.Asking, 'f', -1, 64)
		}
		records = append(records, models.SaleRecord{
			Name:      r.Name,
			Date:      r.Date,
			Condition: r.Condition,
			Asking:    asking,
			Final:     "$" + strconv.FormatFloat(r.Final, 'f', -1, 64),
		})
	}
	return records
}
