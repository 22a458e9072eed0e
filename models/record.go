package models

import "math"

// SaleRecord holds one historical sale event exactly as displayed on a
// listing's price-history table. All fields are raw, unparsed text.
type SaleRecord struct {
	Name      string `json:"name"`
	Date      string `json:"date"`
	Condition string `json:"condition"`
	Asking    string `json:"asking"`
	Final     string `json:"final"`
}

// CleanedRow is a SaleRecord plus the derived, numeric fields. Missing
// Asking is NaN; missing ModelYear is 0 (no real model year is 0).
type CleanedRow struct {
	Final      float64
	Asking     float64
	Name       string
	Date       string
	Condition  string
	Brand      string
	ModelYear  int
	ModelColor string
}

// HasYear reports whether a model year was extracted from the title.
func (r *CleanedRow) HasYear() bool { return r.ModelYear != 0 }

// HasAsking reports whether the asking price parsed to a real number.
func (r *CleanedRow) HasAsking() bool { return !math.IsNaN(r.Asking) }

// FeatureTable is the numeric projection of the cleaned rows: Final,
// Asking and Model Year followed by one-hot indicator columns for Brand,
// Condition and Model Color.
type FeatureTable struct {
	Columns []string
	Rows    [][]float64
}

// InsightReport holds the summary statistics printed after a transform run.
type InsightReport struct {
	TotalSales    int
	DistinctBrand int
	AverageFinal  float64
	MinFinal      float64
	MaxFinal      float64
	PriciestSale  *CleanedRow
	SalesByBrand  map[string]int
	SalesByColor  map[string]int
}
