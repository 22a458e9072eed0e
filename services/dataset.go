package services

import (
	"fmt"
	"sort"
	"strings"

	"guitar-scraper/models"
	"guitar-scraper/utils"
)

const (
	topBrandCount = 20

	// Final-price outlier bounds, both exclusive.
	minFinalPrice = 30
	maxFinalPrice = 40000
)

// DatasetBuilder turns raw sale records into the cleaned table and the
// one-hot encoded feature table.
type DatasetBuilder struct {
	logger *utils.Logger
	titles *TitleParser
}

// NewDatasetBuilder creates a DatasetBuilder with the given logger.
func NewDatasetBuilder(logger *utils.Logger) *DatasetBuilder {
	return &DatasetBuilder{
		logger: logger,
		titles: NewTitleParser(logger),
	}
}

// Build derives the cleaned table from raw records and projects it into the
// feature table. The cleaned table keeps every row whose brand ranks in the
// top twenty by sale count; the feature table further drops rows with a
// missing model year or asking price and final prices outside the
// (30, 40000) range.
func (b *DatasetBuilder) Build(records []models.SaleRecord) ([]models.CleanedRow, *models.FeatureTable, error) {
	top := topBrands(records, topBrandCount)

	cleaned := make([]models.CleanedRow, 0, len(records))
	for i, rec := range records {
		brand := firstToken(rec.Name)
		if _, ok := top[brand]; !ok {
			continue
		}

		final, err := NormalizePrice(rec.Final)
		if err != nil {
			return nil, nil, fmt.Errorf("record %d (%q): final %w", i, rec.Name, err)
		}
		asking, err := NormalizeAskingPrice(rec.Asking)
		if err != nil {
			return nil, nil, fmt.Errorf("record %d (%q): asking %w", i, rec.Name, err)
		}

		cleaned = append(cleaned, models.CleanedRow{
			Final:      final,
			Asking:     asking,
			Name:       rec.Name,
			Date:       rec.Date,
			Condition:  rec.Condition,
			Brand:      brand,
			ModelYear:  b.titles.ParseYear(rec.Name),
			ModelColor: b.titles.ParseColor(rec.Name),
		})
	}

	b.logger.Info("[dataset] Cleaned %d → %d rows (top-%d brand filter)",
		len(records), len(cleaned), topBrandCount)

	features := b.encode(cleaned)
	b.logger.Info("[dataset] Feature table: %d rows × %d columns",
		len(features.Rows), len(features.Columns))

	return cleaned, features, nil
}

// encode filters the cleaned rows and one-hot encodes the categoricals.
func (b *DatasetBuilder) encode(cleaned []models.CleanedRow) *models.FeatureTable {
	kept := make([]*models.CleanedRow, 0, len(cleaned))
	for i := range cleaned {
		row := &cleaned[i]
		if !row.HasYear() || !row.HasAsking() {
			continue
		}
		if row.Final <= minFinalPrice || row.Final >= maxFinalPrice {
			continue
		}
		kept = append(kept, row)
	}

	brands := categories(kept, func(r *models.CleanedRow) string { return r.Brand })
	conditions := categories(kept, func(r *models.CleanedRow) string { return r.Condition })
	colors := categories(kept, func(r *models.CleanedRow) string { return r.ModelColor })

	columns := []string{"Final", "Asking", "Model Year"}
	columns = append(columns, brands...)
	columns = append(columns, conditions...)
	columns = append(columns, colors...)

	rows := make([][]float64, 0, len(kept))
	for _, r := range kept {
		row := make([]float64, 0, len(columns))
		row = append(row, r.Final, r.Asking, float64(r.ModelYear))
		row = append(row, indicators(brands, r.Brand)...)
		row = append(row, indicators(conditions, r.Condition)...)
		row = append(row, indicators(colors, r.ModelColor)...)
		rows = append(rows, row)
	}

	return &models.FeatureTable{Columns: columns, Rows: rows}
}

// topBrands returns the n most frequent brands as a set. Ties are broken by
// earlier first occurrence so the cut is deterministic.
func topBrands(records []models.SaleRecord, n int) map[string]struct{} {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	for i, rec := range records {
		brand := firstToken(rec.Name)
		if brand == "" {
			continue
		}
		if _, ok := firstSeen[brand]; !ok {
			firstSeen[brand] = i
		}
		counts[brand]++
	}

	ranked := make([]string, 0, len(counts))
	for brand := range counts {
		ranked = append(ranked, brand)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if counts[ranked[i]] != counts[ranked[j]] {
			return counts[ranked[i]] > counts[ranked[j]]
		}
		return firstSeen[ranked[i]] < firstSeen[ranked[j]]
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}

	top := make(map[string]struct{}, len(ranked))
	for _, brand := range ranked {
		top[brand] = struct{}{}
	}
	return top
}

// categories collects the sorted distinct values of one categorical column.
func categories(rows []*models.CleanedRow, get func(*models.CleanedRow) string) []string {
	seen := make(map[string]struct{})
	for _, r := range rows {
		seen[get(r)] = struct{}{}
	}
	values := make([]string, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

// indicators expands one categorical value into its one-hot columns.
func indicators(values []string, value string) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		if v == value {
			out[i] = 1
		}
	}
	return out
}

// firstToken returns the first whitespace-delimited token of a title, or ""
// for blank titles. Blank brands never rank in the top twenty.
func firstToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
