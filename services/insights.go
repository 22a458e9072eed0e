package services

import (
	"fmt"
	"sort"
	"strings"

	"guitar-scraper/models"
	"guitar-scraper/utils"
)

// InsightService summarises the cleaned dataset after a transform run.
type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

func (s *InsightService) Generate(rows []models.CleanedRow) *models.InsightReport {
	report := &models.InsightReport{
		SalesByBrand: make(map[string]int),
		SalesByColor: make(map[string]int),
	}

	if len(rows) == 0 {
		return report
	}

	report.TotalSales = len(rows)
	report.MinFinal = rows[0].Final
	report.MaxFinal = rows[0].Final

	var total float64
	for i := range rows {
		r := &rows[i]
		report.SalesByBrand[r.Brand]++
		if r.ModelColor != "NA" {
			report.SalesByColor[r.ModelColor]++
		}

		total += r.Final
		if r.Final < report.MinFinal {
			report.MinFinal = r.Final
		}
		if r.Final > report.MaxFinal {
			report.MaxFinal = r.Final
			report.PriciestSale = r
		}
	}

	report.DistinctBrand = len(report.SalesByBrand)
	report.AverageFinal = round2(total / float64(len(rows)))
	report.MinFinal = round2(report.MinFinal)
	report.MaxFinal = round2(report.MaxFinal)

	return report
}

func (s *InsightService) Print(r *models.InsightReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  GUITAR SALES INSIGHTS\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	fmt.Printf("\033[1;33m  Overview\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Total sales     : \033[1m%d\033[0m\n", r.TotalSales)
	fmt.Printf("  Distinct brands : \033[1m%d\033[0m\n", r.DistinctBrand)
	fmt.Println()

	fmt.Printf("\033[1;33m  Final Price Statistics\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if r.TotalSales > 0 {
		fmt.Printf("  Average : \033[1;32m$%.2f\033[0m\n", r.AverageFinal)
		fmt.Printf("  Minimum : \033[1;32m$%.2f\033[0m\n", r.MinFinal)
		fmt.Printf("  Maximum : \033[1;32m$%.2f\033[0m\n", r.MaxFinal)
	} else {
		fmt.Printf("  No price data available\n")
	}
	fmt.Println()

	if r.PriciestSale != nil {
		fmt.Printf("\033[1;33m  Priciest Sale\033[0m\n")
		fmt.Printf("  %s\n", thin)
		fmt.Printf("  %s\n", truncate(r.PriciestSale.Name, 50))
		fmt.Printf("  Condition : %s\n", r.PriciestSale.Condition)
		fmt.Printf("  Sold for  : \033[1;31m$%.2f\033[0m\n", r.PriciestSale.Final)
		fmt.Println()
	}

	fmt.Printf("\033[1;33m  Sales by Brand\033[0m\n")
	fmt.Printf("  %s\n", thin)
	printCounts(r.SalesByBrand)
	fmt.Println()

	fmt.Printf("\033[1;33m  Sales by Color\033[0m\n")
	fmt.Printf("  %s\n", thin)
	printCounts(r.SalesByColor)

	fmt.Printf("\n\033[1;35m%s\033[0m\n\n", sep)
}

func printCounts(counts map[string]int) {
	if len(counts) == 0 {
		fmt.Printf("  No data\n")
		return
	}

	type entry struct {
		name  string
		count int
	}
	entries := make([]entry, 0, len(counts))
	for name, count := range counts {
		entries = append(entries, entry{name, count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].name < entries[j].name
	})

	for _, e := range entries {
		fmt.Printf("  %-20s %d\n", truncate(e.name, 18), e.count)
	}
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
