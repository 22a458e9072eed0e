package reverb

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"guitar-scraper/models"
)

// ParseListingLinks extracts every anchor href containing the price-guide
// path fragment, in document order. No deduplication: pagination may show a
// link twice and the output reflects that.
func ParseListingLinks(html string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse listing links: %w", err)
	}

	var links []string
	doc.Find("a").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		if strings.Contains(href, guidePathFragment) {
			links = append(links, href)
		}
	})
	return links, nil
}

// ParseSaleRecords extracts the sale-history rows from a listing page.
//
// The first date and condition entries are table headers and are skipped;
// the remainder pair one-to-one in document order. Price cells alternate
// asking, final, asking, final. A count mismatch between the three element
// groups means the page layout shifted under us — that is a fatal error
// carrying the link and counts, never a silent misalignment.
func ParseSaleRecords(html, link string) ([]models.SaleRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse sale records %s: %w", link, err)
	}

	name := strings.TrimSpace(doc.Find(headingSelector).First().Text())
	dates := elementTexts(doc, dateSelector)
	conditions := elementTexts(doc, conditionSelector)
	prices := elementTexts(doc, priceSelector)

	if len(dates) == 0 {
		return nil, nil
	}
	if len(conditions) != len(dates) || len(prices) != 2*(len(dates)-1) {
		return nil, fmt.Errorf(
			"sale-history mismatch at %s: %d dates, %d conditions, %d prices",
			link, len(dates), len(conditions), len(prices))
	}

	records := make([]models.SaleRecord, 0, len(dates)-1)
	for i := 1; i < len(dates); i++ {
		records = append(records, models.SaleRecord{
			Name:      name,
			Date:      dates[i],
			Condition: conditions[i],
			Asking:    prices[2*(i-1)],
			Final:     prices[2*(i-1)+1],
		})
	}
	return records, nil
}

func elementTexts(doc *goquery.Document, selector string) []string {
	var texts []string
	doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		texts = append(texts, strings.TrimSpace(sel.Text()))
	})
	return texts
}
