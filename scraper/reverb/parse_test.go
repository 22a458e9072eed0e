package reverb

import (
	"reflect"
	"strings"
	"testing"
)

const listingPageHTML = `
<html><body>
  <h1 class="heading-1">Fender Stratocaster 1965 Sunburst</h1>
  <table>
    <tr><td class="date">Date</td><td class="condition">Condition</td></tr>
    <tr>
      <td class="date">Jan 5, 2020</td>
      <td class="condition">Excellent</td>
      <td class="price-history-table-price">$1,000</td>
      <td class="price-history-table-price">$1,250</td>
    </tr>
    <tr>
      <td class="date">Mar 9, 2020</td>
      <td class="condition">Good</td>
      <td class="price-history-table-price">FREE</td>
      <td class="price-history-table-price">$980</td>
    </tr>
  </table>
</body></html>`

func TestParseSaleRecords(t *testing.T) {
	records, err := ParseSaleRecords(listingPageHTML, "https://example.com/guide/1")
	if err != nil {
		t.Fatalf("ParseSaleRecords returned error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records; want 2 (header row skipped)", len(records))
	}

	first := records[0]
	if first.Name != "Fender Stratocaster 1965 Sunburst" {
		t.Errorf("Name = %q", first.Name)
	}
	if first.Date != "Jan 5, 2020" || first.Condition != "Excellent" {
		t.Errorf("first record header not skipped: %+v", first)
	}
	if first.Asking != "$1,000" || first.Final != "$1,250" {
		t.Errorf("price parity wrong: asking=%q final=%q", first.Asking, first.Final)
	}

	second := records[1]
	if second.Asking != "FREE" || second.Final != "$980" {
		t.Errorf("second record prices: asking=%q final=%q", second.Asking, second.Final)
	}
	if second.Name != first.Name {
		t.Error("heading must apply to every record of the listing")
	}
}

func TestParseSaleRecordsNoHistory(t *testing.T) {
	records, err := ParseSaleRecords(`<html><body><h1 class="heading-1">X</h1></body></html>`, "link")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if records != nil {
		t.Errorf("got %d records for a listing with no sale history; want none", len(records))
	}
}

func TestParseSaleRecordsCountMismatch(t *testing.T) {
	// Drop one price cell so prices no longer pair with the sale rows.
	broken := strings.Replace(listingPageHTML,
		`<td class="price-history-table-price">$980</td>`, "", 1)

	_, err := ParseSaleRecords(broken, "https://example.com/guide/1")
	if err == nil {
		t.Fatal("expected mismatch error, got none")
	}
	for _, want := range []string{"https://example.com/guide/1", "3 dates", "3 conditions", "3 prices"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("mismatch error %q missing %q", err.Error(), want)
		}
	}
}

func TestParseListingLinks(t *testing.T) {
	html := `
	<html><body>
	  <a href="https://reverb.com/price-guide/guide/111">A</a>
	  <a href="/about">About</a>
	  <a href="https://reverb.com/price-guide/guide/222">B</a>
	  <a href="https://reverb.com/price-guide/guide/111">A again</a>
	  <a>no href</a>
	</body></html>`

	links, err := ParseListingLinks(html)
	if err != nil {
		t.Fatalf("ParseListingLinks returned error: %v", err)
	}

	// Document order, duplicates preserved: dedup is not this layer's job.
	want := []string{
		"https://reverb.com/price-guide/guide/111",
		"https://reverb.com/price-guide/guide/222",
		"https://reverb.com/price-guide/guide/111",
	}
	if !reflect.DeepEqual(links, want) {
		t.Errorf("links = %v; want %v", links, want)
	}
}
