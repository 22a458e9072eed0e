package services

import (
	"regexp"
	"strconv"
	"strings"

	"guitar-scraper/utils"
)

// yearPatterns are tried in strict priority order; the first match's raw
// text is what gets normalized. Order matters: decade markers ("1950s")
// must win over the bare year they contain.
var yearPatterns = []*regexp.Regexp{
	regexp.MustCompile(`19[3-9][0-9]s`),
	regexp.MustCompile(`19[3-9][0-9]`),
	regexp.MustCompile(`20[01]0s`),
	regexp.MustCompile(`20[01][0-9]`),
	regexp.MustCompile(`'[0-9]0s`),
	regexp.MustCompile(`[0-9]0s`),
	regexp.MustCompile(`'[0-9][0-9]`),
}

// decadeRemap maps decade markers in the matched text to a mid-decade year.
// Checked by substring containment in this exact order, first hit wins —
// the re-check on the already-extracted match is kept as-is for output
// compatibility with the existing dataset.
var decadeRemap = []struct {
	marker string
	year   int
}{
	{"00s", 2005},
	{"10s", 2015},
	{"30s", 1935},
	{"50s", 1955},
	{"60s", 1965},
	{"'69", 1969},
	{"70s", 1975},
	{"80s", 1985},
	{"90s", 1995},
}

// modelColors is the fixed color vocabulary, scanned in order. The order is
// part of the output contract: "Burst" precedes "Sunburst", so any sunburst
// title reports "Burst". Known quirk, kept for dataset compatibility.
var modelColors = []string{
	"Burst",
	"Sunburst",
	"Fireburst",
	"Honeyburst",
	"Blue",
	"White",
	"Black",
	"Natural",
	"Blonde",
	"Turquoise",
	"Red",
	"Green",
	"Gold",
	"Silver",
	"Pink",
	"Yellow",
	"Orange",
	"Cherry",
	"Violet",
	"Ebony",
	"Brown",
	"Mahogany",
	"Walnut",
	"Ivory",
}

// TitleParser derives model year and model color from free-text listing titles.
type TitleParser struct {
	logger *utils.Logger
}

// NewTitleParser creates a TitleParser with the given logger.
func NewTitleParser(logger *utils.Logger) *TitleParser {
	return &TitleParser{logger: logger}
}

// ExtractYearText returns the raw matched year text from the title, or ""
// when no pattern matches.
func (p *TitleParser) ExtractYearText(title string) string {
	for _, re := range yearPatterns {
		if m := re.FindString(title); m != "" {
			return m
		}
	}
	return ""
}

// NormalizeYear maps raw matched year text to an integer year. Returns 0
// when the text is empty or cannot be resolved. Raw text like "'59" or
// "'40s" matches a pattern but is neither remapped nor an integer literal;
// those are treated as missing and logged.
func (p *TitleParser) NormalizeYear(raw string) int {
	if raw == "" {
		return 0
	}
	for _, remap := range decadeRemap {
		if strings.Contains(raw, remap.marker) {
			return remap.year
		}
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		p.logger.Warn("[titleparse] Unresolvable year text %q — treating as missing", raw)
		return 0
	}
	return year
}

// ParseYear extracts and normalizes the model year in one call.
func (p *TitleParser) ParseYear(title string) int {
	return p.NormalizeYear(p.ExtractYearText(title))
}

// ParseColor returns the first vocabulary color occurring as a
// case-sensitive substring of the title, or "NA".
func (p *TitleParser) ParseColor(title string) string {
	for _, color := range modelColors {
		if strings.Contains(title, color) {
			return color
		}
	}
	return "NA"
}
