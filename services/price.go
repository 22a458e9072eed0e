package services

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// freeMarker is how the site displays a zero-cost asking price.
const freeMarker = "FREE"

// NormalizePrice converts a display price string ("$1,250.50") to a float.
// The first character is assumed to be a currency symbol. Malformed input
// is an error — callers treat it as fatal, there is no recovery path.
func NormalizePrice(display string) (float64, error) {
	stripped := strings.ReplaceAll(display, ",", "")
	if len(stripped) < 2 {
		return 0, fmt.Errorf("price: malformed display string %q", display)
	}
	val, err := strconv.ParseFloat(stripped[1:], 64)
	if err != nil {
		return 0, fmt.Errorf("price: malformed display string %q: %w", display, err)
	}
	return val, nil
}

// NormalizeAskingPrice is NormalizePrice with the FREE marker mapped to
// missing (NaN). Only asking prices carry the marker; final prices go
// through NormalizePrice directly.
func NormalizeAskingPrice(display string) (float64, error) {
	if display == freeMarker {
		return math.NaN(), nil
	}
	return NormalizePrice(display)
}
