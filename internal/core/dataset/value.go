package dataset

import (
	"strings"

	"github.com/shopspring/decimal"
)

// nullTokens are cell contents treated as missing values. CSV exports
// from spreadsheet tools spell "no data" many ways.
var nullTokens = map[string]struct{}{
	"":     {},
	"null": {},
	"nan":  {},
	"na":   {},
	"n/a":  {},
	"none": {},
	"-":    {},
}

// ParseValue converts a raw CSV cell into an exact decimal. Reports false
// for null-ish tokens and anything decimal can't parse; the caller drops
// those rows instead of aborting the load. Thousands separators and a
// leading currency sign are tolerated.
func ParseValue(raw string) (decimal.Decimal, bool) {
	raw = strings.TrimSpace(raw)
	if _, null := nullTokens[strings.ToLower(raw)]; null {
		return decimal.Zero, false
	}

	raw = strings.TrimPrefix(raw, "$")
	raw = strings.ReplaceAll(raw, ",", "")

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
