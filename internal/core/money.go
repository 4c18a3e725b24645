package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseSum converts user text into a positive decimal sum.
//
// Both dot (12.34) and comma (12,34) decimal separators are accepted.
// Signs, non-numeric input, zero and more than two decimal places are
// rejected with a ValidationError.
func ParseSum(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return decimal.Zero, invalid("sum", ErrInvalidSum)
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil || !d.IsPositive() {
		return decimal.Zero, invalid("sum", ErrInvalidSum)
	}
	if !hasCentPrecision(d) {
		return decimal.Zero, invalid("sum", ErrSumPrecision)
	}
	return d, nil
}

// hasCentPrecision reports whether d has no digits below the cent.
func hasCentPrecision(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(2))
}

// Round2 rounds half away from zero to two decimal places, which for the
// positive amounts handled here is half-up rounding.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
