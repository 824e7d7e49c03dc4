// Package money formats amounts for documents and messages. Values are
// rounded half away from zero to two decimals through shopspring/decimal so
// printed totals match what the pricing code computed.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Round2 rounds v to cents.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// Amount renders v with two decimals and comma thousands separators,
// e.g. 12345.5 -> "12,345.50".
func Amount(v float64) string {
	s := decimal.NewFromFloat(v).StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := b.String() + "." + frac
	if neg && strings.Trim(out, "0.,") != "" {
		out = "-" + out
	}
	return out
}

// Format prefixes Amount with a currency symbol: "S/ 1,180.00".
func Format(symbol string, v float64) string {
	return symbol + " " + Amount(v)
}
