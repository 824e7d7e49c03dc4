package utils

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	slugInvalid = regexp.MustCompile("[^a-z0-9-]+")
	slugDashes  = regexp.MustCompile("-+")
)

// Slugify converts a product name to a URL-friendly slug. Accents are
// folded, so "Abrazadera de Reparación Ø 4\"" becomes
// "abrazadera-de-reparacion-4".
func Slugify(s string) string {
	folded, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err == nil {
		s = folded
	}
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "-")
	s = slugInvalid.ReplaceAllString(s, "-")
	s = slugDashes.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// QuotationNumber formats the visible quotation number, for example
// "COT-202610-0007". The sequence is zero padded to four digits and grows
// past that when needed.
func QuotationNumber(prefix, period string, seq int) string {
	return NumberPrefix(prefix, period) + fmt.Sprintf("%04d", seq)
}

// NumberPrefix is the part of a quotation number shared by one period.
func NumberPrefix(prefix, period string) string {
	return prefix + "-" + period + "-"
}
