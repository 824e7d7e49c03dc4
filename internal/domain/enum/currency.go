package enum

import (
	"fmt"
	"strings"
)

// Currency is an ISO 4217 code accepted on quotations
type Currency string

const (
	CurrencyPEN Currency = "PEN"
	CurrencyUSD Currency = "USD"
)

// IsValid reports whether c is a supported currency.
func (c Currency) IsValid() bool {
	return c == CurrencyPEN || c == CurrencyUSD
}

// Symbol returns the printed prefix used on documents and messages.
func (c Currency) Symbol() string {
	if c == CurrencyUSD {
		return "US$"
	}
	return "S/"
}

// ParseCurrency normalizes str and defaults to PEN when empty.
func ParseCurrency(str string) (Currency, error) {
	str = strings.ToUpper(strings.TrimSpace(str))
	if str == "" {
		return CurrencyPEN, nil
	}
	c := Currency(str)
	if !c.IsValid() {
		return "", fmt.Errorf("unsupported currency %q", str)
	}
	return c, nil
}
