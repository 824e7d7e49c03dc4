// Package pricing holds the quotation arithmetic shared by the draft endpoint
// and the save path. Both call Calculate, so a draft preview and a persisted
// quotation built from the same lines always carry identical totals.
package pricing

import "math"

// DefaultTaxRate is the IGV percentage applied when none is given.
const DefaultTaxRate = 18.0

// Line is the priced part of a quotation line item.
type Line struct {
	Quantity  float64 `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Discount  float64 `json:"discount"`
}

// Totals are the document level aggregates of a quotation.
type Totals struct {
	Subtotal      float64 `json:"subtotal"`
	DiscountTotal float64 `json:"discount_total"`
	TaxRate       float64 `json:"tax_rate"`
	TaxAmount     float64 `json:"tax_amount"`
	Total         float64 `json:"total"`
}

// NormalizeLine coerces a line into its valid domain: quantity defaults to 1
// when not positive, discount is clamped to [0,100] and unit price to >= 0.
func NormalizeLine(l Line) Line {
	if !finite(l.Quantity) || l.Quantity <= 0 {
		l.Quantity = 1
	}
	switch {
	case !finite(l.Discount) || l.Discount < 0:
		l.Discount = 0
	case l.Discount > 100:
		l.Discount = 100
	}
	if !finite(l.UnitPrice) || l.UnitPrice < 0 {
		l.UnitPrice = 0
	}
	return l
}

// LineSubtotal returns quantity * unitPrice * (1 - discount/100) for the
// normalized line.
func LineSubtotal(l Line) float64 {
	l = NormalizeLine(l)
	return l.Quantity * l.UnitPrice * (1 - l.Discount/100)
}

// NormalizeTaxRate maps negative or non-finite rates to 0.
func NormalizeTaxRate(rate float64) float64 {
	if !finite(rate) || rate < 0 {
		return 0
	}
	return rate
}

// Calculate aggregates lines into document totals.
func Calculate(lines []Line, taxRate float64) Totals {
	taxRate = NormalizeTaxRate(taxRate)

	var t Totals
	for _, l := range lines {
		l = NormalizeLine(l)
		sub := l.Quantity * l.UnitPrice * (1 - l.Discount/100)
		t.Subtotal += sub
		t.DiscountTotal += l.Quantity*l.UnitPrice - sub
	}
	t.TaxRate = taxRate
	t.TaxAmount = t.Subtotal * taxRate / 100
	t.Total = t.Subtotal + t.TaxAmount
	return t
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
