package draft

import (
	"errors"
	"fmt"
	"time"

	"github.com/andesind/catalog-api/internal/domain/entity"
	"github.com/andesind/catalog-api/internal/domain/enum"
	"github.com/andesind/catalog-api/internal/domain/pricing"
	"github.com/google/uuid"
)

var (
	ErrLineNotFound = errors.New("draft: line not found")
	ErrNoLines      = errors.New("draft: quotation has no lines")
	ErrNoClient     = errors.New("draft: quotation has no client")
)

// Line is a quotation line while it is being edited.
type Line struct {
	Sequence       int                  `json:"sequence"`
	ProductID      uuid.UUID            `json:"product_id"`
	Category       enum.ProductCategory `json:"category"`
	Code           string               `json:"code"`
	Description    string               `json:"description"`
	Specifications string               `json:"specifications,omitempty"`
	Unit           string               `json:"unit"`
	Quantity       float64              `json:"quantity"`
	UnitPrice      float64              `json:"unit_price"`
	Discount       float64              `json:"discount"`
	Subtotal       float64              `json:"subtotal"`
}

func (l Line) priced() pricing.Line {
	return pricing.Line{Quantity: l.Quantity, UnitPrice: l.UnitPrice, Discount: l.Discount}
}

// LinePatch carries the editable fields of a line. Nil fields are kept.
// Price and description always come from the catalog.
type LinePatch struct {
	Quantity *float64 `json:"quantity,omitempty"`
	Discount *float64 `json:"discount,omitempty"`
}

// Draft is a serializable in-progress quotation.
type Draft struct {
	ClientID       *uuid.UUID             `json:"client_id,omitempty"`
	Client         *entity.ClientSnapshot `json:"client,omitempty"`
	Currency       enum.Currency          `json:"currency"`
	TaxRate        float64                `json:"tax_rate"`
	Notes          string                 `json:"notes,omitempty"`
	Terms          string                 `json:"terms,omitempty"`
	ExpirationDate *time.Time             `json:"expiration_date,omitempty"`
	Lines          []Line                 `json:"lines"`
	Totals         pricing.Totals         `json:"totals"`
}

// New returns an empty draft in PEN with the default tax rate.
func New() Draft {
	return Draft{
		Currency: enum.CurrencyPEN,
		TaxRate:  pricing.DefaultTaxRate,
		Lines:    []Line{},
	}
}

// BuildLines turns a selection into lines numbered after currentLen, each
// with quantity 1 and no discount.
func BuildLines(sel Selection, currentLen int) []Line {
	lines := make([]Line, 0, len(sel.Variants))
	for i, v := range sel.Variants {
		lines = append(lines, Line{
			Sequence:       currentLen + i + 1,
			ProductID:      sel.ProductID,
			Category:       sel.Category,
			Code:           v.Code,
			Description:    v.Description,
			Specifications: sel.Specifications,
			Unit:           v.Unit,
			Quantity:       1,
			UnitPrice:      v.UnitPrice,
			Discount:       0,
			Subtotal:       v.UnitPrice,
		})
	}
	return lines
}

// AddSelection appends the lines built from sel, leaving existing lines as they were.
func (d Draft) AddSelection(sel Selection) (Draft, error) {
	if sel.Empty() {
		return d, ErrEmptySelection
	}
	next := d.clone()
	next.Lines = append(next.Lines, BuildLines(sel, len(next.Lines))...)
	return next.Recalculate(), nil
}

// RemoveLine drops the line with the given sequence and renumbers the rest 1..N.
func (d Draft) RemoveLine(sequence int) (Draft, error) {
	idx := d.indexOf(sequence)
	if idx < 0 {
		return d, fmt.Errorf("%w: %d", ErrLineNotFound, sequence)
	}
	next := d.clone()
	next.Lines = append(next.Lines[:idx], next.Lines[idx+1:]...)
	next.renumber()
	return next.Recalculate(), nil
}

// EditLine applies patch to the line with the given sequence.
func (d Draft) EditLine(sequence int, patch LinePatch) (Draft, error) {
	idx := d.indexOf(sequence)
	if idx < 0 {
		return d, fmt.Errorf("%w: %d", ErrLineNotFound, sequence)
	}
	next := d.clone()
	l := &next.Lines[idx]
	if patch.Quantity != nil {
		l.Quantity = *patch.Quantity
	}
	if patch.Discount != nil {
		l.Discount = *patch.Discount
	}
	return next.Recalculate(), nil
}

// SetTaxRate replaces the tax rate. Negative rates are stored as 0.
func (d Draft) SetTaxRate(rate float64) Draft {
	next := d.clone()
	next.TaxRate = pricing.NormalizeTaxRate(rate)
	return next.Recalculate()
}

// SetCurrency replaces the currency.
func (d Draft) SetCurrency(c enum.Currency) (Draft, error) {
	if !c.IsValid() {
		return d, fmt.Errorf("draft: unsupported currency %q", c)
	}
	next := d.clone()
	next.Currency = c
	return next, nil
}

// SetClient attaches a client and its snapshot.
func (d Draft) SetClient(c *entity.Client) Draft {
	next := d.clone()
	id := c.ID
	snap := c.Snapshot()
	next.ClientID = &id
	next.Client = &snap
	return next
}

// Reprice copies code, description, unit and price from catalog onto every
// line whose product and variant are still there. Other lines keep what they
// carried and are rejected when the quotation is saved.
func (d Draft) Reprice(catalog map[uuid.UUID]*entity.Product) Draft {
	next := d.clone()
	for i := range next.Lines {
		l := &next.Lines[i]
		p := catalog[l.ProductID]
		if p == nil {
			continue
		}
		var codes []string
		if l.Code != "" {
			codes = []string{l.Code}
		}
		sel, err := SelectVariants(p, codes)
		if err != nil || sel.Empty() {
			continue
		}
		v := sel.Variants[0]
		l.Category = sel.Category
		l.Code = v.Code
		l.Description = v.Description
		l.Specifications = sel.Specifications
		l.Unit = v.Unit
		l.UnitPrice = v.UnitPrice
	}
	return next.Recalculate()
}

// Recalculate renumbers lines 1..N in slice order, normalizes every line and
// refreshes line subtotals and totals.
func (d Draft) Recalculate() Draft {
	next := d.clone()
	next.renumber()
	priced := make([]pricing.Line, len(next.Lines))
	for i := range next.Lines {
		p := pricing.NormalizeLine(next.Lines[i].priced())
		next.Lines[i].Quantity = p.Quantity
		next.Lines[i].UnitPrice = p.UnitPrice
		next.Lines[i].Discount = p.Discount
		next.Lines[i].Subtotal = pricing.LineSubtotal(p)
		priced[i] = p
	}
	next.TaxRate = pricing.NormalizeTaxRate(next.TaxRate)
	next.Totals = pricing.Calculate(priced, next.TaxRate)
	return next
}

// Validate reports whether the draft can be submitted.
func (d Draft) Validate() error {
	if d.ClientID == nil || *d.ClientID == uuid.Nil {
		return ErrNoClient
	}
	if len(d.Lines) == 0 {
		return ErrNoLines
	}
	return nil
}

// PricedLines returns the pricing view of every line.
func (d Draft) PricedLines() []pricing.Line {
	out := make([]pricing.Line, len(d.Lines))
	for i, l := range d.Lines {
		out[i] = l.priced()
	}
	return out
}

func (d Draft) indexOf(sequence int) int {
	for i, l := range d.Lines {
		if l.Sequence == sequence {
			return i
		}
	}
	return -1
}

func (d *Draft) renumber() {
	for i := range d.Lines {
		d.Lines[i].Sequence = i + 1
	}
}

func (d Draft) clone() Draft {
	lines := make([]Line, len(d.Lines))
	copy(lines, d.Lines)
	d.Lines = lines
	return d
}
