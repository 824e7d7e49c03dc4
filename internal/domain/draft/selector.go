// Package draft models an in-progress quotation as a plain value with pure
// transitions. Nothing in this package performs I/O; the HTTP layer sends a
// draft plus an action and gets the next draft back.
package draft

import (
	"errors"
	"fmt"
	"strings"

	"github.com/andesind/catalog-api/internal/domain/entity"
	"github.com/andesind/catalog-api/internal/domain/enum"
	"github.com/google/uuid"
)

var (
	ErrEmptySelection = errors.New("draft: no variant selected")
	ErrUnknownVariant = errors.New("draft: variant does not belong to product")
)

// Variant is a quotable configuration as seen by the selector.
type Variant struct {
	Code        string  `json:"code"`
	Description string  `json:"description"`
	UnitPrice   float64 `json:"unit_price"`
	Unit        string  `json:"unit"`
	Synthetic   bool    `json:"synthetic,omitempty"`
}

// Selection is the outcome of picking variants of one product.
type Selection struct {
	ProductID      uuid.UUID            `json:"product_id"`
	ProductName    string               `json:"product_name"`
	Category       enum.ProductCategory `json:"category"`
	Specifications string               `json:"specifications,omitempty"`
	Variants       []Variant            `json:"variants"`
}

// Empty reports whether nothing was selected. An empty selection must not be
// confirmed into lines.
func (s Selection) Empty() bool {
	return len(s.Variants) == 0
}

// Options lists what the selector offers for p: its real variants in catalog
// order, or a single synthetic variant built from the product itself.
func Options(p *entity.Product) []Variant {
	if len(p.Variants) == 0 {
		return []Variant{syntheticVariant(p)}
	}
	out := make([]Variant, 0, len(p.Variants))
	for _, v := range p.Variants {
		out = append(out, Variant{
			Code:        v.Code,
			Description: variantDescription(p, v),
			UnitPrice:   v.UnitPrice,
			Unit:        unitOrDefault(v.Unit, p.Unit),
		})
	}
	return out
}

// SelectVariants picks the variants of p named by codes. A product without
// variants always yields its synthetic variant. For products with variants,
// the result keeps catalog order, ignores duplicate codes and is empty when
// codes is empty.
func SelectVariants(p *entity.Product, codes []string) (Selection, error) {
	sel := Selection{
		ProductID:      p.ID,
		ProductName:    p.Name,
		Category:       p.Category,
		Specifications: p.Specifications(),
	}

	if len(p.Variants) == 0 {
		for _, c := range codes {
			if !strings.EqualFold(c, p.SyntheticCode()) {
				return Selection{}, fmt.Errorf("%w: %q", ErrUnknownVariant, c)
			}
		}
		sel.Variants = []Variant{syntheticVariant(p)}
		return sel, nil
	}

	wanted := make(map[string]bool, len(codes))
	for _, c := range codes {
		if p.FindVariant(c) == nil {
			return Selection{}, fmt.Errorf("%w: %q", ErrUnknownVariant, c)
		}
		wanted[strings.ToUpper(c)] = true
	}

	for _, opt := range Options(p) {
		if wanted[strings.ToUpper(opt.Code)] {
			sel.Variants = append(sel.Variants, opt)
		}
	}
	return sel, nil
}

func syntheticVariant(p *entity.Product) Variant {
	return Variant{
		Code:        p.SyntheticCode(),
		Description: p.Name,
		UnitPrice:   p.BasePrice,
		Unit:        unitOrDefault(p.Unit, ""),
		Synthetic:   true,
	}
}

func variantDescription(p *entity.Product, v entity.ProductVariant) string {
	if v.Description == "" {
		return p.Name
	}
	return v.Description
}

func unitOrDefault(unit, fallback string) string {
	if unit != "" {
		return unit
	}
	if fallback != "" {
		return fallback
	}
	return "UND"
}
