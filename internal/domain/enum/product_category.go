package enum

import (
	"fmt"
	"strings"
)

// ProductCategory is the fixed set of catalog families
type ProductCategory string

const (
	CategoryClamps ProductCategory = "abrazaderas"
	CategoryEpoxy  ProductCategory = "epoxicos"
	CategoryKits   ProductCategory = "kits"
)

// ProductCategories lists every category in display order.
var ProductCategories = []ProductCategory{CategoryClamps, CategoryEpoxy, CategoryKits}

func (c ProductCategory) IsValid() bool {
	switch c {
	case CategoryClamps, CategoryEpoxy, CategoryKits:
		return true
	}
	return false
}

// Label returns the storefront name of the category.
func (c ProductCategory) Label() string {
	switch c {
	case CategoryClamps:
		return "Abrazaderas"
	case CategoryEpoxy:
		return "Epóxicos"
	case CategoryKits:
		return "Kits de reparación"
	}
	return string(c)
}

// ParseProductCategory accepts the slug in any case.
func ParseProductCategory(str string) (ProductCategory, error) {
	c := ProductCategory(strings.ToLower(strings.TrimSpace(str)))
	if !c.IsValid() {
		return "", fmt.Errorf("unknown product category %q", str)
	}
	return c, nil
}
