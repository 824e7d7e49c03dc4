package draft

import (
	"fmt"

	"github.com/andesind/catalog-api/internal/domain/enum"
)

// ActionType names a draft transition.
type ActionType string

const (
	ActionAddSelection ActionType = "add_selection"
	ActionRemoveLine   ActionType = "remove_line"
	ActionEditLine     ActionType = "edit_line"
	ActionSetTaxRate   ActionType = "set_tax_rate"
	ActionSetCurrency  ActionType = "set_currency"
	ActionRecalculate  ActionType = "recalculate"
)

// Action is one reducer input. Only the fields relevant to Type are read.
type Action struct {
	Type      ActionType    `json:"type"`
	Selection *Selection    `json:"selection,omitempty"`
	Sequence  int           `json:"sequence,omitempty"`
	Patch     *LinePatch    `json:"patch,omitempty"`
	TaxRate   *float64      `json:"tax_rate,omitempty"`
	Currency  enum.Currency `json:"currency,omitempty"`
}

// Apply runs a single action against d and returns the next draft. On error
// d is returned unchanged.
func Apply(d Draft, a Action) (Draft, error) {
	switch a.Type {
	case ActionAddSelection:
		if a.Selection == nil {
			return d, ErrEmptySelection
		}
		return d.AddSelection(*a.Selection)
	case ActionRemoveLine:
		return d.RemoveLine(a.Sequence)
	case ActionEditLine:
		if a.Patch == nil {
			return d.Recalculate(), nil
		}
		return d.EditLine(a.Sequence, *a.Patch)
	case ActionSetTaxRate:
		if a.TaxRate == nil {
			return d, fmt.Errorf("draft: %s requires tax_rate", a.Type)
		}
		return d.SetTaxRate(*a.TaxRate), nil
	case ActionSetCurrency:
		return d.SetCurrency(a.Currency)
	case ActionRecalculate:
		return d.Recalculate(), nil
	}
	return d, fmt.Errorf("draft: unknown action %q", a.Type)
}

// ApplyAll folds actions over d, stopping at the first failure.
func ApplyAll(d Draft, actions ...Action) (Draft, error) {
	var err error
	for _, a := range actions {
		if d, err = Apply(d, a); err != nil {
			return d, err
		}
	}
	return d, nil
}
