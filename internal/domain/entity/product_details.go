package entity

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/andesind/catalog-api/internal/domain/enum"
	"gorm.io/datatypes"
)

// ProductDetails is the category-specific payload of a product. Exactly one
// implementation exists per enum.ProductCategory.
type ProductDetails interface {
	Category() enum.ProductCategory
	Specifications() string
}

// ClampDetails describes an abrazadera
type ClampDetails struct {
	Material      string  `json:"material"`
	MinDiameterMM float64 `json:"min_diameter_mm"`
	MaxDiameterMM float64 `json:"max_diameter_mm"`
	BoltType      string  `json:"bolt_type,omitempty"`
}

func (ClampDetails) Category() enum.ProductCategory { return enum.CategoryClamps }

func (d ClampDetails) Specifications() string {
	parts := make([]string, 0, 3)
	if d.Material != "" {
		parts = append(parts, "Material: "+d.Material)
	}
	if d.MaxDiameterMM > 0 {
		parts = append(parts, fmt.Sprintf("Diámetro: %g-%g mm", d.MinDiameterMM, d.MaxDiameterMM))
	}
	if d.BoltType != "" {
		parts = append(parts, "Perno: "+d.BoltType)
	}
	return strings.Join(parts, "; ")
}

// EpoxyDetails describes an epóxico
type EpoxyDetails struct {
	CureTimeMinutes int     `json:"cure_time_minutes"`
	VolumeML        float64 `json:"volume_ml"`
	MaxTemperatureC float64 `json:"max_temperature_c,omitempty"`
	Application     string  `json:"application,omitempty"`
}

func (EpoxyDetails) Category() enum.ProductCategory { return enum.CategoryEpoxy }

func (d EpoxyDetails) Specifications() string {
	parts := make([]string, 0, 4)
	if d.VolumeML > 0 {
		parts = append(parts, fmt.Sprintf("Volumen: %g ml", d.VolumeML))
	}
	if d.CureTimeMinutes > 0 {
		parts = append(parts, fmt.Sprintf("Curado: %d min", d.CureTimeMinutes))
	}
	if d.MaxTemperatureC > 0 {
		parts = append(parts, fmt.Sprintf("Temp. máx.: %g °C", d.MaxTemperatureC))
	}
	if d.Application != "" {
		parts = append(parts, "Uso: "+d.Application)
	}
	return strings.Join(parts, "; ")
}

// KitComponent is one item packed in a kit
type KitComponent struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// KitDetails describes a repair kit
type KitDetails struct {
	Components  []KitComponent `json:"components"`
	IntendedUse string         `json:"intended_use,omitempty"`
}

func (KitDetails) Category() enum.ProductCategory { return enum.CategoryKits }

func (d KitDetails) Specifications() string {
	items := make([]string, 0, len(d.Components))
	for _, c := range d.Components {
		items = append(items, fmt.Sprintf("%dx %s", c.Quantity, c.Name))
	}
	spec := ""
	if len(items) > 0 {
		spec = "Incluye: " + strings.Join(items, ", ")
	}
	if d.IntendedUse != "" {
		if spec != "" {
			spec += "; "
		}
		spec += "Uso: " + d.IntendedUse
	}
	return spec
}

// DecodeProductDetails unmarshals raw into the payload type selected by
// category. Empty raw yields nil details.
func DecodeProductDetails(category enum.ProductCategory, raw datatypes.JSON) (ProductDetails, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var (
		details ProductDetails
		err     error
	)
	switch category {
	case enum.CategoryClamps:
		var d ClampDetails
		err = json.Unmarshal(raw, &d)
		details = d
	case enum.CategoryEpoxy:
		var d EpoxyDetails
		err = json.Unmarshal(raw, &d)
		details = d
	case enum.CategoryKits:
		var d KitDetails
		err = json.Unmarshal(raw, &d)
		details = d
	default:
		return nil, fmt.Errorf("unknown product category %q", category)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s details: %w", category, err)
	}
	return details, nil
}

// EncodeProductDetails validates that d matches category and serializes it.
func EncodeProductDetails(category enum.ProductCategory, d ProductDetails) (datatypes.JSON, error) {
	if d == nil {
		return nil, nil
	}
	if d.Category() != category {
		return nil, fmt.Errorf("details for %q cannot be stored on a %q product", d.Category(), category)
	}
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
