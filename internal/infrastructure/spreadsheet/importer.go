// Package spreadsheet reads catalog products from .xlsx workbooks.
package spreadsheet

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/andesind/catalog-api/internal/domain/entity"
	"github.com/andesind/catalog-api/internal/domain/enum"
	"github.com/andesind/catalog-api/pkg/utils"
	"github.com/xuri/excelize/v2"
	"gorm.io/datatypes"
)

// Columns recognised in the header row, matched case-insensitively.
const (
	ColName               = "name"
	ColCategory           = "category"
	ColDescription        = "description"
	ColUnit               = "unit"
	ColBasePrice          = "base_price"
	ColVariantCode        = "variant_code"
	ColVariantDescription = "variant_description"
	ColVariantPrice       = "variant_price"
	ColDetails            = "details"
)

var requiredColumns = []string{ColName, ColCategory}

// ErrNoRows is returned for a workbook without data rows.
var ErrNoRows = errors.New("spreadsheet: no product rows")

// RowError points at a rejected row. Row numbers are 1-based as shown by
// spreadsheet applications.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// Result holds the products parsed from a workbook. Rows that share a name
// are merged into one product, each contributing a variant.
type Result struct {
	Products []entity.Product `json:"-"`
	Errors   []RowError       `json:"errors"`
}

// ReadProducts parses the first sheet of the workbook in r.
func ReadProducts(r io.Reader) (*Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("spreadsheet: open: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoRows
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("spreadsheet: read %s: %w", sheets[0], err)
	}
	if len(rows) < 2 {
		return nil, ErrNoRows
	}

	index := headerIndex(rows[0])
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("spreadsheet: missing column %q", col)
		}
	}

	res := &Result{}
	byName := make(map[string]int)
	for i, row := range rows[1:] {
		line := i + 2
		get := func(col string) string {
			idx, ok := index[col]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		name := get(ColName)
		if name == "" {
			if strings.TrimSpace(strings.Join(row, "")) != "" {
				res.Errors = append(res.Errors, RowError{Row: line, Message: "name is required"})
			}
			continue
		}

		pos, seen := byName[strings.ToLower(name)]
		if !seen {
			p, err := productFromRow(name, get)
			if err != nil {
				res.Errors = append(res.Errors, RowError{Row: line, Message: err.Error()})
				continue
			}
			res.Products = append(res.Products, *p)
			pos = len(res.Products) - 1
			byName[strings.ToLower(name)] = pos
		}

		code := get(ColVariantCode)
		if code == "" {
			continue
		}
		product := &res.Products[pos]
		if product.FindVariant(code) != nil {
			res.Errors = append(res.Errors, RowError{Row: line, Message: fmt.Sprintf("duplicate variant code %q", code)})
			continue
		}
		price, err := parsePrice(get(ColVariantPrice), product.BasePrice)
		if err != nil {
			res.Errors = append(res.Errors, RowError{Row: line, Message: "variant_price: " + err.Error()})
			continue
		}
		product.Variants = append(product.Variants, entity.ProductVariant{
			Code:        strings.ToUpper(code),
			Description: get(ColVariantDescription),
			UnitPrice:   price,
			Unit:        product.Unit,
			Position:    len(product.Variants),
		})
	}

	return res, nil
}

func productFromRow(name string, get func(string) string) (*entity.Product, error) {
	category, err := enum.ParseProductCategory(get(ColCategory))
	if err != nil {
		return nil, err
	}
	price, err := parsePrice(get(ColBasePrice), 0)
	if err != nil {
		return nil, fmt.Errorf("base_price: %w", err)
	}
	unit := strings.ToUpper(get(ColUnit))
	if unit == "" {
		unit = "UND"
	}

	p := &entity.Product{
		Name:        name,
		Slug:        utils.Slugify(name),
		Description: get(ColDescription),
		Category:    category,
		BasePrice:   price,
		Unit:        unit,
		IsActive:    true,
	}
	if raw := get(ColDetails); raw != "" {
		p.Details = datatypes.JSON(raw)
		if _, err := p.DecodeDetails(); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func headerIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		key = strings.ReplaceAll(key, " ", "_")
		if _, dup := index[key]; !dup && key != "" {
			index[key] = i
		}
	}
	return index
}

func parsePrice(raw string, fallback float64) (float64, error) {
	if raw == "" {
		return fallback, nil
	}
	raw = strings.ReplaceAll(raw, ",", "")
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", raw)
	}
	if v < 0 {
		return 0, fmt.Errorf("negative price %q", raw)
	}
	return v, nil
}
