// Package pdf renders quotations as printable A4 documents.
package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/andesind/catalog-api/internal/domain/entity"
	"github.com/andesind/catalog-api/pkg/money"
	"github.com/jung-kurt/gofpdf"
)

// Issuer is the company printed in the document header.
type Issuer struct {
	Name    string
	TaxID   string
	Address string
	Phone   string
	Email   string
}

// Generator renders a quotation to PDF bytes.
type Generator interface {
	Generate(q *entity.Quotation) ([]byte, error)
}

type gofpdfGenerator struct {
	issuer Issuer
	now    func() time.Time
}

// NewGenerator returns a Generator backed by gofpdf core fonts.
func NewGenerator(issuer Issuer) Generator {
	return &gofpdfGenerator{issuer: issuer, now: time.Now}
}

var columns = []struct {
	title string
	width float64
	align string
}{
	{"#", 8, "C"},
	{"Código", 24, "L"},
	{"Descripción", 70, "L"},
	{"Und.", 12, "C"},
	{"Cant.", 14, "R"},
	{"P. Unit.", 22, "R"},
	{"Dscto.", 14, "R"},
	{"Subtotal", 26, "R"},
}

func (g *gofpdfGenerator) Generate(q *entity.Quotation) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr("Cotización "+q.Number), false)
	pdf.SetMargins(12, 12, 12)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 5, tr(fmt.Sprintf("Generado el %s - Página %d/{nb}",
			g.now().Format("02/01/2006 15:04"), pdf.PageNo())), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	g.header(pdf, tr, q)
	g.clientBlock(pdf, tr, q)
	g.itemsTable(pdf, tr, q)
	g.totalsBlock(pdf, tr, q)
	g.notesBlock(pdf, tr, q)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render %s: %w", q.Number, err)
	}
	return buf.Bytes(), nil
}

func (g *gofpdfGenerator) header(pdf *gofpdf.Fpdf, tr func(string) string, q *entity.Quotation) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(120, 7, tr(g.issuer.Name), "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 7, tr("COTIZACIÓN"), "LTR", 1, "C", false, 0, "")

	ruc := ""
	if g.issuer.TaxID != "" {
		ruc = "RUC " + g.issuer.TaxID
	}
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(120, 5, tr(joinNonEmpty(" | ", ruc, g.issuer.Address)), "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 5, q.Number, "LBR", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 5, tr(joinNonEmpty(" | ", g.issuer.Phone, g.issuer.Email)), "", 1, "L", false, 0, "")
	pdf.Ln(4)
}

func (g *gofpdfGenerator) clientBlock(pdf *gofpdf.Fpdf, tr func(string) string, q *entity.Quotation) {
	c := q.ClientSnapshot.Data()
	rows := [][2]string{
		{"Cliente", c.LegalName},
		{"RUC", c.TaxID},
		{"Dirección", c.Address},
		{"Contacto", joinNonEmpty(" - ", c.ContactName, c.ContactPhone, c.ContactEmail)},
		{"Fecha", q.CreatedAt.Format("02/01/2006")},
		{"Válida hasta", q.ExpirationDate.Format("02/01/2006")},
		{"Moneda", string(q.Currency)},
	}
	for _, row := range rows {
		if row[1] == "" {
			continue
		}
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(28, 5, tr(row[0]+":"), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.MultiCell(0, 5, tr(row[1]), "", "L", false)
	}
	pdf.Ln(3)
}

func (g *gofpdfGenerator) itemsTable(pdf *gofpdf.Fpdf, tr func(string) string, q *entity.Quotation) {
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(230, 230, 230)
	for _, col := range columns {
		pdf.CellFormat(col.width, 6, tr(col.title), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	for _, it := range q.Items {
		desc := it.Description
		if it.Specifications != "" {
			desc += " (" + it.Specifications + ")"
		}
		values := []string{
			fmt.Sprintf("%d", it.Sequence),
			it.Code,
			truncate(desc, 60),
			it.Unit,
			formatQuantity(it.Quantity),
			money.Amount(it.UnitPrice),
			formatQuantity(it.Discount) + "%",
			money.Amount(it.Subtotal),
		}
		for i, col := range columns {
			pdf.CellFormat(col.width, 6, tr(values[i]), "1", 0, col.align, false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(2)
}

func (g *gofpdfGenerator) totalsBlock(pdf *gofpdf.Fpdf, tr func(string) string, q *entity.Quotation) {
	symbol := q.Currency.Symbol()
	rows := [][2]string{
		{"Subtotal", money.Format(symbol, q.Subtotal)},
	}
	if q.DiscountTotal > 0 {
		rows = append(rows, [2]string{"Descuentos incluidos", money.Format(symbol, q.DiscountTotal)})
	}
	rows = append(rows,
		[2]string{fmt.Sprintf("IGV (%s%%)", formatQuantity(q.TaxRate)), money.Format(symbol, q.TaxAmount)},
		[2]string{"Total", money.Format(symbol, q.Total)},
	)

	for i, row := range rows {
		style := ""
		if i == len(rows)-1 {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 9)
		pdf.CellFormat(140, 6, tr(row[0]), "", 0, "R", false, 0, "")
		pdf.CellFormat(0, 6, tr(row[1]), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)
}

func (g *gofpdfGenerator) notesBlock(pdf *gofpdf.Fpdf, tr func(string) string, q *entity.Quotation) {
	for _, block := range []struct {
		title string
		body  *string
	}{
		{"Observaciones", q.Notes},
		{"Términos y condiciones", q.Terms},
	} {
		if block.body == nil || strings.TrimSpace(*block.body) == "" {
			continue
		}
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(0, 5, tr(block.title), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 8)
		pdf.MultiCell(0, 4, tr(*block.body), "", "L", false)
		pdf.Ln(2)
	}
}

func formatQuantity(v float64) string {
	s := fmt.Sprintf("%.3f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

func joinNonEmpty(sep string, parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
