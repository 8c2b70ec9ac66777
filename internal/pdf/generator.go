package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/nurpe/office-admin/internal/export"
)

const ContentType = "application/pdf"

// Generator renders tables with the core Helvetica font, so text is folded
// to ASCII before it is written.
type Generator struct {
	fontName string
}

func NewGenerator() *Generator {
	return &Generator{fontName: "Helvetica"}
}

func (g *Generator) Generate(table export.Table) (export.Result, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)
	pdf.AddPage()

	pdf.SetFont(g.fontName, "B", 14)
	pdf.CellFormat(0, 10, ascii(table.Resource.Label), "", 1, "C", false, 0, "")
	pdf.SetFont(g.fontName, "", 10)
	pdf.CellFormat(0, 6, ascii(fmt.Sprintf("Wygenerowano: %s, liczba rekordów: %d",
		table.GeneratedAt.Format("02.01.2006 15:04"), len(table.Rows))), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	widths := columnWidths(pdf, len(table.Headers))
	drawTableRow(pdf, g.fontName, table.Headers, widths, true)
	for _, row := range table.Rows {
		drawTableRow(pdf, g.fontName, row, widths, false)
	}
	if table.Totals != nil {
		drawTableRow(pdf, g.fontName, table.Totals, widths, true)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return export.Result{}, err
	}
	return export.Result{
		FileName:    fmt.Sprintf("%s-%s.pdf", table.Resource.Name, table.GeneratedAt.Format("20060102-150405")),
		ContentType: ContentType,
		Content:     buf.Bytes(),
	}, nil
}

// columnWidths gives the index column a narrow slot and splits the rest.
func columnWidths(pdf *gofpdf.Fpdf, n int) []float64 {
	if n == 0 {
		return nil
	}
	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	usable := pageWidth - left - right

	widths := make([]float64, n)
	widths[0] = 10
	if n == 1 {
		return widths
	}
	rest := (usable - widths[0]) / float64(n-1)
	for i := 1; i < n; i++ {
		widths[i] = rest
	}
	return widths
}

func drawTableRow[T any](pdf *gofpdf.Fpdf, fontName string, cols []T, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(fontName, style, 9)
	for i, col := range cols {
		align := "L"
		if _, ok := any(col).(int); ok {
			align = "R"
		}
		pdf.CellFormat(widths[i], 7, fit(pdf, ascii(fmt.Sprint(col)), widths[i]), "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

// fit truncates text that would overflow its cell.
func fit(pdf *gofpdf.Fpdf, text string, width float64) string {
	const pad = 2
	if pdf.GetStringWidth(text) <= width-pad {
		return text
	}
	for len(text) > 0 && pdf.GetStringWidth(text+"...") > width-pad {
		text = text[:len(text)-1]
	}
	return text + "..."
}

var strokeLetters = strings.NewReplacer("ł", "l", "Ł", "L")

// ascii folds Polish diacritics, which the core fonts cannot encode.
func ascii(s string) string {
	s = strokeLetters.Replace(s)
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		return s
	}
	return out
}
