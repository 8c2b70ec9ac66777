package excel

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/nurpe/office-admin/internal/export"
)

const (
	ContentType  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	SummarySheet = "Podsumowanie"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) Generate(table export.Table) (export.Result, error) {
	file := excelize.NewFile()
	defer file.Close()

	file.SetSheetName("Sheet1", SummarySheet)
	g.writeSummary(file, SummarySheet, table)

	dataSheet := DataSheetName(table.Resource.Label)
	if _, err := file.NewSheet(dataSheet); err != nil {
		return export.Result{}, err
	}
	if err := g.writeData(file, dataSheet, table); err != nil {
		return export.Result{}, err
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return export.Result{}, err
	}
	return export.Result{
		FileName:    fmt.Sprintf("%s-%s.xlsx", table.Resource.Name, table.GeneratedAt.Format("20060102-150405")),
		ContentType: ContentType,
		Content:     buf.Bytes(),
	}, nil
}

func (g *Generator) writeSummary(file *excelize.File, sheet string, table export.Table) {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Tabela")
	set("B1", table.Resource.Label)
	set("A2", "Wygenerowano")
	set("B2", table.GeneratedAt.Format("02.01.2006 15:04:05"))
	set("A3", "Liczba rekordów")
	set("B3", len(table.Rows))

	_ = file.SetColWidth(sheet, "A", "A", 20)
	_ = file.SetColWidth(sheet, "B", "B", 32)
}

func (g *Generator) writeData(file *excelize.File, sheet string, table export.Table) error {
	if err := writeRow(file, sheet, 1, table.Headers); err != nil {
		return err
	}
	for i, row := range table.Rows {
		if err := writeRow(file, sheet, i+2, row); err != nil {
			return err
		}
	}
	if table.Totals != nil {
		if err := writeRow(file, sheet, len(table.Rows)+2, table.Totals); err != nil {
			return err
		}
	}

	last, _ := excelize.ColumnNumberToName(len(table.Headers))
	_ = file.SetColWidth(sheet, "A", "A", 6)
	if len(table.Headers) > 1 {
		_ = file.SetColWidth(sheet, "B", last, 20)
	}
	return nil
}

func writeRow[T any](file *excelize.File, sheet string, row int, cells []T) error {
	values := make([]interface{}, len(cells))
	for i, cell := range cells {
		values[i] = cell
	}
	start, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return file.SetSheetRow(sheet, start, &values)
}

// DataSheetName turns a label into a valid sheet name: no reserved
// characters, at most 31 characters.
func DataSheetName(label string) string {
	name := sanitizeSheetName(label)
	if runes := []rune(name); len(runes) > 31 {
		name = string(runes[:31])
	}
	if name == SummarySheet {
		name = "Dane"
	}
	return name
}

func sanitizeSheetName(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "Dane"
	}

	replacer := strings.NewReplacer(
		"[", "-",
		"]", "-",
		":", "-",
		"*", "-",
		"?", "-",
		"/", "-",
		"\\", "-",
	)
	value = strings.TrimSpace(replacer.Replace(value))
	if value == "" {
		return "Dane"
	}
	return value
}
