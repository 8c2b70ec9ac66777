package excel

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/nurpe/office-admin/internal/export"
	"github.com/nurpe/office-admin/internal/model"
)

var generatedAt = time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

func open(t *testing.T, content []byte) *excelize.File {
	t.Helper()
	file, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	t.Cleanup(func() { _ = file.Close() })
	return file
}

func TestGenerateDelegationsWorkbook(t *testing.T) {
	rows := []model.Delegation{
		{ID: "30", FullName: "Anna", DateFrom: model.NewDate(2024, time.May, 1)},
		{ID: "10", FullName: "Jan"},
	}
	result, err := NewGenerator().Generate(export.Delegations(rows, generatedAt))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if result.FileName != "delegations-20240506-070809.xlsx" || result.ContentType != ContentType {
		t.Fatalf("unexpected result meta %q %q", result.FileName, result.ContentType)
	}

	file := open(t, result.Content)
	if diff := cmp.Diff([]string{SummarySheet, "Tabela Delegacji BD"}, file.GetSheetList()); diff != "" {
		t.Fatalf("sheets mismatch (-want +got):\n%s", diff)
	}
	count, _ := file.GetCellValue(SummarySheet, "B3")
	if count != "2" {
		t.Fatalf("unexpected row count %q", count)
	}

	data, err := file.GetRows("Tabela Delegacji BD")
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	if len(data) != 3 {
		t.Fatalf("expected header plus two rows, got %d", len(data))
	}
	if data[1][0] != "1" || data[1][1] != "Anna" || data[1][2] != "01.05.2024" || data[2][0] != "2" || data[2][1] != "Jan" {
		t.Fatalf("unexpected data %v", data)
	}
}

func TestGenerateInvoicesWorkbookHasTotals(t *testing.T) {
	rows := []model.Invoice{{ID: "1", Description: "Serwis", Amount: decimal.NewFromInt(1000), Quantity: 2, VATRate: decimal.NewFromInt(23)}}
	result, err := NewGenerator().Generate(export.Invoices(rows, generatedAt))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	file := open(t, result.Content)
	data, err := file.GetRows("Tabela Faktur VAT")
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	totals := data[len(data)-1]
	if totals[1] != "Razem" || totals[len(totals)-1] != "2460.00" {
		t.Fatalf("unexpected totals row %v", totals)
	}
}

func TestDataSheetName(t *testing.T) {
	cases := map[string]string{
		"Dane Kontrahentów": "Dane Kontrahentów",
		"a/b:c":             "a-b-c",
		"  ":                "Dane",
		SummarySheet:        "Dane",
		"Bardzo długa nazwa arkusza ponad limit": "Bardzo długa nazwa arkusza pona",
	}
	for in, want := range cases {
		if got := DataSheetName(in); got != want {
			t.Errorf("DataSheetName(%q) = %q, want %q", in, got, want)
		}
	}
}
