// Package export flattens resource rows into tables that the spreadsheet
// and PDF generators render.
package export

import (
	"time"

	"github.com/nurpe/office-admin/internal/model"
)

// Table is one resource rendered in store order. Cells hold strings or
// numbers; the first column is always the 1-based index.
type Table struct {
	Resource    model.Resource
	GeneratedAt time.Time
	Headers     []string
	Rows        [][]any
	Totals      []any
}

// Result is a rendered file ready to be sent.
type Result struct {
	FileName    string
	ContentType string
	Content     []byte
}

func yesNo(v bool) string {
	if v {
		return "Tak"
	}
	return "Nie"
}

func Contractors(rows []model.Contractor, at time.Time) Table {
	t := Table{
		Resource:    model.Contractors,
		GeneratedAt: at,
		Headers:     []string{"Lp.", "NIP", "REGON", "Nazwa", "Czy płatnik VAT?", "Ulica", "Numer Domu", "Numer Mieszkania"},
	}
	for i, c := range rows {
		t.Rows = append(t.Rows, []any{i + 1, c.NIP, c.REGON, c.Name, yesNo(c.VATPayer), c.Street, c.HouseNumber, c.ApartmentNumber})
	}
	return t
}

func Employees(rows []model.Employee, at time.Time) Table {
	t := Table{
		Resource:    model.Employees,
		GeneratedAt: at,
		Headers:     []string{"Lp.", "Imię", "Nazwisko", "Stanowisko", "Data zatrudnienia", "Ilość dni urlopowych"},
	}
	for i, e := range rows {
		t.Rows = append(t.Rows, []any{i + 1, e.FirstName, e.LastName, e.Position, e.HireDate.Display(), int(e.VacationDays)})
	}
	return t
}

func Delegations(rows []model.Delegation, at time.Time) Table {
	t := Table{
		Resource:    model.Delegations,
		GeneratedAt: at,
		Headers:     []string{"Lp.", "Imię i Nazwisko", "Data od", "Data do", "Miejsce wyjazdu", "Miejsce przyjazdu"},
	}
	for i, d := range rows {
		t.Rows = append(t.Rows, []any{i + 1, d.FullName, d.DateFrom.Display(), d.DateTo.Display(), d.DepartureLocation, d.ArrivalLocation})
	}
	return t
}

// Invoices adds the derived money columns and a totals row.
func Invoices(rows []model.Invoice, at time.Time) Table {
	t := Table{
		Resource:    model.Invoices,
		GeneratedAt: at,
		Headers:     []string{"Lp.", "Opis", "MPK", "Kwota Netto", "Ilość", "VAT (%)", "Kwota Brutto", "Wartość Netto", "Kwota VAT", "Wartość Brutto"},
	}
	for i, inv := range rows {
		a := inv.Amounts()
		t.Rows = append(t.Rows, []any{
			i + 1, inv.Description, inv.MPK,
			model.Money(inv.Amount), int(inv.Quantity), inv.VATRate.String(),
			model.Money(a.UnitGross), model.Money(a.NetValue), model.Money(a.VATAmount), model.Money(a.GrossAmount),
		})
	}
	totals := model.InvoiceTotals(rows)
	t.Totals = []any{"", "Razem", "", "", "", "", "", model.Money(totals.NetValue), model.Money(totals.VATAmount), model.Money(totals.GrossAmount)}
	return t
}
