package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

func init() {
	// The API expects plain JSON numbers for amounts and rates.
	decimal.MarshalJSONWithoutQuotes = true
}

var hundred = decimal.NewFromInt(100)

// Quantity is a whole count that tolerates numeric strings on the wire.
type Quantity int

func ParseQuantity(raw string) (Quantity, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		d, derr := decimal.NewFromString(raw)
		if derr != nil || !d.IsInteger() {
			return 0, fmt.Errorf("quantity must be a whole number, got %q", raw)
		}
		big := d.BigInt()
		if !big.IsInt64() || big.Int64() > math.MaxInt || big.Int64() < math.MinInt {
			return 0, fmt.Errorf("quantity %q is out of range", raw)
		}
		n = int(big.Int64())
	}
	return Quantity(n), nil
}

func (q *Quantity) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*q = 0
		return nil
	}
	raw := string(trimmed)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return err
		}
	}
	parsed, err := ParseQuantity(raw)
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}

type Invoice struct {
	ID          ID              `json:"id,omitempty"`
	Description string          `json:"description,omitempty"`
	MPK         string          `json:"mpk,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Quantity    Quantity        `json:"quantity"`
	VATRate     decimal.Decimal `json:"vatRate"`
}

func (i Invoice) RecordID() ID {
	return i.ID
}

// InvoiceAmounts are derived from an invoice and never sent to the API.
type InvoiceAmounts struct {
	UnitVAT     decimal.Decimal
	UnitGross   decimal.Decimal
	NetValue    decimal.Decimal
	VATAmount   decimal.Decimal
	GrossAmount decimal.Decimal
}

func (i Invoice) Amounts() InvoiceAmounts {
	return i.AmountsAt(i.VATRate)
}

// AmountsAt computes the derived values as if the invoice carried rate.
func (i Invoice) AmountsAt(rate decimal.Decimal) InvoiceAmounts {
	qty := decimal.NewFromInt(int64(i.Quantity))
	unitVAT := i.Amount.Mul(rate).Div(hundred)
	unitGross := i.Amount.Add(unitVAT)
	return InvoiceAmounts{
		UnitVAT:     unitVAT,
		UnitGross:   unitGross,
		NetValue:    i.Amount.Mul(qty),
		VATAmount:   unitVAT.Mul(qty),
		GrossAmount: unitGross.Mul(qty),
	}
}

// InvoiceTotals sums the derived amounts of a table.
func InvoiceTotals(invoices []Invoice) InvoiceAmounts {
	var total InvoiceAmounts
	for _, inv := range invoices {
		a := inv.Amounts()
		total.NetValue = total.NetValue.Add(a.NetValue)
		total.VATAmount = total.VATAmount.Add(a.VATAmount)
		total.GrossAmount = total.GrossAmount.Add(a.GrossAmount)
	}
	return total
}

// Money renders a value with two decimals, rounding half away from zero.
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

var InvoiceFields = []Field[Invoice]{
	{
		Name: "description", Label: "Opis",
		Get: func(i Invoice) any { return i.Description },
		Set: func(i *Invoice, raw string) error { return setString(&i.Description)(raw) },
	},
	{
		Name: "mpk", Label: "MPK",
		Get: func(i Invoice) any { return i.MPK },
		Set: func(i *Invoice, raw string) error { return setString(&i.MPK)(raw) },
	},
	{
		Name: "amount", Label: "Kwota Netto",
		Get: func(i Invoice) any { return i.Amount },
		Set: func(i *Invoice, raw string) error {
			v, err := ParseAmount(raw)
			if err != nil {
				return fmt.Errorf("amount must be a number, got %q", raw)
			}
			i.Amount = v
			return nil
		},
	},
	{
		Name: "quantity", Label: "Ilość",
		Get: func(i Invoice) any { return i.Quantity },
		Set: func(i *Invoice, raw string) error {
			v, err := ParseQuantity(raw)
			if err != nil {
				return err
			}
			i.Quantity = v
			return nil
		},
	},
	{
		Name: "vatRate", Label: "VAT (%)",
		Get: func(i Invoice) any { return i.VATRate },
		Set: func(i *Invoice, raw string) error {
			v, err := ParseAmount(raw)
			if err != nil {
				return fmt.Errorf("vat rate must be a number, got %q", raw)
			}
			i.VATRate = v
			return nil
		},
	},
}

// InlineInvoiceFields are the columns editable directly in the table.
var InlineInvoiceFields = []string{"amount", "quantity"}
