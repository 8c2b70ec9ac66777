package view

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/nurpe/office-admin/internal/apiclient"
	"github.com/nurpe/office-admin/internal/model"
	"github.com/nurpe/office-admin/internal/store"
	"github.com/nurpe/office-admin/internal/validation"
)

type InvoiceSettings struct {
	DefaultVATRate     decimal.Decimal
	HighlightThreshold decimal.Decimal
}

type InvoiceRow struct {
	Row[model.Invoice]
	Amounts   model.InvoiceAmounts
	Preview   model.InvoiceAmounts
	Highlight bool
}

// InvoicesView edits amount and quantity inline. Keystrokes change the store
// at once; a blur saves the row through a per-record queue.
type InvoicesView struct {
	table *Table[model.Invoice]
	api   *apiclient.Resource[model.Invoice]
	queue *store.SaveQueue
	log   zerolog.Logger

	mu        sync.Mutex
	vatRate   decimal.Decimal
	threshold decimal.Decimal
	highlight bool
}

func newInvoicesView(api *apiclient.Resource[model.Invoice], table *Table[model.Invoice], settings InvoiceSettings, log zerolog.Logger) *InvoicesView {
	return &InvoicesView{
		table:     table,
		api:       api,
		queue:     store.NewSaveQueue(),
		log:       log.With().Str("view", "invoices").Logger(),
		vatRate:   settings.DefaultVATRate,
		threshold: settings.HighlightThreshold,
	}
}

func (v *InvoicesView) Table() *Table[model.Invoice] {
	return v.table
}

// Edit applies one inline keystroke to the stored row.
func (v *InvoicesView) Edit(id model.ID, field, value string) (model.Invoice, error) {
	if !slices.Contains(model.InlineInvoiceFields, field) {
		return model.Invoice{}, invalid(field, "field is not editable inline")
	}
	if msg := validation.CheckField(validation.InvoiceInlineSchema, field, value); msg != "" {
		return model.Invoice{}, invalid(field, msg)
	}
	f, _ := model.FieldByName(model.InvoiceFields, field)
	updated, err := v.table.store.Patch(id, func(inv *model.Invoice) error {
		return f.Set(inv, value)
	})
	if err != nil {
		return model.Invoice{}, storeErr(err)
	}
	return updated, nil
}

// Save persists the row's pending changes. On failure the row is marked
// unsynced and keeps the local value; the mark is cleared by the next
// successful save.
func (v *InvoicesView) Save(ctx context.Context, id model.ID) (Notice, error) {
	var notice Notice
	err := v.queue.Do(ctx, id, func(ctx context.Context) error {
		current, ok := v.table.store.Get(id)
		if !ok {
			return ErrNotFound
		}
		base, _ := v.table.store.Synced(id)
		changes := model.Diff(model.InvoiceFields, base, current)
		if len(changes) == 0 {
			if err := v.table.store.MarkSynced(base); err != nil {
				return storeErr(err)
			}
			notice = info("Brak zmian do zapisania")
			return nil
		}

		updated, returned, err := v.api.Update(ctx, id, changes)
		if err != nil {
			if markErr := v.table.store.MarkUnsynced(id, err.Error()); markErr != nil && !errors.Is(markErr, store.ErrDetached) {
				v.log.Error().Err(markErr).Str("id", id.String()).Msg("mark unsynced failed")
			}
			notice = failure("Nie zapisano faktury", err)
			return err
		}
		if !returned {
			updated = current
		}
		if err := v.reconcile(id, current, updated); err != nil {
			return err
		}
		notice = success("Zapisano fakturę")
		return nil
	})
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		notice = failure("Nie zapisano faktury", err)
	}
	return notice, err
}

// reconcile makes updated the synced copy. The visible row is replaced only
// if no keystroke arrived while the save was in flight.
func (v *InvoicesView) reconcile(id model.ID, sent, updated model.Invoice) error {
	latest, ok := v.table.store.Get(id)
	if !ok {
		return ErrNotFound
	}
	if len(model.Diff(model.InvoiceFields, sent, latest)) == 0 {
		return storeErr(v.table.store.Replace(updated))
	}
	return storeErr(v.table.store.MarkSynced(updated))
}

func (v *InvoicesView) SetVATRate(raw string) error {
	rate, err := model.ParseAmount(raw)
	if err != nil || rate.IsNegative() {
		return invalid("vatRate", "VAT rate must be a non-negative number")
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.vatRate = rate
	return nil
}

func (v *InvoicesView) VATRate() decimal.Decimal {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.vatRate
}

func (v *InvoicesView) ToggleHighlight() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.highlight = !v.highlight
	return v.highlight
}

func (v *InvoicesView) Highlighting() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.highlight
}

func (v *InvoicesView) Threshold() decimal.Decimal {
	return v.threshold
}

func (v *InvoicesView) Rows() []InvoiceRow {
	v.mu.Lock()
	rate, highlight, threshold := v.vatRate, v.highlight, v.threshold
	v.mu.Unlock()

	base := v.table.Rows()
	rows := make([]InvoiceRow, 0, len(base))
	for _, r := range base {
		rows = append(rows, InvoiceRow{
			Row:       r,
			Amounts:   r.Record.Amounts(),
			Preview:   r.Record.AmountsAt(rate),
			Highlight: highlight && r.Record.Amount.GreaterThan(threshold),
		})
	}
	return rows
}

func (v *InvoicesView) Row(id model.ID) (InvoiceRow, bool) {
	for _, r := range v.Rows() {
		if r.Record.ID == id {
			return r, true
		}
	}
	return InvoiceRow{}, false
}

func (v *InvoicesView) Totals() model.InvoiceAmounts {
	return model.InvoiceTotals(v.table.Records())
}
