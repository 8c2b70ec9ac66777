package view

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/nurpe/office-admin/internal/apiclient"
	"github.com/nurpe/office-admin/internal/metrics"
	"github.com/nurpe/office-admin/internal/model"
)

// Factory builds fresh, unmounted views bound to the API client.
type Factory struct {
	contractors *apiclient.Resource[model.Contractor]
	employees   *apiclient.Resource[model.Employee]
	invoices    *apiclient.Resource[model.Invoice]
	delegations *apiclient.Resource[model.Delegation]
	settings    InvoiceSettings
	metrics     *metrics.Collector
	log         zerolog.Logger
}

func NewFactory(client *apiclient.Client, settings InvoiceSettings, m *metrics.Collector, log zerolog.Logger) *Factory {
	return &Factory{
		contractors: apiclient.For[model.Contractor](client, model.Contractors),
		employees:   apiclient.For[model.Employee](client, model.Employees),
		invoices:    apiclient.For[model.Invoice](client, model.Invoices),
		delegations: apiclient.For[model.Delegation](client, model.Delegations),
		settings:    settings,
		metrics:     m,
		log:         log,
	}
}

func (f *Factory) Contractors() *ContractorsView {
	return newContractorsView(f.contractors, NewTable(f.contractors, f.metrics, f.log), f.log)
}

func (f *Factory) Invoices() *InvoicesView {
	return newInvoicesView(f.invoices, NewTable(f.invoices, f.metrics, f.log), f.settings, f.log)
}

func (f *Factory) Employees() *EmployeesView {
	return newEmployeesView(NewTable(f.employees, f.metrics, f.log))
}

func (f *Factory) Delegations() *DelegationsView {
	return newDelegationsView(NewTable(f.delegations, f.metrics, f.log))
}

func (f *Factory) ControlPanel() *ControlPanelView {
	return newControlPanelView(f.log)
}

func (f *Factory) ListContractors(ctx context.Context) ([]model.Contractor, error) {
	return f.contractors.List(ctx)
}

func (f *Factory) ListEmployees(ctx context.Context) ([]model.Employee, error) {
	return f.employees.List(ctx)
}

func (f *Factory) ListInvoices(ctx context.Context) ([]model.Invoice, error) {
	return f.invoices.List(ctx)
}

func (f *Factory) ListDelegations(ctx context.Context) ([]model.Delegation, error) {
	return f.delegations.List(ctx)
}

// Summary counts the records of every collection, fetching them in parallel.
type Summary struct {
	Contractors int `json:"contractors"`
	Employees   int `json:"employees"`
	Invoices    int `json:"invoices"`
	Delegations int `json:"delegations"`
}

func (f *Factory) Summary(ctx context.Context) (Summary, error) {
	var s Summary
	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		rows, err := f.ListContractors(gctx)
		s.Contractors = len(rows)
		return err
	})
	group.Go(func() error {
		rows, err := f.ListEmployees(gctx)
		s.Employees = len(rows)
		return err
	})
	group.Go(func() error {
		rows, err := f.ListInvoices(gctx)
		s.Invoices = len(rows)
		return err
	})
	group.Go(func() error {
		rows, err := f.ListDelegations(gctx)
		s.Delegations = len(rows)
		return err
	})
	if err := group.Wait(); err != nil {
		return Summary{}, err
	}
	return s, nil
}
