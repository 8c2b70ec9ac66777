// Package session keeps the live views of each browser. A session owns at
// most one view per page; opening the page again replaces it.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/nurpe/office-admin/internal/view"
)

const CookieName = "office_admin_session"

// mounter is the part of a table a session needs to swap views.
type mounter interface {
	Loading() bool
	Done() <-chan struct{}
	MountAsync(context.Context) <-chan struct{}
	Unmount()
}

type Session struct {
	ID string

	factory *view.Factory

	mu           sync.Mutex
	lastSeen     time.Time
	contractors  *view.ContractorsView
	invoices     *view.InvoicesView
	employees    *view.EmployeesView
	delegations  *view.DelegationsView
	controlPanel *view.ControlPanelView
}

func newSession(id string, factory *view.Factory, now time.Time) *Session {
	return &Session{ID: id, factory: factory, lastSeen: now}
}

// remount replaces the view in slot with a freshly mounted one, unless the
// current view is still loading, in which case it is kept. The old view's
// store is detached so responses still in flight for it are dropped.
func remount[V comparable](ctx context.Context, slot *V, fresh func() V, table func(V) mounter) (V, <-chan struct{}) {
	var zero V
	if current := *slot; current != zero {
		t := table(current)
		if t.Loading() {
			return current, t.Done()
		}
		t.Unmount()
	}
	next := fresh()
	*slot = next
	return next, table(next).MountAsync(context.WithoutCancel(ctx))
}

// current returns the mounted view in slot, mounting one if there is none.
func current[V comparable](ctx context.Context, slot *V, fresh func() V, table func(V) mounter) (V, <-chan struct{}) {
	var zero V
	if v := *slot; v != zero {
		return v, table(v).Done()
	}
	return remount(ctx, slot, fresh, table)
}

func contractorsTable(v *view.ContractorsView) mounter { return v.Table() }
func invoicesTable(v *view.InvoicesView) mounter       { return v.Table() }
func employeesTable(v *view.EmployeesView) mounter     { return v.Table() }
func delegationsTable(v *view.DelegationsView) mounter { return v.Table() }

func (s *Session) MountContractors(ctx context.Context) (*view.ContractorsView, <-chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return remount(ctx, &s.contractors, s.factory.Contractors, contractorsTable)
}

func (s *Session) Contractors(ctx context.Context) (*view.ContractorsView, <-chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return current(ctx, &s.contractors, s.factory.Contractors, contractorsTable)
}

func (s *Session) MountInvoices(ctx context.Context) (*view.InvoicesView, <-chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return remount(ctx, &s.invoices, s.factory.Invoices, invoicesTable)
}

func (s *Session) Invoices(ctx context.Context) (*view.InvoicesView, <-chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return current(ctx, &s.invoices, s.factory.Invoices, invoicesTable)
}

// MountedInvoices returns the invoices view only if the page is open; inline
// edits never mount a view of their own.
func (s *Session) MountedInvoices() (*view.InvoicesView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.invoices, s.invoices != nil
}

func (s *Session) MountedContractors() (*view.ContractorsView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.contractors, s.contractors != nil
}

func (s *Session) MountedEmployees() (*view.EmployeesView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.employees, s.employees != nil
}

func (s *Session) MountedDelegations() (*view.DelegationsView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.delegations, s.delegations != nil
}

func (s *Session) MountEmployees(ctx context.Context) (*view.EmployeesView, <-chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return remount(ctx, &s.employees, s.factory.Employees, employeesTable)
}

func (s *Session) Employees(ctx context.Context) (*view.EmployeesView, <-chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return current(ctx, &s.employees, s.factory.Employees, employeesTable)
}

func (s *Session) MountDelegations(ctx context.Context) (*view.DelegationsView, <-chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return remount(ctx, &s.delegations, s.factory.Delegations, delegationsTable)
}

func (s *Session) Delegations(ctx context.Context) (*view.DelegationsView, <-chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return current(ctx, &s.delegations, s.factory.Delegations, delegationsTable)
}

// ResetControlPanel opens the control panel with an empty form.
func (s *Session) ResetControlPanel() *view.ControlPanelView {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.controlPanel = s.factory.ControlPanel()
	return s.controlPanel
}

func (s *Session) ControlPanel() *view.ControlPanelView {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.controlPanel == nil {
		s.controlPanel = s.factory.ControlPanel()
	}
	return s.controlPanel
}

// close unmounts every view of the session.
func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.contractors != nil {
		s.contractors.Table().Unmount()
	}
	if s.invoices != nil {
		s.invoices.Table().Unmount()
	}
	if s.employees != nil {
		s.employees.Table().Unmount()
	}
	if s.delegations != nil {
		s.delegations.Table().Unmount()
	}
	s.contractors, s.invoices, s.employees, s.delegations, s.controlPanel = nil, nil, nil, nil, nil
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}
