package view

import (
	"regexp"
	"sync"

	"github.com/nurpe/office-admin/internal/model"
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// EmployeesView is read-only; rows alternate between two colours.
type EmployeesView struct {
	table *Table[model.Employee]

	mu     sync.Mutex
	colors [2]string
}

func newEmployeesView(table *Table[model.Employee]) *EmployeesView {
	return &EmployeesView{table: table, colors: [2]string{"#f8f9fa", "#e9ecef"}}
}

func (v *EmployeesView) Table() *Table[model.Employee] {
	return v.table
}

// SetColors changes the stripe colours; malformed values are ignored.
func (v *EmployeesView) SetColors(first, second string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if hexColor.MatchString(first) {
		v.colors[0] = first
	}
	if hexColor.MatchString(second) {
		v.colors[1] = second
	}
}

func (v *EmployeesView) Colors() [2]string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.colors
}

// RowColor picks the stripe for a 1-based row index.
func (v *EmployeesView) RowColor(index int) string {
	colors := v.Colors()
	if index%2 == 1 {
		return colors[0]
	}
	return colors[1]
}

type DelegationsView struct {
	table *Table[model.Delegation]
}

func newDelegationsView(table *Table[model.Delegation]) *DelegationsView {
	return &DelegationsView{table: table}
}

func (v *DelegationsView) Table() *Table[model.Delegation] {
	return v.table
}
