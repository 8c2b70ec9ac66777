package model

import "strings"

type Operation uint8

const (
	OpList Operation = 1 << iota
	OpCreate
	OpUpdate
	OpDelete
)

func (op Operation) String() string {
	switch op {
	case OpList:
		return "list"
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Resource describes one remote collection and what the API lets us do with it.
type Resource struct {
	Name  string
	Label string
	Ops   Operation
}

func (r Resource) Supports(op Operation) bool {
	return r.Ops&op == op
}

var (
	Contractors = Resource{Name: "contractors", Label: "Dane Kontrahentów", Ops: OpList | OpCreate | OpUpdate | OpDelete}
	Employees   = Resource{Name: "employees", Label: "Tabela Pracowników", Ops: OpList}
	Invoices    = Resource{Name: "invoices", Label: "Tabela Faktur VAT", Ops: OpList | OpUpdate}
	Delegations = Resource{Name: "delegations", Label: "Tabela Delegacji BD", Ops: OpList}
)

func Resources() []Resource {
	return []Resource{Contractors, Employees, Invoices, Delegations}
}

func ResourceByName(name string) (Resource, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, r := range Resources() {
		if r.Name == name {
			return r, true
		}
	}
	return Resource{}, false
}
