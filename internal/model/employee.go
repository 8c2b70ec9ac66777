package model

type Employee struct {
	ID           ID       `json:"id,omitempty"`
	FirstName    string   `json:"firstName"`
	LastName     string   `json:"lastName"`
	Position     string   `json:"position"`
	HireDate     Date     `json:"hireDate"`
	VacationDays Quantity `json:"vacationDays"`
}

func (e Employee) RecordID() ID {
	return e.ID
}
