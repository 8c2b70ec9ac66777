package model

type Delegation struct {
	ID                ID     `json:"id,omitempty"`
	FullName          string `json:"fullName"`
	DateFrom          Date   `json:"dateFrom"`
	DateTo            Date   `json:"dateTo"`
	DepartureLocation string `json:"departureLocation"`
	ArrivalLocation   string `json:"arrivalLocation"`
}

func (d Delegation) RecordID() ID {
	return d.ID
}
