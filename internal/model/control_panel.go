package model

// ControlPanelForm is the standalone demo form; it is validated and logged
// but never sent to the API.
type ControlPanelForm struct {
	NIP             string `json:"nip"`
	REGON           string `json:"regon"`
	Name            string `json:"name"`
	Date            string `json:"date"`
	Street          string `json:"street"`
	HouseNumber     string `json:"houseNumber"`
	ApartmentNumber string `json:"apartmentNumber"`
	Comments        string `json:"comments"`
	Color           string `json:"color"`
	VAT             string `json:"vat"`
}

type Option struct {
	Value string
	Label string
}

var ColorOptions = []Option{
	{Value: "green", Label: "Zielony"},
	{Value: "blue", Label: "Niebieski"},
	{Value: "gray", Label: "Szary"},
	{Value: "turquoise", Label: "Turkusowy"},
	{Value: "navy", Label: "Granatowy"},
	{Value: "red", Label: "Czerwony"},
	{Value: "white", Label: "Biały"},
}

var VATOptions = []Option{
	{Value: "ZW", Label: "ZW"},
	{Value: "NP", Label: "NP."},
	{Value: "0%", Label: "0%"},
	{Value: "3%", Label: "3%"},
	{Value: "8%", Label: "8%"},
	{Value: "23%", Label: "23%"},
}

func OptionValues(options []Option) []string {
	values := make([]string, 0, len(options))
	for _, o := range options {
		values = append(values, o.Value)
	}
	return values
}

var ControlPanelFields = []Field[ControlPanelForm]{
	{Name: "nip", Label: "NIP", Get: func(f ControlPanelForm) any { return f.NIP }, Set: func(f *ControlPanelForm, raw string) error { return setString(&f.NIP)(raw) }},
	{Name: "regon", Label: "REGON", Get: func(f ControlPanelForm) any { return f.REGON }, Set: func(f *ControlPanelForm, raw string) error { return setString(&f.REGON)(raw) }},
	{Name: "name", Label: "Nazwa", Get: func(f ControlPanelForm) any { return f.Name }, Set: func(f *ControlPanelForm, raw string) error { return setString(&f.Name)(raw) }},
	{Name: "date", Label: "Data Powstania", Get: func(f ControlPanelForm) any { return f.Date }, Set: func(f *ControlPanelForm, raw string) error { return setString(&f.Date)(raw) }},
	{Name: "street", Label: "Ulica", Get: func(f ControlPanelForm) any { return f.Street }, Set: func(f *ControlPanelForm, raw string) error { return setString(&f.Street)(raw) }},
	{Name: "houseNumber", Label: "Numer Domu", Get: func(f ControlPanelForm) any { return f.HouseNumber }, Set: func(f *ControlPanelForm, raw string) error { return setString(&f.HouseNumber)(raw) }},
	{Name: "apartmentNumber", Label: "Numer Mieszkania", Get: func(f ControlPanelForm) any { return f.ApartmentNumber }, Set: func(f *ControlPanelForm, raw string) error { return setString(&f.ApartmentNumber)(raw) }},
	{Name: "comments", Label: "Uwagi", Get: func(f ControlPanelForm) any { return f.Comments }, Set: func(f *ControlPanelForm, raw string) error { return setString(&f.Comments)(raw) }},
	{Name: "color", Label: "Kolory", Get: func(f ControlPanelForm) any { return f.Color }, Set: func(f *ControlPanelForm, raw string) error { return setString(&f.Color)(raw) }},
	{Name: "vat", Label: "VAT", Get: func(f ControlPanelForm) any { return f.VAT }, Set: func(f *ControlPanelForm, raw string) error { return setString(&f.VAT)(raw) }},
}
