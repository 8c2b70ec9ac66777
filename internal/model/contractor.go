package model

type Contractor struct {
	ID              ID     `json:"id,omitempty"`
	NIP             string `json:"nip"`
	REGON           string `json:"regon"`
	Name            string `json:"name"`
	VATPayer        bool   `json:"vatPayer"`
	Street          string `json:"street"`
	HouseNumber     string `json:"houseNumber"`
	ApartmentNumber string `json:"apartmentNumber"`
}

func (c Contractor) RecordID() ID {
	return c.ID
}

var ContractorFields = []Field[Contractor]{
	{
		Name: "nip", Label: "NIP",
		Get: func(c Contractor) any { return c.NIP },
		Set: func(c *Contractor, raw string) error { return setString(&c.NIP)(raw) },
	},
	{
		Name: "regon", Label: "REGON",
		Get: func(c Contractor) any { return c.REGON },
		Set: func(c *Contractor, raw string) error { return setString(&c.REGON)(raw) },
	},
	{
		Name: "name", Label: "Nazwa",
		Get: func(c Contractor) any { return c.Name },
		Set: func(c *Contractor, raw string) error { return setString(&c.Name)(raw) },
	},
	{
		Name: "vatPayer", Label: "Czy płatnik VAT?",
		Get: func(c Contractor) any { return c.VATPayer },
		Set: func(c *Contractor, raw string) error {
			v, err := ParseBool(raw)
			if err != nil {
				return err
			}
			c.VATPayer = v
			return nil
		},
	},
	{
		Name: "street", Label: "Ulica",
		Get: func(c Contractor) any { return c.Street },
		Set: func(c *Contractor, raw string) error { return setString(&c.Street)(raw) },
	},
	{
		Name: "houseNumber", Label: "Numer Domu",
		Get: func(c Contractor) any { return c.HouseNumber },
		Set: func(c *Contractor, raw string) error { return setString(&c.HouseNumber)(raw) },
	},
	{
		Name: "apartmentNumber", Label: "Numer Mieszkania",
		Get: func(c Contractor) any { return c.ApartmentNumber },
		Set: func(c *Contractor, raw string) error { return setString(&c.ApartmentNumber)(raw) },
	},
}
