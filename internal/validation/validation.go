// Package validation checks drafts against per-field rules and reports
// field-keyed messages. It never returns errors: an empty Errors value means
// the draft may be submitted.
package validation

import (
	"fmt"
	"strings"

	"github.com/nurpe/office-admin/internal/model"
)

// Errors maps a field name to the message shown next to it.
type Errors map[string]string

func (e Errors) Empty() bool {
	return len(e) == 0
}

// Messages lists the messages in schema order for the error banner.
func (e Errors) Messages(schema Schema) []string {
	if len(e) == 0 {
		return nil
	}
	out := make([]string, 0, len(e))
	seen := make(map[string]struct{}, len(e))
	for _, f := range schema {
		if msg, ok := e[f.Field]; ok {
			out = append(out, msg)
			seen[f.Field] = struct{}{}
		}
	}
	for field, msg := range e {
		if _, ok := seen[field]; !ok {
			out = append(out, msg)
		}
	}
	return out
}

// Rule inspects a non-empty, trimmed value and returns a message or "".
type Rule interface {
	Check(name, value string) string
}

type FieldRules struct {
	Field           string
	Name            string
	Required        bool
	RequiredMessage string
	Rules           []Rule
}

type Schema []FieldRules

func (s Schema) lookup(field string) (FieldRules, bool) {
	for _, f := range s {
		if f.Field == field {
			return f, true
		}
	}
	return FieldRules{}, false
}

// Required reports whether field must be filled in.
func (s Schema) Required(field string) bool {
	f, ok := s.lookup(field)
	return ok && f.Required
}

func Validate(schema Schema, values map[string]string) Errors {
	errs := Errors{}
	for _, f := range schema {
		if msg := f.check(values[f.Field]); msg != "" {
			errs[f.Field] = msg
		}
	}
	return errs
}

// CheckField is the per-keystroke check; it reports exactly what Validate
// would report for that field.
func CheckField(schema Schema, field, value string) string {
	f, ok := schema.lookup(field)
	if !ok {
		return ""
	}
	return f.check(value)
}

func ValidateRecord[T any](schema Schema, fields []model.Field[T], rec T) Errors {
	return Validate(schema, model.Values(fields, rec))
}

func (f FieldRules) check(raw string) string {
	value := strings.TrimSpace(raw)
	// A digits rule outranks the required check so a stray letter is
	// reported as such even while the field is otherwise incomplete.
	for _, rule := range f.Rules {
		if d, ok := rule.(Digits); ok && value != "" && !onlyDigits(value) {
			return d.nonNumeric(f.Name)
		}
	}
	if value == "" {
		if !f.Required {
			return ""
		}
		if f.RequiredMessage != "" {
			return f.RequiredMessage
		}
		return fmt.Sprintf("%s is required", f.Name)
	}
	for _, rule := range f.Rules {
		if msg := rule.Check(f.Name, value); msg != "" {
			return msg
		}
	}
	return ""
}

// Digits accepts only ASCII digits with a length in [Min, Max].
type Digits struct {
	Min int
	Max int
}

func (d Digits) Check(name, value string) string {
	if !onlyDigits(value) {
		return d.nonNumeric(name)
	}
	if len(value) < d.Min || len(value) > d.Max {
		return fmt.Sprintf("%s must be between %d and %d digits", name, d.Min, d.Max)
	}
	return ""
}

func (d Digits) nonNumeric(name string) string {
	return fmt.Sprintf("%s must contain only numbers", name)
}

func onlyDigits(value string) bool {
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return value != ""
}

type OneOf struct {
	Values []string
}

func (o OneOf) Check(name, value string) string {
	for _, allowed := range o.Values {
		if value == allowed {
			return ""
		}
	}
	return fmt.Sprintf("%s has an unsupported value", name)
}

type CalendarDate struct{}

func (CalendarDate) Check(name, value string) string {
	if _, err := model.ParseDate(value); err != nil || len(value) != len(model.DateLayout) {
		return fmt.Sprintf("%s must be a valid date (YYYY-MM-DD)", name)
	}
	return ""
}

var taxNumber = Digits{Min: 7, Max: 15}

var ContractorSchema = Schema{
	{Field: "nip", Name: "NIP", Required: true, Rules: []Rule{taxNumber}},
	{Field: "regon", Name: "REGON", Required: true, Rules: []Rule{taxNumber}},
	{Field: "name", Name: "Name", Required: true},
	{Field: "street", Name: "Street", Required: true},
	{Field: "houseNumber", Name: "House number", Required: true},
}

var ControlPanelSchema = Schema{
	{Field: "nip", Name: "NIP", Required: true, Rules: []Rule{taxNumber}},
	{Field: "regon", Name: "REGON", Required: true, Rules: []Rule{taxNumber}},
	{Field: "name", Name: "Name", Required: true},
	{Field: "date", Name: "Date", Required: true, Rules: []Rule{CalendarDate{}}},
	{Field: "street", Name: "Street", Required: true},
	{Field: "houseNumber", Name: "House number", Required: true},
	{Field: "color", Name: "Color", Required: true, RequiredMessage: "Color selection is required", Rules: []Rule{OneOf{Values: model.OptionValues(model.ColorOptions)}}},
	{Field: "vat", Name: "VAT", Required: true, RequiredMessage: "VAT selection is required", Rules: []Rule{OneOf{Values: model.OptionValues(model.VATOptions)}}},
}

// InvoiceInlineSchema only checks that inline cells parse; the values
// themselves are applied optimistically.
var InvoiceInlineSchema = Schema{
	{Field: "amount", Name: "Amount", Rules: []Rule{Number{}}},
	{Field: "quantity", Name: "Quantity", Rules: []Rule{WholeNumber{}}},
}

type Number struct{}

func (Number) Check(name, value string) string {
	if _, err := model.ParseAmount(value); err != nil {
		return fmt.Sprintf("%s must be a number", name)
	}
	return ""
}

type WholeNumber struct{}

func (WholeNumber) Check(name, value string) string {
	if _, err := model.ParseQuantity(value); err != nil {
		return fmt.Sprintf("%s must be a whole number", name)
	}
	return ""
}
