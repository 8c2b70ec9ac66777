package model

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Field binds one JSON key of T to typed accessors so drafts can be diffed
// and filled from form input without reflecting over the struct.
type Field[T any] struct {
	Name  string
	Label string
	Get   func(T) any
	Set   func(*T, string) error
}

func (f Field[T]) Text(rec T) string {
	return textOf(f.Get(rec))
}

func FieldByName[T any](fields []Field[T], name string) (Field[T], bool) {
	for _, f := range fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field[T]{}, false
}

// Diff returns the fields whose values differ between before and after,
// keyed by JSON name and carrying the after value.
func Diff[T any](fields []Field[T], before, after T) map[string]any {
	changes := make(map[string]any)
	for _, f := range fields {
		next := f.Get(after)
		if !sameValue(f.Get(before), next) {
			changes[f.Name] = next
		}
	}
	return changes
}

// Values flattens rec into display strings keyed by field name.
func Values[T any](fields []Field[T], rec T) map[string]string {
	values := make(map[string]string, len(fields))
	for _, f := range fields {
		values[f.Name] = f.Text(rec)
	}
	return values
}

func sameValue(a, b any) bool {
	switch av := a.(type) {
	case decimal.Decimal:
		bv, ok := b.(decimal.Decimal)
		return ok && av.Equal(bv)
	case Date:
		bv, ok := b.(Date)
		return ok && av.Equal(bv.Time)
	default:
		return a == b
	}
}

func textOf(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case bool:
		return strconv.FormatBool(value)
	case decimal.Decimal:
		return value.String()
	case Date:
		return value.String()
	case fmt.Stringer:
		return value.String()
	default:
		return fmt.Sprint(value)
	}
}

func setString(dst *string) func(string) error {
	return func(raw string) error {
		*dst = raw
		return nil
	}
}

// ParseBool accepts checkbox style input as well as strconv forms.
func ParseBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "off", "no", "nie":
		return false, nil
	case "on", "yes", "tak":
		return true, nil
	}
	return strconv.ParseBool(strings.TrimSpace(raw))
}

// ParseAmount parses a decimal typed by a user. Both "12.50" and "12,50" are
// accepted; an empty value is zero.
func ParseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
	raw = strings.ReplaceAll(raw, " ", "")
	if raw == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(raw)
}
