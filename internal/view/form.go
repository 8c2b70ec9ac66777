package view

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/nurpe/office-admin/internal/model"
	"github.com/nurpe/office-admin/internal/validation"
)

// Form is a draft bound to inputs. Editing is empty in add mode.
type Form[T any] struct {
	Draft   T
	Editing model.ID
	Errors  validation.Errors
	Notice  *Notice
}

func (f Form[T]) Adding() bool {
	return f.Editing == ""
}

// change applies one input to the draft and refreshes that field's message.
func (f *Form[T]) change(fields []model.Field[T], schema validation.Schema, name, value string) (string, error) {
	field, ok := model.FieldByName(fields, name)
	if !ok {
		return "", invalid(name, "unknown field")
	}
	if err := field.Set(&f.Draft, value); err != nil {
		return "", invalid(name, err.Error())
	}
	msg := validation.CheckField(schema, name, value)
	if f.Errors == nil {
		f.Errors = validation.Errors{}
	}
	if msg == "" {
		delete(f.Errors, name)
	} else {
		f.Errors[name] = msg
	}
	return msg, nil
}

var textPolicy = bluemonday.StrictPolicy()

// cleanText strips markup from the string fields of the draft. When touched
// is non-nil only the fields named in it are cleaned, so values the user did
// not edit reach the API exactly as the server sent them. The policy escapes
// entities, which are turned back into plain text afterwards.
func cleanText[T any](fields []model.Field[T], draft *T, touched map[string]any) {
	for _, f := range fields {
		if touched != nil {
			if _, ok := touched[f.Name]; !ok {
				continue
			}
		}
		raw, ok := f.Get(*draft).(string)
		if !ok {
			continue
		}
		cleaned := strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(raw)))
		if cleaned != raw {
			_ = f.Set(draft, cleaned)
		}
	}
}
