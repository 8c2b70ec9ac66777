package view

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/nurpe/office-admin/internal/model"
	"github.com/nurpe/office-admin/internal/validation"
)

// ControlPanelView is the demo form. Nothing is sent to the API; a valid
// submission is logged and the form resets.
type ControlPanelView struct {
	log zerolog.Logger

	mu   sync.Mutex
	form Form[model.ControlPanelForm]
}

func newControlPanelView(log zerolog.Logger) *ControlPanelView {
	return &ControlPanelView{
		log:  log.With().Str("view", "control-panel").Logger(),
		form: Form[model.ControlPanelForm]{Errors: validation.Errors{}},
	}
}

func (v *ControlPanelView) Form() Form[model.ControlPanelForm] {
	v.mu.Lock()
	defer v.mu.Unlock()
	snapshot := v.form
	snapshot.Errors = make(validation.Errors, len(v.form.Errors))
	for k, msg := range v.form.Errors {
		snapshot.Errors[k] = msg
	}
	return snapshot
}

func (v *ControlPanelView) Change(field, value string) (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.form.change(model.ControlPanelFields, validation.ControlPanelSchema, field, value)
}

func (v *ControlPanelView) Fill(values map[string]string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, f := range model.ControlPanelFields {
		if _, err := v.form.change(model.ControlPanelFields, validation.ControlPanelSchema, f.Name, values[f.Name]); err != nil {
			return err
		}
	}
	return nil
}

func (v *ControlPanelView) Submit() (Notice, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	cleanText(model.ControlPanelFields, &v.form.Draft, nil)
	errs := validation.ValidateRecord(validation.ControlPanelSchema, model.ControlPanelFields, v.form.Draft)
	v.form.Errors = errs
	v.form.Notice = nil
	if !errs.Empty() {
		return Notice{}, &InvalidInputError{Errors: errs}
	}

	v.log.Info().Interface("form", v.form.Draft).Msg("control panel submitted")
	notice := success("Formularz wysłany")
	v.form = Form[model.ControlPanelForm]{Errors: validation.Errors{}, Notice: &notice}
	return notice, nil
}
