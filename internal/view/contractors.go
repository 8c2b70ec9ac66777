package view

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/nurpe/office-admin/internal/apiclient"
	"github.com/nurpe/office-admin/internal/model"
	"github.com/nurpe/office-admin/internal/validation"
)

// ContractorsView is the contractors table plus the shared add/edit form.
type ContractorsView struct {
	table *Table[model.Contractor]
	api   *apiclient.Resource[model.Contractor]
	log   zerolog.Logger

	mu   sync.Mutex
	form Form[model.Contractor]
}

func newContractorsView(api *apiclient.Resource[model.Contractor], table *Table[model.Contractor], log zerolog.Logger) *ContractorsView {
	return &ContractorsView{
		table: table,
		api:   api,
		log:   log.With().Str("view", "contractors").Logger(),
		form:  Form[model.Contractor]{Errors: validation.Errors{}},
	}
}

func (v *ContractorsView) Table() *Table[model.Contractor] {
	return v.table
}

// Form returns a snapshot of the form state.
func (v *ContractorsView) Form() Form[model.Contractor] {
	v.mu.Lock()
	defer v.mu.Unlock()
	snapshot := v.form
	snapshot.Errors = make(validation.Errors, len(v.form.Errors))
	for k, msg := range v.form.Errors {
		snapshot.Errors[k] = msg
	}
	return snapshot
}

// Change applies a keystroke and returns the field's immediate message.
func (v *ContractorsView) Change(field, value string) (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.form.change(model.ContractorFields, validation.ContractorSchema, field, value)
}

// Fill applies a full form post. Fields missing from values are cleared,
// which is how an unticked checkbox arrives.
func (v *ContractorsView) Fill(values map[string]string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, f := range model.ContractorFields {
		if _, err := v.form.change(model.ContractorFields, validation.ContractorSchema, f.Name, values[f.Name]); err != nil {
			return err
		}
	}
	return nil
}

func (v *ContractorsView) StartEdit(id model.ID) error {
	rec, ok := v.table.Get(id)
	if !ok {
		return ErrNotFound
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.form = Form[model.Contractor]{Draft: rec, Editing: id, Errors: validation.Errors{}}
	return nil
}

func (v *ContractorsView) CancelEdit() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.form = Form[model.Contractor]{Errors: validation.Errors{}}
}

// Submit validates the draft and creates or updates the contractor. Only
// the fields that differ from the last server copy are sent on update.
func (v *ContractorsView) Submit(ctx context.Context) (Notice, error) {
	v.mu.Lock()
	var touched map[string]any
	if v.form.Editing != "" {
		if base, ok := v.table.store.Synced(v.form.Editing); ok {
			touched = model.Diff(model.ContractorFields, base, v.form.Draft)
		}
	}
	cleanText(model.ContractorFields, &v.form.Draft, touched)
	errs := validation.ValidateRecord(validation.ContractorSchema, model.ContractorFields, v.form.Draft)
	v.form.Errors = errs
	v.form.Notice = nil
	draft, editing := v.form.Draft, v.form.Editing
	v.mu.Unlock()

	if !errs.Empty() {
		return Notice{}, &InvalidInputError{Errors: errs}
	}

	var (
		notice Notice
		err    error
	)
	if editing == "" {
		notice, err = v.create(ctx, draft)
	} else {
		notice, err = v.update(ctx, editing, draft)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.form.Notice = &notice
	if err == nil {
		v.form = Form[model.Contractor]{Errors: validation.Errors{}, Notice: &notice}
	}
	return notice, err
}

func (v *ContractorsView) create(ctx context.Context, draft model.Contractor) (Notice, error) {
	draft.ID = ""
	created, err := v.api.Create(ctx, draft)
	if err != nil {
		return failure("Nie udało się dodać kontrahenta", err), err
	}
	if err := v.table.store.Append(created); err != nil {
		return failure("Nie udało się dodać kontrahenta", err), err
	}
	v.log.Info().Str("id", created.ID.String()).Msg("contractor created")
	return success("Dodano kontrahenta"), nil
}

func (v *ContractorsView) update(ctx context.Context, id model.ID, draft model.Contractor) (Notice, error) {
	base, ok := v.table.store.Synced(id)
	if !ok {
		return failure("Nie udało się zapisać zmian", ErrNotFound), ErrNotFound
	}
	draft.ID = id
	changes := model.Diff(model.ContractorFields, base, draft)
	if len(changes) == 0 {
		return info("Brak zmian do zapisania"), nil
	}

	updated, returned, err := v.api.Update(ctx, id, changes)
	if err != nil {
		return failure("Nie udało się zapisać zmian", err), err
	}
	if !returned {
		updated = draft
	}
	if err := v.table.store.Replace(updated); err != nil {
		err = storeErr(err)
		return failure("Nie udało się zapisać zmian", err), err
	}
	v.log.Info().Str("id", id.String()).Int("fields", len(changes)).Msg("contractor updated")
	return success("Zapisano zmiany"), nil
}

// Delete removes the contractor and leaves edit mode if it was being edited.
func (v *ContractorsView) Delete(ctx context.Context, id model.ID) (Notice, error) {
	notice, err := v.table.Delete(ctx, id)

	v.mu.Lock()
	defer v.mu.Unlock()
	if err == nil && v.form.Editing == id {
		v.form = Form[model.Contractor]{Errors: validation.Errors{}}
	}
	if !errors.Is(err, ErrDetached) {
		v.form.Notice = &notice
	}
	return notice, err
}

// Validate is the full-form check used by the submit banner.
func (v *ContractorsView) Validate() validation.Errors {
	v.mu.Lock()
	defer v.mu.Unlock()
	return validation.ValidateRecord(validation.ContractorSchema, model.ContractorFields, v.form.Draft)
}
