package view

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nurpe/office-admin/internal/store"
	"github.com/nurpe/office-admin/internal/validation"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrDetached     = store.ErrDetached
)

// InvalidInputError carries the field messages that blocked a submit.
type InvalidInputError struct {
	Errors validation.Errors
}

func (e *InvalidInputError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for field, msg := range e.Errors {
		parts = append(parts, field+": "+msg)
	}
	return fmt.Sprintf("%s: %s", ErrInvalidInput, strings.Join(parts, "; "))
}

func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

func invalid(field, msg string) error {
	return &InvalidInputError{Errors: validation.Errors{field: msg}}
}

// storeErr translates store sentinels into view ones.
func storeErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
