package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnsupported   = errors.New("operation not supported by resource")
	ErrEmptyResponse = errors.New("empty response body")
	ErrMissingID     = errors.New("response record has no id")
)

// NetworkError is returned for transport failures and non-2xx answers.
type NetworkError struct {
	Resource   string
	Action     string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: status %d %s: %v", e.Resource, e.Action, e.StatusCode, http.StatusText(e.StatusCode), e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Resource, e.Action, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

func IsNotFound(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr) && netErr.StatusCode == http.StatusNotFound
}
