package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrPageNotFound is returned when a route has no page definition.
var ErrPageNotFound = errors.New("page not found")

// ErrBlockNotFound is returned when a page has no block with the given ID.
var ErrBlockNotFound = errors.New("block not found")

// StepValidationError blocks a Next transition when required fields are
// missing. It is recoverable: the session state is untouched and the caller
// surfaces a local UI signal.
type StepValidationError struct {
	StepID  string
	Missing []string
}

func (e *StepValidationError) Error() string {
	return fmt.Sprintf("step %q: missing required fields: %s", e.StepID, strings.Join(e.Missing, ", "))
}
