package model

import (
	"errors"
	"fmt"
)

var (
	ErrNotObject       = errors.New("catalog: payload is not an object")
	ErrMissingProjects = errors.New("catalog: missing projects array")
)

// ValidationError reports a malformed project entry.
type ValidationError struct {
	Index  int
	ID     string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("catalog: project %d (%s): %s", e.Index, e.ID, e.Reason)
	}
	return fmt.Sprintf("catalog: project %d: %s", e.Index, e.Reason)
}

func errMissingID(index int) error {
	return &ValidationError{Index: index, Reason: "missing id"}
}

func errDuplicateID(index int, id string, first int) error {
	return &ValidationError{Index: index, ID: id, Reason: fmt.Sprintf("duplicate id (first defined at %d)", first)}
}
