package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by repositories when a record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned when a save loses an optimistic version check.
	ErrConflict = errors.New("record was modified concurrently")

	// ErrPermissionDenied is the kind shared by every refused lifecycle action.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrInvalidState is returned for a state outside the known enum.
	ErrInvalidState = errors.New("invalid admission state")

	// ErrAddressAliasing is returned when reuse flags and address references disagree.
	ErrAddressAliasing = errors.New("inconsistent address references")
)

// IllegalTransitionError is returned when an action is attempted from a state
// that does not allow it. errors.Is(err, ErrPermissionDenied) holds.
type IllegalTransitionError struct {
	Action  string
	From    AdmissionState
	Message string
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("%s: %s (current state %s)", e.Action, e.Message, e.From)
}

// Is makes the error match ErrPermissionDenied.
func (e *IllegalTransitionError) Is(target error) bool {
	return target == ErrPermissionDenied
}
