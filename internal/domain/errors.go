package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Reason codes attached to UnavailableError.
const (
	ReasonCarNotAvailable     = "car_not_available"
	ReasonNewEndBeforeCurrent = "new_end_before_current"
)

var (
	// ErrNotFound marks an unknown rental, payment or extension id.
	ErrNotFound = errors.New("record not found")
	// ErrConflict marks a concurrent write that lost the race on the same
	// interval. The caller may retry the whole operation.
	ErrConflict = errors.New("concurrent booking conflict")
)

// ValidationError carries a per-field reason map for a rejected request.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

func (e *ValidationError) Add(field, reason string) *ValidationError {
	e.Fields[field] = reason
	return e
}

func (e *ValidationError) HasErrors() bool { return len(e.Fields) > 0 }

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// TransitionError reports an illegal lifecycle move.
type TransitionError struct {
	Current RentalStatus
	Action  RentalAction
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s rental in status %s", e.Action, e.Current)
}

// UnavailableError reports that the car is busy for the requested or
// extended interval.
type UnavailableError struct {
	Reason string
}

func (e *UnavailableError) Error() string {
	return "car unavailable: " + e.Reason
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsTransition reports whether err is (or wraps) a TransitionError.
func IsTransition(err error) bool {
	var te *TransitionError
	return errors.As(err, &te)
}

// IsUnavailable reports whether err is (or wraps) an UnavailableError.
func IsUnavailable(err error) bool {
	var ue *UnavailableError
	return errors.As(err, &ue)
}
