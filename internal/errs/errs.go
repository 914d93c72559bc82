// Package errs holds the error taxonomy shared by the store, services and
// HTTP handlers.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is matched by every NotFoundError.
	ErrNotFound = errors.New("not found")
	// ErrInvalid is matched by every FieldError.
	ErrInvalid = errors.New("invalid field")
)

// NotFoundError reports a lookup, update or delete against an absent id.
// Its message is safe to show to an end user.
type NotFoundError struct {
	Entity string
	ID     int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Entity)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NotFound returns a NotFoundError for the given entity label.
func NotFound(entity string, id int) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// FieldError rejects a record whose field is outside its allowed domain.
type FieldError struct {
	Field  string
	Value  any
	Reason string
}

func (e *FieldError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid %s: %v", e.Field, e.Value)
	}
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

func (e *FieldError) Is(target error) bool {
	return target == ErrInvalid
}

// Invalid returns a FieldError.
func Invalid(field string, value any, reason string) error {
	return &FieldError{Field: field, Value: value, Reason: reason}
}

// Message returns the user-facing text of err. Not-found and field errors
// keep their own message; anything else collapses to fallback.
func Message(err error, fallback string) string {
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return nf.Error()
	}
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe.Error()
	}
	return fallback
}
