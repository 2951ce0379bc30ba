package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrBusy             = errors.New("operation in progress")
	ErrTooManyImages    = errors.New("too many images")
	ErrSavedVariant     = errors.New("variant is saved, delete it through the gateway")
	ErrUnsavedVariant   = errors.New("variant is not saved")
	ErrUnknownFieldType = errors.New("unknown field type")
	ErrInvalidValue     = errors.New("invalid attribute value")
)

// ReferenceError is the panic value raised when an operation names a group,
// attribute, variant, field type or index that does not exist. It signals
// a broken invariant in the caller.
type ReferenceError struct {
	Kind string
	Ref  string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("unknown %s %q", e.Kind, e.Ref)
}
