package api

import (
	"errors"
	"fmt"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest      = errors.New("bad request")
	ErrPayloadTooLarge = errors.New("payload too large")
	ErrNotFound        = errors.New("not found")
	ErrUnprocessable   = errors.New("unprocessable input")
	ErrInternal        = errors.New("internal error")
)

// kindError tags an underlying error with an operation and a sentinel kind.
type kindError struct {
	op   string
	kind error
	err  error
}

func (e *kindError) Error() string {
	if e.err == nil {
		return e.op + ": " + e.kind.Error()
	}
	return fmt.Sprintf("%s: %v", e.op, e.err)
}

func (e *kindError) Unwrap() []error {
	if e.err == nil {
		return []error{e.kind}
	}
	return []error{e.kind, e.err}
}

// WrapKind annotates err with op and kind; errors.Is matches both.
func WrapKind(op string, kind, err error) error {
	return &kindError{op: op, kind: kind, err: err}
}

// NewKind reports kind for op without an underlying cause.
func NewKind(op string, kind error) error {
	return &kindError{op: op, kind: kind}
}
