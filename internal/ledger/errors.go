package ledger

import (
	"errors"
	"fmt"
)

// Input errors, always wrapped in a *ValidationError.
var (
	ErrMissingTitle           = errors.New("missing title")
	ErrMissingAmount          = errors.New("missing amount")
	ErrInvalidAmount          = errors.New("amount must be a number greater than zero")
	ErrInvalidMode            = errors.New("invalid mode")
	ErrInvalidType            = errors.New("invalid type")
	ErrOpeningBalanceRequired = errors.New("cash or online opening balance must be greater than zero")
)

// State errors, always wrapped in a *PreconditionError.
var (
	ErrNoBalance  = errors.New("no opening balance set")
	ErrBalanceSet = errors.New("opening balance already set")
	ErrStaleReset = errors.New("ledger changed since the reset was started")
)

// ValidationError reports user input that breaks an input contract.
// Nothing is mutated or persisted when one is returned.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// PreconditionError reports an operation invoked in the wrong ledger state.
type PreconditionError struct {
	Op    string
	State State
	Err   error
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: %v (ledger state: %s)", e.Op, e.Err, e.State)
}

func (e *PreconditionError) Unwrap() error { return e.Err }

func invalid(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}
