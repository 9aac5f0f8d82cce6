package domain

import "errors"

// Error kinds. Adapters map them to transport status codes.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidState means a stored record is missing a field it must have.
	ErrInvalidState = errors.New("invalid state")
	ErrForbidden    = errors.New("forbidden")
)

// Error carries the message shown to API callers together with its kind.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

// StoreError wraps any failure reported by the backing database.
type StoreError struct {
	Err error
}

// NewStoreError wraps err, or returns nil when err is nil.
func NewStoreError(err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Err: err}
}

func (e *StoreError) Error() string { return "Database error: " + e.Err.Error() }

func (e *StoreError) Unwrap() error { return e.Err }

// InternalError reports a failure that is neither the caller's nor the
// store's, such as password hashing.
type InternalError struct {
	Err error
}

func (e *InternalError) Error() string { return "Internal Server Error: " + e.Err.Error() }

func (e *InternalError) Unwrap() error { return e.Err }
