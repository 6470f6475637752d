package storage

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when a key is absent or expired.
var ErrNotFound = errors.New("storage: key not found")

// UnavailableError wraps any backend failure that is not a simple miss.
// It always surfaces to callers; masking it risks serving wrong data.
type UnavailableError struct {
	Driver string
	Op     string
	Err    error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("storage: %s %s unavailable: %v", e.Driver, e.Op, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// unavailable builds an UnavailableError for the given driver and operation.
func unavailable(driver, op string, err error) error {
	return &UnavailableError{Driver: driver, Op: op, Err: err}
}

// IsUnavailable reports whether err stems from an unreachable backend.
func IsUnavailable(err error) bool {
	var ue *UnavailableError
	return errors.As(err, &ue)
}
