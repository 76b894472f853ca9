package database

import (
	"errors"
	"fmt"
)

// ErrStoreFailure is matched by every error that originates in the document store:
// transport failures, timeouts, write errors and undecodable documents.
var ErrStoreFailure = errors.New("store failure")

// StoreError records the store operation that failed and its cause.
type StoreError struct {
	Op         string
	Collection string
	Err        error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s %s: %s: %v", e.Op, e.Collection, ErrStoreFailure, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Is reports true for ErrStoreFailure so callers can classify without errors.As.
func (e *StoreError) Is(target error) bool {
	return target == ErrStoreFailure
}

// StoreFailure wraps err as a *StoreError. A nil err yields nil.
func StoreFailure(op, collection string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Collection: collection, Err: err}
}

// IsStoreFailure reports whether err came from the document store.
func IsStoreFailure(err error) bool {
	return errors.Is(err, ErrStoreFailure)
}
