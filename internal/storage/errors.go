package storage

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by Backend.Get when the key has no value.
var ErrNotFound = errors.New("not found")

// OpError records the storage operation and resource that failed.
type OpError struct {
	Op       string
	Resource string
	Err      error
}

func (e *OpError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Resource, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

func wrapErr(op, resource string, err error) error {
	if err == nil {
		return nil
	}
	return &OpError{Op: op, Resource: resource, Err: err}
}
