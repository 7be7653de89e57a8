package service

import "errors"

var (
	ErrNotFound  = errors.New("not found")
	ErrNotAPlot  = errors.New("cell is not a plot")
	ErrCorrupted = errors.New("stored layout is unreadable")
)

// PersistenceError wraps a storage failure. Its message is safe to show a
// user; the cause is only for logs.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string { return e.Op + " failed" }

func (e *PersistenceError) Unwrap() error { return e.Err }

func persistence(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}
