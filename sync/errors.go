package sync

import (
	"errors"
	"fmt"
	"io/fs"
)

// Failure kinds. Use errors.Is to test which kind aborted a run.
var (
	ErrFetch      = errors.New("fetch failed")
	ErrNotFound   = errors.New("object not found")
	ErrStore      = errors.New("destination store failed")
	ErrFilesystem = errors.New("local filesystem failed")
)

// Error is a failure of a single step of a sync run.
type Error struct {
	Op   string // e.g. "list", "fetch", "stat", "put"
	Key  string // item name or destination key, if any
	Kind error  // one of the Err* kinds above
	Err  error
}

func (e *Error) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

func fetchError(op, key string, err error) *Error {
	kind := ErrFetch
	var pe *fs.PathError
	if errors.As(err, &pe) {
		kind = ErrFilesystem
	}
	return &Error{Op: op, Key: key, Kind: kind, Err: err}
}

func storeError(op, key string, err error) *Error {
	return &Error{Op: op, Key: key, Kind: ErrStore, Err: err}
}

func fsError(op, key string, err error) *Error {
	return &Error{Op: op, Key: key, Kind: ErrFilesystem, Err: err}
}
