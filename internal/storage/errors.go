package storage

import (
	"errors"
	"fmt"
)

// Sentinel errors for task storage. Callers test for them with errors.Is.
var (
	// ErrMalformedTask indicates a task file is missing its header delimiters
	// or the header is not valid YAML.
	ErrMalformedTask = errors.New("malformed task")

	// ErrNotFound indicates no task file matched the requested fragment.
	ErrNotFound = errors.New("not found")

	// ErrInvalidStatus indicates a status outside the configured list.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrInvalidPriority indicates a priority outside the configured list.
	ErrInvalidPriority = errors.New("invalid priority")
)

// IOError is a read, write, delete, or scan failure. The message always
// names the path that was attempted.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// WrapIO builds an *IOError, returning nil for a nil err.
func WrapIO(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Op: op, Path: path, Err: err}
}

// PartialMoveError reports that a task was written to its new location but
// the old file could not be removed, so the task now exists at both paths.
type PartialMoveError struct {
	From string
	To   string
	Err  error
}

func (e *PartialMoveError) Error() string {
	return fmt.Sprintf("task duplicated: written to %s but could not remove %s: %v", e.To, e.From, e.Err)
}

func (e *PartialMoveError) Unwrap() error { return e.Err }

// NotFoundError wraps ErrNotFound with the fragment that was looked up.
func NotFoundError(fragment string) error {
	return fmt.Errorf("task %q: %w", fragment, ErrNotFound)
}

// IsNotFound checks if an error is or wraps ErrNotFound
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsMalformed checks if an error is or wraps ErrMalformedTask
func IsMalformed(err error) bool {
	return errors.Is(err, ErrMalformedTask)
}
