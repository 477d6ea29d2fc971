package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/repotasks/repo-tasks/internal/configfile"
	"github.com/repotasks/repo-tasks/internal/storage"
)

// FatalError writes an error message to stderr and exits with code 1.
// Use this for fatal errors that prevent the command from completing.
// In --json mode the message is emitted as {"error": ...} instead.
func FatalError(format string, args ...interface{}) {
	if jsonOutput {
		outputJSONError(fmt.Errorf(format, args...), "")
	}
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// FatalErrorWithHint writes an error message with a hint to stderr and exits.
// Use this when you can provide an actionable suggestion to fix the error.
//
// Example:
//
//	FatalErrorWithHint("not in a repo-tasks repository", "Run 'tasks init' to create one")
func FatalErrorWithHint(message, hint string) {
	if jsonOutput {
		outputJSONError(errors.New(message), "")
	}
	fmt.Fprintf(os.Stderr, "Error: %s\n", message)
	fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
	os.Exit(1)
}

// FatalErr reports err with a machine-readable code derived from its
// sentinel, then exits.
func FatalErr(err error) {
	if jsonOutput {
		outputJSONError(err, errorCode(err))
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// WarnError writes a warning message to stderr and returns.
// Use this for optional operations that enhance functionality but aren't
// required: task event hooks, auto-commit, hook backup restore.
func WarnError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Warning: "+format+"\n", args...)
}

// errorCode maps an error to the "code" field of JSON error output.
func errorCode(err error) string {
	var partial *storage.PartialMoveError
	var ioErr *storage.IOError
	switch {
	case errors.As(err, &partial):
		return "partial_move"
	case errors.Is(err, storage.ErrNotFound):
		return "not_found"
	case errors.Is(err, storage.ErrInvalidStatus):
		return "invalid_status"
	case errors.Is(err, storage.ErrInvalidPriority):
		return "invalid_priority"
	case errors.Is(err, storage.ErrMalformedTask):
		return "malformed_task"
	case errors.Is(err, configfile.ErrNotInitialized):
		return "not_initialized"
	case errors.As(err, &ioErr):
		return "io_error"
	default:
		return ""
	}
}
