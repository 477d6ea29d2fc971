package hooks

import (
	"fmt"
	"strings"
)

// Error is a hook that exited non-zero.
type Error struct {
	Err    error
	Stderr string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v: %s", e.Err, strings.TrimSpace(e.Stderr))
}

func (e *Error) Unwrap() error { return e.Err }
