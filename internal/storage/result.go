package storage

import (
	"fmt"

	"github.com/repotasks/repo-tasks/internal/types"
)

// MoveOutcome distinguishes the three ways a move can end without a hard error.
type MoveOutcome int

const (
	// Moved: written at the new path and removed from the old one.
	Moved MoveOutcome = iota
	// AlreadyAtTarget: the task was already in the requested status. No file
	// operations were performed.
	AlreadyAtTarget
	// PartiallyMoved: written at the new path, but the old file survived.
	PartiallyMoved
)

func (o MoveOutcome) String() string {
	switch o {
	case Moved:
		return "moved"
	case AlreadyAtTarget:
		return "already"
	case PartiallyMoved:
		return "partial"
	default:
		return fmt.Sprintf("MoveOutcome(%d)", int(o))
	}
}

// MarshalText lets the outcome appear by name in --json output.
func (o MoveOutcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// MoveResult describes a completed (or skipped) move.
type MoveResult struct {
	Outcome    MoveOutcome  `json:"outcome"`
	From       string       `json:"from"`
	To         string       `json:"to"`
	FromStatus types.Status `json:"from_status"`
	ToStatus   types.Status `json:"to_status"`
}

// Duplicated reports whether the task now exists at both From and To.
func (r MoveResult) Duplicated() bool {
	return r.Outcome == PartiallyMoved
}
