// Package idgen derives task identifiers and filename slugs.
package idgen

import (
	"time"
)

// TaskIDLayout is the time layout of a task ID: local time to the second,
// zero-padded, no separators.
const TaskIDLayout = "20060102150405"

// TaskIDLength is the fixed length of every task ID.
const TaskIDLength = len(TaskIDLayout)

// NewTaskID formats now as a task ID.
//
// Two tasks created within the same second get the same ID. The tracker
// accepts this; callers must not assume IDs are unique across calls.
func NewTaskID(now time.Time) string {
	return now.Local().Format(TaskIDLayout)
}

// GenerateTaskID returns a task ID for the current local time.
func GenerateTaskID() string {
	return NewTaskID(time.Now())
}

// IsTaskID reports whether s is exactly TaskIDLength ASCII digits.
func IsTaskID(s string) bool {
	if len(s) != TaskIDLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// CreatedAt recovers the local creation time encoded in a task ID.
func CreatedAt(id string) (time.Time, bool) {
	if !IsTaskID(id) {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(TaskIDLayout, id, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
