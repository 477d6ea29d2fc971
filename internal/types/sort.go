package types

import (
	"cmp"
	"slices"
)

// PriorityRank returns the position of priority in the configured list, or -1
// when the task has no priority or one outside the list.
func PriorityRank(priority string, priorities []string) int {
	if priority == "" {
		return -1
	}
	return slices.Index(priorities, priority)
}

// SortByPriority orders tasks highest configured priority first. Tasks with an
// unknown or missing priority sort last. Ties fall back to ID, which is
// creation order.
func SortByPriority(tasks []*Task, priorities []string) {
	slices.SortStableFunc(tasks, func(a, b *Task) int {
		ra, rb := PriorityRank(a.Priority, priorities), PriorityRank(b.Priority, priorities)
		if ra != rb {
			// Higher rank first; -1 naturally lands at the end.
			return cmp.Compare(rb, ra)
		}
		return cmp.Compare(a.ID, b.ID)
	})
}
