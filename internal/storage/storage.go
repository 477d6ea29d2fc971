// Package storage provides shared types for task storage.
//
// The concrete implementation lives in the filesystem sub-package. This
// package holds the interface and value types referenced by both the
// implementation and its consumers (cmd/tasks, the automation bridge).
package storage

import (
	"context"
	"regexp"

	"github.com/repotasks/repo-tasks/internal/types"
)

// Store is the interface satisfied by *filesystem.Store.
// Consumers depend on this interface so that alternative implementations
// (fakes in tests, wrappers) can be substituted.
type Store interface {
	// Write encodes task into <statusDir>/<id>-<slug>.md and returns the path.
	// The previous location of the task, if any, is not touched.
	Write(ctx context.Context, task *types.Task, status types.Status) (string, error)

	// FindByFragment returns the first task whose filename contains fragment
	// and which parses, in lexicographic path order.
	FindByFragment(ctx context.Context, fragment string) (*types.Task, string, error)

	// ListByStatus parses every task file in one status directory. Files that
	// fail to parse are skipped.
	ListByStatus(ctx context.Context, status types.Status) ([]*types.Task, error)

	// Move relocates a task to another status directory.
	Move(ctx context.Context, task *types.Task, fromPath string, to types.Status) (MoveResult, error)

	// Init creates the status directory layout.
	Init(ctx context.Context, statuses []types.Status) error

	// Create assigns draft a generated ID and a slug from its title, then
	// writes it into status. A plain draft has an empty body; templates may
	// pre-fill it.
	Create(ctx context.Context, draft *types.Task, status types.Status) (string, error)

	// Update rewrites a task in place. When the slug changed, the file at
	// oldPath is removed after the new one is written.
	Update(ctx context.Context, task *types.Task, oldPath string) (string, error)

	// ListAll lists every status in order.
	ListAll(ctx context.Context, statuses []types.Status) ([]*types.Task, error)

	// Search returns every task file line matching pattern.
	Search(ctx context.Context, pattern *regexp.Regexp) ([]Match, error)

	// Exists reports whether any task file carries id.
	Exists(ctx context.Context, id string) (bool, error)
}

// Match is one line of a task file matched by a search.
type Match struct {
	Task *types.Task `json:"task"`
	Path string      `json:"path"`
	Line int         `json:"line"`
	Text string      `json:"text"`
}
