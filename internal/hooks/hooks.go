// Package hooks runs user scripts after task events.
// Hooks are executable scripts in .repo-tasks/hooks/ named after the event.
package hooks

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/repotasks/repo-tasks/internal/types"
)

// Event types
const (
	EventCreate = "create"
	EventUpdate = "update"
	EventMove   = "move"
)

// Hook file names
const (
	HookOnCreate = "on_create"
	HookOnUpdate = "on_update"
	HookOnMove   = "on_move"
)

// DirName is the hooks directory inside .repo-tasks.
const DirName = "hooks"

// DefaultTimeout bounds a single hook run.
const DefaultTimeout = 10 * time.Second

// Runner handles hook execution
type Runner struct {
	hooksDir string
	timeout  time.Duration
}

// NewRunner creates a new hook runner for the scripts in hooksDir.
func NewRunner(hooksDir string) *Runner {
	return &Runner{
		hooksDir: hooksDir,
		timeout:  DefaultTimeout,
	}
}

// NewRunnerForWorkspace creates a runner for <tasksDir>/hooks, where tasksDir
// is the .repo-tasks directory.
func NewRunnerForWorkspace(tasksDir string) *Runner {
	return NewRunner(filepath.Join(tasksDir, DirName))
}

// WithTimeout returns a copy of r with a different per-hook timeout.
func (r *Runner) WithTimeout(d time.Duration) *Runner {
	c := *r
	c.timeout = d
	return &c
}

// Run executes the hook for event if one exists, waiting for it to finish.
// The script is invoked as `<hook> <task-id> <event>` with the task as JSON
// on stdin. A missing or non-executable script is not an error.
func (r *Runner) Run(ctx context.Context, event string, task *types.Task) error {
	hookPath, ok := r.hookPath(event)
	if !ok {
		return nil
	}
	return r.runHook(ctx, hookPath, event, task)
}

// HookExists checks if an executable hook exists for an event
func (r *Runner) HookExists(event string) bool {
	_, ok := r.hookPath(event)
	return ok
}

func (r *Runner) hookPath(event string) (string, bool) {
	hookName := eventToHook(event)
	if hookName == "" {
		return "", false
	}

	hookPath := filepath.Join(r.hooksDir, hookName)
	info, err := os.Stat(hookPath)
	if err != nil || info.IsDir() {
		return "", false
	}
	if info.Mode()&0111 == 0 {
		return "", false
	}
	return hookPath, true
}

func eventToHook(event string) string {
	switch event {
	case EventCreate:
		return HookOnCreate
	case EventUpdate:
		return HookOnUpdate
	case EventMove:
		return HookOnMove
	default:
		return ""
	}
}
