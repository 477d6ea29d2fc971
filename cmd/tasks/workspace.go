package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/repotasks/repo-tasks/internal/configfile"
	"github.com/repotasks/repo-tasks/internal/git"
	"github.com/repotasks/repo-tasks/internal/hooks"
	"github.com/repotasks/repo-tasks/internal/storage"
	"github.com/repotasks/repo-tasks/internal/storage/filesystem"
	"github.com/repotasks/repo-tasks/internal/telemetry"
	"github.com/repotasks/repo-tasks/internal/types"
)

// workspace bundles everything a command needs to work on one project.
type workspace struct {
	Root     string
	TasksDir string
	Config   *configfile.Config
	Store    storage.Store
	Hooks    *hooks.Runner
}

// openWorkspace loads <root>/.repo-tasks. It returns
// configfile.ErrNotInitialized when the directory or its config is missing.
func openWorkspace(root string) (*workspace, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	tasksDir := filepath.Join(abs, configfile.DirName)
	cfg, err := configfile.Load(tasksDir)
	if err != nil {
		return nil, err
	}
	return &workspace{
		Root:     abs,
		TasksDir: tasksDir,
		Config:   cfg,
		Store:    telemetry.WrapStore(filesystem.NewForWorkspace(tasksDir)),
		Hooks:    hooks.NewRunnerForWorkspace(tasksDir),
	}, nil
}

func (w *workspace) repo() (*git.Repo, error) {
	return git.Open(w.Root)
}

// tasksPathspec is the .repo-tasks directory relative to the top of repo.
func (w *workspace) tasksPathspec(repo *git.Repo) string {
	top := repo.Dir
	if resolved, err := filepath.EvalSymlinks(top); err == nil {
		top = resolved
	}
	dir := w.TasksDir
	if resolved, err := filepath.EvalSymlinks(dir); err == nil {
		dir = resolved
	}
	if rel, err := filepath.Rel(top, dir); err == nil && !strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(rel)
	}
	return configfile.DirName
}

// findTask resolves an ID or slug fragment to a task.
func (w *workspace) findTask(ctx context.Context, fragment string) (*types.Task, string, error) {
	return w.Store.FindByFragment(ctx, fragment)
}

// parseStatus checks s against the configured statuses.
func (w *workspace) parseStatus(s string) (types.Status, error) {
	status := types.Status(s)
	if !w.Config.HasStatus(status) {
		return "", fmt.Errorf("%w: %q (valid: %s)", storage.ErrInvalidStatus, s, strings.Join(w.Config.Statuses, ", "))
	}
	return status, nil
}

// checkPriority checks p against the configured priorities. Empty is allowed.
func (w *workspace) checkPriority(p string) error {
	if p == "" || w.Config.HasPriority(p) {
		return nil
	}
	return fmt.Errorf("%w: %q (valid: %s)", storage.ErrInvalidPriority, p, strings.Join(w.Config.Priorities, ", "))
}

// runTaskHook fires the event hook for task. Hook failures are warnings.
func (w *workspace) runTaskHook(ctx context.Context, event string, task *types.Task) {
	if err := w.Hooks.Run(ctx, event, task); err != nil {
		WarnError("%s hook failed: %v", event, err)
	}
}

// afterChange runs the event hook and, when auto_commit is on, commits the
// task directory. Neither step can fail the command.
func (w *workspace) afterChange(ctx context.Context, event string, task *types.Task) {
	w.runTaskHook(ctx, event, task)
	if !w.Config.AutoCommit {
		return
	}
	if _, err := saveTasks(ctx, w, saveOptions{}); err != nil {
		WarnError("auto-commit failed: %v", err)
	}
}
