package main

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/repotasks/repo-tasks/internal/types"
)

// newTestWorkspace initializes .repo-tasks in a temp dir and opens it.
func newTestWorkspace(t *testing.T) *workspace {
	t.Helper()
	root := t.TempDir()
	_, err := initWorkspace(context.Background(), root, "demo")
	require.NoError(t, err)
	w, err := openWorkspace(root)
	require.NoError(t, err)
	return w
}

// writeTask stores a task with a fixed ID so tests never depend on the clock.
func writeTask(t *testing.T, w *workspace, id, title string, status types.Status) (*types.Task, string) {
	t.Helper()
	task := &types.Task{ID: id, Title: title}
	path, err := w.Store.Write(context.Background(), task, status)
	require.NoError(t, err)
	task.Status = status
	return task, path
}

// captureOutput swaps stdout for a buffer for the rest of the test.
func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = old })
	return &buf
}

// setJSONOutput toggles --json for one test.
func setJSONOutput(t *testing.T, on bool) {
	t.Helper()
	old := jsonOutput
	jsonOutput = on
	t.Cleanup(func() { jsonOutput = old })
}

// initGitRepo turns dir into a git repository with one commit. Tests that
// need git are skipped when it is not installed.
func initGitRepo(t *testing.T, dir string) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	gitCmd(t, dir, "init", "--quiet")
	gitCmd(t, dir, "config", "user.email", "test@example.com")
	gitCmd(t, dir, "config", "user.name", "Test User")
	gitCmd(t, dir, "config", "commit.gpgsign", "false")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("readme\n"), 0644))
	gitCmd(t, dir, "add", "README.md")
	gitCmd(t, dir, "commit", "--quiet", "-m", "Initial commit")
}

func gitCmd(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v: %s", args, out)
	return string(out)
}
