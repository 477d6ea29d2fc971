//go:build unix

package hooks

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repotasks/repo-tasks/internal/types"
)

func writeHook(t *testing.T, dir, name, script string, mode os.FileMode) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(script), mode))
}

func testTask() *types.Task {
	return &types.Task{
		ID:       "20260110142106",
		Title:    "Implement login",
		Priority: "High",
		Slug:     "implement-login",
		Status:   types.StatusTodo,
	}
}

func TestEventToHook(t *testing.T) {
	assert.Equal(t, HookOnCreate, eventToHook(EventCreate))
	assert.Equal(t, HookOnUpdate, eventToHook(EventUpdate))
	assert.Equal(t, HookOnMove, eventToHook(EventMove))
	assert.Empty(t, eventToHook("close"))
}

func TestRunMissingHookIsNoop(t *testing.T) {
	r := NewRunner(filepath.Join(t.TempDir(), "hooks"))
	assert.False(t, r.HookExists(EventCreate))
	assert.NoError(t, r.Run(context.Background(), EventCreate, testTask()))
}

func TestRunSkipsNonExecutable(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "ran")
	writeHook(t, dir, HookOnCreate, "#!/bin/sh\ntouch "+out+"\n", 0644)

	r := NewRunner(dir)
	assert.False(t, r.HookExists(EventCreate))
	require.NoError(t, r.Run(context.Background(), EventCreate, testTask()))
	_, err := os.Stat(out)
	assert.True(t, os.IsNotExist(err))
}

func TestRunPassesArgsAndJSON(t *testing.T) {
	tasksDir := t.TempDir()
	dir := filepath.Join(tasksDir, DirName)
	args := filepath.Join(tasksDir, "args")
	stdin := filepath.Join(tasksDir, "stdin")
	writeHook(t, dir, HookOnMove, "#!/bin/sh\necho \"$1 $2\" > "+args+"\ncat > "+stdin+"\n", 0755)

	r := NewRunnerForWorkspace(tasksDir)
	require.True(t, r.HookExists(EventMove))

	task := testTask()
	task.Status = types.StatusDone
	require.NoError(t, r.Run(context.Background(), EventMove, task))

	gotArgs, err := os.ReadFile(args)
	require.NoError(t, err)
	assert.Equal(t, "20260110142106 move\n", string(gotArgs))

	data, err := os.ReadFile(stdin)
	require.NoError(t, err)
	var got types.Task
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, task.ID, got.ID)
	assert.Equal(t, types.StatusDone, got.Status)
	assert.Equal(t, "implement-login", got.Slug)
}

func TestRunReportsFailureWithStderr(t *testing.T) {
	dir := t.TempDir()
	writeHook(t, dir, HookOnUpdate, "#!/bin/sh\necho boom >&2\nexit 3\n", 0755)

	err := NewRunner(dir).Run(context.Background(), EventUpdate, testTask())
	require.Error(t, err)

	var hookErr *Error
	require.True(t, errors.As(err, &hookErr))
	assert.Contains(t, hookErr.Error(), "boom")
}

func TestRunTimeoutKillsDescendants(t *testing.T) {
	dir := t.TempDir()
	writeHook(t, dir, HookOnCreate, "#!/bin/sh\nsleep 60 &\nsleep 60\n", 0755)

	r := NewRunner(dir).WithTimeout(200 * time.Millisecond)
	start := time.Now()
	err := r.Run(context.Background(), EventCreate, testTask())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 10*time.Second)
}

func TestTruncateOutput(t *testing.T) {
	assert.Equal(t, "short", truncateOutput("short"))
	long := strings.Repeat("x", maxOutputBytes+10)
	got := truncateOutput(long)
	assert.True(t, strings.HasSuffix(got, "...(truncated)"))
	assert.Len(t, got, maxOutputBytes+len("...(truncated)"))
}
