package filesystem

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repotasks/repo-tasks/internal/storage"
	"github.com/repotasks/repo-tasks/internal/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewForWorkspace(filepath.Join(t.TempDir(), ".repo-tasks"))
	require.NoError(t, s.Init(context.Background(), types.DefaultStatuses))
	return s
}

func writeTask(t *testing.T, s *Store, id, title string, status types.Status) (*types.Task, string) {
	t.Helper()
	task := &types.Task{ID: id, Title: title, Status: status}
	path, err := s.Write(context.Background(), task, status)
	require.NoError(t, err)
	return task, path
}

func TestInitCreatesStatusDirs(t *testing.T) {
	s := newTestStore(t)
	for _, status := range types.DefaultStatuses {
		info, err := os.Stat(filepath.Join(s.Root(), string(status)))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestWriteComposesPath(t *testing.T) {
	s := newTestStore(t)
	task := &types.Task{ID: "20260110142106", Title: "Implement login", Priority: "High"}

	path, err := s.Write(context.Background(), task, "review")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(s.Root(), "review", "20260110142106-implement-login.md"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Priority: High")

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not be left behind")
}

func TestWriteRejectsInvalidTask(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Write(context.Background(), &types.Task{ID: "20260110142106"}, types.StatusTodo)
	assert.Error(t, err)
}

func TestFindByFragment(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	writeTask(t, s, "20260110142106", "Implement login", types.StatusInProgress)
	writeTask(t, s, "20260110142107", "Write docs", types.StatusTodo)

	task, path, err := s.FindByFragment(ctx, "20260110142106")
	require.NoError(t, err)
	assert.Equal(t, "Implement login", task.Title)
	assert.Equal(t, types.StatusInProgress, task.Status)
	assert.Equal(t, "implement-login", task.Slug)
	assert.Equal(t, filepath.Join(s.Root(), "in-progress", "20260110142106-implement-login.md"), path)

	task, _, err = s.FindByFragment(ctx, "docs")
	require.NoError(t, err)
	assert.Equal(t, "20260110142107", task.ID)
}

func TestFindByFragmentNotFound(t *testing.T) {
	s := newTestStore(t)
	writeTask(t, s, "20260110142106", "Implement login", types.StatusTodo)

	for _, fragment := range []string{"nothing-matches", ""} {
		_, _, err := s.FindByFragment(context.Background(), fragment)
		assert.ErrorIs(t, err, storage.ErrNotFound, "fragment %q", fragment)
	}

	uninitialized := New(filepath.Join(t.TempDir(), "missing"))
	_, _, err := uninitialized.FindByFragment(context.Background(), "x")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestFindByFragmentIsLexicographic(t *testing.T) {
	s := newTestStore(t)
	// "done" sorts before "todo", and within a directory names sort by ID.
	writeTask(t, s, "20260110142109", "shared words", types.StatusTodo)
	writeTask(t, s, "20260110142108", "shared words", types.StatusDone)
	writeTask(t, s, "20260110142107", "shared words", types.StatusDone)

	for i := 0; i < 5; i++ {
		task, _, err := s.FindByFragment(context.Background(), "shared")
		require.NoError(t, err)
		assert.Equal(t, "20260110142107", task.ID)
	}
}

func TestFindByFragmentSkipsUnparseable(t *testing.T) {
	s := newTestStore(t)
	bad := filepath.Join(s.Root(), "done", "20260110142100-login.md")
	require.NoError(t, os.WriteFile(bad, []byte("no header here"), 0644))
	writeTask(t, s, "20260110142106", "login", types.StatusTodo)

	task, _, err := s.FindByFragment(context.Background(), "login")
	require.NoError(t, err)
	assert.Equal(t, "20260110142106", task.ID)
}

func TestListByStatus(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	writeTask(t, s, "20260110142106", "First", types.StatusTodo)
	writeTask(t, s, "20260110142107", "Second", types.StatusTodo)
	writeTask(t, s, "20260110142108", "Elsewhere", types.StatusDone)

	todoDir := filepath.Join(s.Root(), "todo")
	require.NoError(t, os.WriteFile(filepath.Join(todoDir, "20260110142109-broken.md"), []byte("---\nnot: [closed\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(todoDir, "notes.txt"), []byte("ignored"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(todoDir, "nested"), 0750))
	writeTask(t, New(todoDir), "20260110142110", "Nested task", "nested")

	tasks, err := s.ListByStatus(ctx, types.StatusTodo)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "First", tasks[0].Title)
	assert.Equal(t, "Second", tasks[1].Title)
	for _, task := range tasks {
		assert.Equal(t, types.StatusTodo, task.Status)
	}
}

func TestListByStatusMissingDirectory(t *testing.T) {
	s := newTestStore(t)
	tasks, err := s.ListByStatus(context.Background(), "never-created")
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestListAll(t *testing.T) {
	s := newTestStore(t)
	writeTask(t, s, "20260110142106", "A", types.StatusDone)
	writeTask(t, s, "20260110142107", "B", types.StatusTodo)

	tasks, err := s.ListAll(context.Background(), types.DefaultStatuses)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, types.StatusTodo, tasks[0].Status)
	assert.Equal(t, types.StatusDone, tasks[1].Status)
}

func TestMove(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	writeTask(t, s, "20260110142106", "Implement login", types.StatusTodo)
	task, from, err := s.FindByFragment(ctx, "20260110142106")
	require.NoError(t, err)

	result, err := s.Move(ctx, task, from, types.StatusDone)
	require.NoError(t, err)

	assert.Equal(t, storage.Moved, result.Outcome)
	assert.Equal(t, types.StatusTodo, result.FromStatus)
	assert.Equal(t, types.StatusDone, result.ToStatus)
	assert.Equal(t, from, result.From)
	assert.Equal(t, filepath.Join(s.Root(), "done", "20260110142106-implement-login.md"), result.To)
	assert.NoFileExists(t, from)
	assert.FileExists(t, result.To)
	assert.Equal(t, types.StatusDone, task.Status)

	moved, _, err := s.FindByFragment(ctx, "20260110142106")
	require.NoError(t, err)
	assert.Equal(t, types.StatusDone, moved.Status)
}

func TestMoveToCurrentStatusIsNoop(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	writeTask(t, s, "20260110142106", "Implement login", types.StatusTesting)
	task, from, err := s.FindByFragment(ctx, "20260110142106")
	require.NoError(t, err)

	before, err := os.Stat(from)
	require.NoError(t, err)

	removeCalled := false
	s.remove = func(string) error { removeCalled = true; return nil }

	result, err := s.Move(ctx, task, from, types.StatusTesting)
	require.NoError(t, err)
	assert.Equal(t, storage.AlreadyAtTarget, result.Outcome)
	assert.False(t, removeCalled)

	after, err := os.Stat(from)
	require.NoError(t, err)
	assert.Equal(t, before.ModTime(), after.ModTime())
}

func TestMoveWriteFailureLeavesOriginal(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	writeTask(t, s, "20260110142106", "Implement login", types.StatusTodo)
	task, from, err := s.FindByFragment(ctx, "20260110142106")
	require.NoError(t, err)

	// A regular file where the target directory should be.
	require.NoError(t, os.WriteFile(filepath.Join(s.Root(), "blocked"), nil, 0644))

	_, err = s.Move(ctx, task, from, "blocked")
	require.Error(t, err)
	var ioErr *storage.IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Contains(t, err.Error(), filepath.Join(s.Root(), "blocked"))
	assert.FileExists(t, from)
	assert.Equal(t, types.StatusTodo, task.Status)
}

func TestMoveDeleteFailureIsPartial(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	writeTask(t, s, "20260110142106", "Implement login", types.StatusTodo)
	task, from, err := s.FindByFragment(ctx, "20260110142106")
	require.NoError(t, err)

	s.remove = func(string) error { return fs.ErrPermission }

	result, err := s.Move(ctx, task, from, types.StatusDone)
	require.Error(t, err)
	assert.Equal(t, storage.PartiallyMoved, result.Outcome)
	assert.True(t, result.Duplicated())

	var partial *storage.PartialMoveError
	require.True(t, errors.As(err, &partial))
	assert.Equal(t, from, partial.From)
	assert.Equal(t, result.To, partial.To)
	assert.ErrorIs(t, err, fs.ErrPermission)

	assert.FileExists(t, from)
	assert.FileExists(t, result.To)
}

func TestCreate(t *testing.T) {
	s := newTestStore(t)
	draft := &types.Task{Title: "Create Requirements Document", Priority: "Medium"}

	path, err := s.Create(context.Background(), draft, types.StatusTodo)
	require.NoError(t, err)

	assert.Len(t, draft.ID, 14)
	assert.Equal(t, "create-requirements-document", draft.Slug)
	assert.Equal(t, types.StatusTodo, draft.Status)
	assert.Equal(t, filepath.Join(s.Root(), "todo", draft.ID+"-create-requirements-document.md"), path)

	exists, err := s.Exists(context.Background(), draft.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = s.Create(context.Background(), &types.Task{Title: "  "}, types.StatusTodo)
	assert.Error(t, err)
}

func TestUpdateRenamesOnTitleChange(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	writeTask(t, s, "20260110142106", "Old title", types.StatusTodo)
	task, oldPath, err := s.FindByFragment(ctx, "20260110142106")
	require.NoError(t, err)

	task.Title = "New title"
	task.Slug = ""
	task.Body = "details"
	newPath, err := s.Update(ctx, task, oldPath)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(s.Root(), "todo", "20260110142106-new-title.md"), newPath)
	assert.NoFileExists(t, oldPath)

	got, _, err := s.FindByFragment(ctx, "20260110142106")
	require.NoError(t, err)
	assert.Equal(t, "New title", got.Title)
	assert.Equal(t, "details", got.Body)
}

func TestUpdateSameSlugKeepsFile(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	writeTask(t, s, "20260110142106", "Title", types.StatusTodo)
	task, path, err := s.FindByFragment(ctx, "20260110142106")
	require.NoError(t, err)

	task.Tags = []string{"x"}
	newPath, err := s.Update(ctx, task, path)
	require.NoError(t, err)
	assert.Equal(t, path, newPath)
	assert.FileExists(t, path)
}

func TestUpdateKeepsFileSlug(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	dir := filepath.Join(s.Root(), "todo")
	require.NoError(t, os.MkdirAll(dir, 0750))
	path := filepath.Join(dir, "20260110142106-strasse-bauen.md")
	require.NoError(t, os.WriteFile(path, []byte("---\nID: \"20260110142106\"\nTitle: Straße bauen!\n---\n\n"), 0644))

	task, found, err := s.FindByFragment(ctx, "20260110142106")
	require.NoError(t, err)
	require.Equal(t, path, found)

	task.Priority = "High"
	newPath, err := s.Update(ctx, task, found)
	require.NoError(t, err)
	assert.Equal(t, path, newPath)
	assert.FileExists(t, path)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestUpdateDeleteFailureIsPartial(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	writeTask(t, s, "20260110142106", "Old title", types.StatusTodo)
	task, oldPath, err := s.FindByFragment(ctx, "20260110142106")
	require.NoError(t, err)

	s.remove = func(string) error { return fs.ErrPermission }
	task.Title = "Renamed"
	task.Slug = ""
	_, err = s.Update(ctx, task, oldPath)

	var partial *storage.PartialMoveError
	require.True(t, errors.As(err, &partial))
	assert.FileExists(t, oldPath)
}

func TestExists(t *testing.T) {
	s := newTestStore(t)
	writeTask(t, s, "20260110142106", "Something", types.StatusTodo)

	ok, err := s.Exists(context.Background(), "20260110142106")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Exists(context.Background(), "20260110142199")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSearch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	task := &types.Task{ID: "20260110142106", Title: "Implement login", Body: "Use OAuth\nthen add TOTP"}
	_, err := s.Write(ctx, task, types.StatusTodo)
	require.NoError(t, err)
	writeTask(t, s, "20260110142107", "Unrelated", types.StatusDone)

	matches, err := s.Search(ctx, regexp.MustCompile(`(?i)oauth|totp`))
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "Use OAuth", matches[0].Text)
	assert.Equal(t, "then add TOTP", matches[1].Text)
	assert.Greater(t, matches[1].Line, matches[0].Line)
	assert.Equal(t, "20260110142106", matches[0].Task.ID)
	assert.Equal(t, types.StatusTodo, matches[0].Task.Status)

	none, err := s.Search(ctx, regexp.MustCompile(`nomatch`))
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSlugFromFileName(t *testing.T) {
	assert.Equal(t, "implement-login", slugFromFileName("20260110142106-implement-login.md", "20260110142106"))
	assert.Equal(t, "renamed-by-hand", slugFromFileName("20260110142100-renamed-by-hand.md", "20260110142106"))
	assert.Equal(t, "plain", slugFromFileName("plain.md", "20260110142106"))
}
