// Package filesystem implements storage.Store on a directory tree.
//
// Each task is one markdown file at <root>/<status>/<id>-<slug>.md, where root
// is normally <workspace>/.repo-tasks/tasks. A task's status is the name of
// the directory holding it and is never written into the file.
package filesystem

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/repotasks/repo-tasks/internal/debug"
	"github.com/repotasks/repo-tasks/internal/frontmatter"
	"github.com/repotasks/repo-tasks/internal/idgen"
	"github.com/repotasks/repo-tasks/internal/storage"
	"github.com/repotasks/repo-tasks/internal/types"
)

// TasksDirName is the directory under .repo-tasks that holds status directories.
const TasksDirName = "tasks"

// Store implements storage.Store using one file per task.
type Store struct {
	root string // path to .repo-tasks/tasks

	// remove deletes a file. Tests swap it to simulate a failed delete.
	remove func(string) error
}

var _ storage.Store = (*Store)(nil)

// New creates a Store rooted at the given tasks directory.
func New(root string) *Store {
	return &Store{root: root, remove: os.Remove}
}

// NewForWorkspace creates a Store for <tasksDir>/tasks, where tasksDir is the
// .repo-tasks directory.
func NewForWorkspace(tasksDir string) *Store {
	return New(filepath.Join(tasksDir, TasksDirName))
}

// Root returns the directory holding the status directories.
func (s *Store) Root() string {
	return s.root
}

func (s *Store) statusDir(status types.Status) string {
	return filepath.Join(s.root, string(status))
}

// PathFor returns where task lives (or would live) in status.
func (s *Store) PathFor(task *types.Task, status types.Status) string {
	return filepath.Join(s.statusDir(status), task.FileName())
}

// Init creates the status directory layout.
func (s *Store) Init(ctx context.Context, statuses []types.Status) error {
	for _, status := range statuses {
		dir := s.statusDir(status)
		if err := os.MkdirAll(dir, 0750); err != nil {
			return storage.WrapIO("create directory", dir, err)
		}
	}
	return nil
}

// Write encodes task and writes it to <status>/<id>-<slug>.md, creating the
// status directory if needed. The previous file of a renamed or moved task
// is left alone.
func (s *Store) Write(ctx context.Context, task *types.Task, status types.Status) (string, error) {
	if err := task.Validate(); err != nil {
		return "", fmt.Errorf("write task: %w", err)
	}
	if task.Slug == "" {
		task.Slug = idgen.Slugify(task.Title)
	}

	data, err := frontmatter.Marshal(task)
	if err != nil {
		return "", fmt.Errorf("write task %s: %w", task.ID, err)
	}

	dir := s.statusDir(status)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", storage.WrapIO("create directory", dir, err)
	}

	path := filepath.Join(dir, task.FileName())
	if err := atomicWrite(path, data); err != nil {
		return "", storage.WrapIO("write", path, err)
	}
	return path, nil
}

// atomicWrite writes data to a temp file in the same directory, then renames
// it over path so readers never observe a half-written task.
func atomicWrite(path string, data []byte) error {
	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return fmt.Errorf("generating random suffix: %w", err)
	}
	tmp := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+".tmp."+hex.EncodeToString(randBytes))

	// #nosec G304 - path is built from the store root
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// readTask parses the task file at path and fills in status and slug from
// its location.
func readTask(path string, status types.Status) (*types.Task, error) {
	data, err := os.ReadFile(path) // #nosec G304 - path comes from a directory listing
	if err != nil {
		return nil, storage.WrapIO("read", path, err)
	}
	task, _, err := frontmatter.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	task.Status = status
	task.Slug = slugFromFileName(filepath.Base(path), task.ID)
	return task, nil
}

// slugFromFileName strips the "<id>-" prefix and ".md" suffix. Files not
// named after their ID fall back to everything after the first hyphen.
func slugFromFileName(name, id string) string {
	stem := strings.TrimSuffix(name, types.FileExt)
	if rest, ok := strings.CutPrefix(stem, id+"-"); ok {
		return rest
	}
	if _, rest, ok := strings.Cut(stem, "-"); ok {
		return rest
	}
	return stem
}

func isTaskFile(e os.DirEntry) bool {
	name := e.Name()
	return !e.IsDir() && !strings.HasPrefix(name, ".") && strings.HasSuffix(name, types.FileExt)
}

// statusDirs lists the status directories in lexicographic order.
func (s *Store) statusDirs() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, storage.WrapIO("scan", s.root, err)
	}
	var dirs []string
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			dirs = append(dirs, e.Name())
		}
	}
	return dirs, nil
}

// FindByFragment scans status directories, then the files in each, and
// returns the first task whose file name contains fragment and parses.
// Both levels are visited in lexicographic order, so when several files
// match the result is the first match in path order.
func (s *Store) FindByFragment(ctx context.Context, fragment string) (*types.Task, string, error) {
	if fragment == "" {
		return nil, "", storage.NotFoundError(fragment)
	}

	dirs, err := s.statusDirs()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", storage.NotFoundError(fragment)
		}
		return nil, "", err
	}

	for _, dir := range dirs {
		dirPath := filepath.Join(s.root, dir)
		entries, err := os.ReadDir(dirPath)
		if err != nil {
			debug.Logf("skipping %s: %v\n", dirPath, err)
			continue
		}
		for _, e := range entries {
			if !isTaskFile(e) || !strings.Contains(e.Name(), fragment) {
				continue
			}
			path := filepath.Join(dirPath, e.Name())
			task, err := readTask(path, types.Status(dir))
			if err != nil {
				debug.Logf("skipping %s: %v\n", path, err)
				continue
			}
			return task, path, nil
		}
	}

	return nil, "", storage.NotFoundError(fragment)
}

// ListByStatus parses every task file in one status directory. Files that
// fail to parse are skipped; a missing directory is an empty list.
func (s *Store) ListByStatus(ctx context.Context, status types.Status) ([]*types.Task, error) {
	dir := s.statusDir(status)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, storage.WrapIO("scan", dir, err)
	}

	var tasks []*types.Task
	for _, e := range entries {
		if !isTaskFile(e) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		task, err := readTask(path, status)
		if err != nil {
			debug.Logf("skipping %s: %v\n", path, err)
			continue
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// ListAll lists each status in the given order.
func (s *Store) ListAll(ctx context.Context, statuses []types.Status) ([]*types.Task, error) {
	var all []*types.Task
	for _, status := range statuses {
		tasks, err := s.ListByStatus(ctx, status)
		if err != nil {
			return nil, err
		}
		all = append(all, tasks...)
	}
	return all, nil
}

// Move writes task into the to directory and then removes fromPath.
//
// A task already in to is reported as AlreadyAtTarget without touching disk.
// A failed write returns an error and leaves the original in place. A failed
// delete after a successful write returns PartiallyMoved together with a
// *storage.PartialMoveError: the task now exists at both paths.
func (s *Store) Move(ctx context.Context, task *types.Task, fromPath string, to types.Status) (storage.MoveResult, error) {
	result := storage.MoveResult{
		From:       fromPath,
		FromStatus: task.Status,
		ToStatus:   to,
	}

	if task.Status == to {
		result.Outcome = storage.AlreadyAtTarget
		result.To = fromPath
		return result, nil
	}

	newPath, err := s.Write(ctx, task, to)
	if err != nil {
		return result, fmt.Errorf("move %s to %s: %w", task.ID, to, err)
	}
	result.To = newPath

	if err := s.remove(fromPath); err != nil && !os.IsNotExist(err) {
		result.Outcome = storage.PartiallyMoved
		return result, &storage.PartialMoveError{From: fromPath, To: newPath, Err: err}
	}

	task.Status = to
	result.Outcome = storage.Moved
	return result, nil
}

// Create assigns draft an ID and slug, then writes it into status.
func (s *Store) Create(ctx context.Context, draft *types.Task, status types.Status) (string, error) {
	if strings.TrimSpace(draft.Title) == "" {
		return "", fmt.Errorf("create task: title is required")
	}
	draft.ID = idgen.GenerateTaskID()
	draft.Slug = idgen.Slugify(draft.Title)
	draft.Status = status

	path, err := s.Write(ctx, draft, status)
	if err != nil {
		return "", fmt.Errorf("create task: %w", err)
	}
	return path, nil
}

// Update rewrites task in its current status directory under task.Slug,
// falling back to the title's slug when it is empty. Callers that change
// the title set a new slug. When the file name changes, oldPath is removed
// after the new file is written, with the same partial-failure reporting
// as Move.
func (s *Store) Update(ctx context.Context, task *types.Task, oldPath string) (string, error) {
	if task.Slug == "" {
		task.Slug = idgen.Slugify(task.Title)
	}

	newPath, err := s.Write(ctx, task, task.Status)
	if err != nil {
		return "", fmt.Errorf("update %s: %w", task.ID, err)
	}

	if oldPath != "" && filepath.Clean(oldPath) != filepath.Clean(newPath) {
		if err := s.remove(oldPath); err != nil && !os.IsNotExist(err) {
			return newPath, &storage.PartialMoveError{From: oldPath, To: newPath, Err: err}
		}
	}
	return newPath, nil
}

// Exists reports whether any status directory holds a file for id.
func (s *Store) Exists(ctx context.Context, id string) (bool, error) {
	_, _, err := s.FindByFragment(ctx, id+"-")
	if storage.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
