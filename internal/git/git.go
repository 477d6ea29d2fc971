// Package git runs the git CLI on behalf of tasks: repository discovery,
// status, staging, commits, branches, and the hooks directory.
package git

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrNotRepository is returned when dir is not inside a git work tree.
var ErrNotRepository = errors.New("not a git repository")

// Repo is a git work tree. Commands run with Dir as their working directory.
type Repo struct {
	Dir string

	// Env is appended to the environment of every git command.
	Env []string
}

// Open finds the top of the work tree containing dir.
func Open(dir string) (*Repo, error) {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", dir, ErrNotRepository)
	}
	return &Repo{Dir: strings.TrimSpace(string(out))}, nil
}

// run executes git with args and returns trimmed stdout. On failure the
// error carries git's stderr.
func (r *Repo) run(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	if len(r.Env) > 0 {
		cmd.Env = append(os.Environ(), r.Env...)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return "", fmt.Errorf("git %s: %w", args[0], err)
		}
		return "", fmt.Errorf("git %s: %s: %w", args[0], msg, err)
	}
	return strings.TrimRight(string(out), "\r\n"), nil
}

// GitDir returns the absolute .git directory. In a worktree this is the
// per-worktree directory, not the main repository's.
func (r *Repo) GitDir() (string, error) {
	dir, err := r.run("rev-parse", "--absolute-git-dir")
	if err != nil {
		return "", err
	}
	return dir, nil
}

// HooksDir returns the directory git runs hooks from. It honours
// core.hooksPath and is worktree-aware.
func (r *Repo) HooksDir() (string, error) {
	dir, err := r.run("rev-parse", "--git-path", "hooks")
	if err != nil {
		return "", err
	}
	if strings.HasPrefix(dir, "~") {
		if home, herr := os.UserHomeDir(); herr == nil {
			dir = filepath.Join(home, strings.TrimLeft(dir[1:], `/\`))
		}
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(r.Dir, dir)
	}
	return dir, nil
}

// ChangeKind classifies a path in `git status`.
type ChangeKind string

const (
	Added    ChangeKind = "added"
	Modified ChangeKind = "modified"
	Deleted  ChangeKind = "deleted"
)

// Change is one path reported by Status.
type Change struct {
	Path string     `json:"path"`
	Kind ChangeKind `json:"kind"`
}

// Status lists uncommitted changes (staged, unstaged, untracked) under
// pathspec. Untracked directories are expanded to their files.
func (r *Repo) Status(pathspec string) ([]Change, error) {
	out, err := r.run("status", "--porcelain=v1", "-z", "--untracked-files=all", "--", pathspec)
	if err != nil {
		return nil, err
	}
	return parsePorcelainZ(out), nil
}

// parsePorcelainZ parses NUL-separated porcelain v1 entries. A rename entry
// is followed by its source path, which is skipped.
func parsePorcelainZ(out string) []Change {
	var changes []Change
	fields := strings.Split(out, "\x00")
	for i := 0; i < len(fields); i++ {
		entry := fields[i]
		if len(entry) < 4 {
			continue
		}
		x, y, path := entry[0], entry[1], entry[3:]
		var kind ChangeKind
		switch {
		case x == '?' || x == 'A':
			kind = Added
		case x == 'D' || y == 'D':
			kind = Deleted
		case x == 'R' || x == 'C':
			kind = Added
			i++
		default:
			kind = Modified
		}
		changes = append(changes, Change{Path: path, Kind: kind})
	}
	return changes
}

// StagedFiles lists paths staged in the index relative to HEAD.
func (r *Repo) StagedFiles() ([]string, error) {
	out, err := r.run("diff", "--cached", "--name-only", "-z")
	if err != nil {
		return nil, err
	}
	var files []string
	for _, f := range strings.Split(out, "\x00") {
		if f != "" {
			files = append(files, f)
		}
	}
	return files, nil
}

// AddAll stages every change, including deletions, under pathspec.
func (r *Repo) AddAll(pathspec string) error {
	_, err := r.run("add", "--all", "--", pathspec)
	return err
}

// Commit records the index with message.
func (r *Repo) Commit(message string) error {
	_, err := r.run("commit", "--quiet", "-m", message)
	return err
}

// Push pushes the current branch to its upstream.
func (r *Repo) Push() error {
	_, err := r.run("push")
	return err
}

// CurrentBranch returns the checked-out branch name, or "HEAD" when detached.
func (r *Repo) CurrentBranch() (string, error) {
	return r.run("rev-parse", "--abbrev-ref", "HEAD")
}

// BranchExists reports whether a local branch exists.
func (r *Repo) BranchExists(name string) bool {
	_, err := r.run("show-ref", "--verify", "--quiet", "refs/heads/"+name)
	return err == nil
}

// Checkout switches to branch, creating it from HEAD when create is true.
func (r *Repo) Checkout(branch string, create bool) error {
	args := []string{"checkout", "--quiet"}
	if create {
		args = append(args, "-b")
	}
	_, err := r.run(append(args, branch)...)
	return err
}

// LastCommitMessage returns the full message of HEAD.
func (r *Repo) LastCommitMessage() (string, error) {
	return r.run("log", "-1", "--pretty=%B")
}
