// Package types defines core data structures for the tasks tracker.
package types

import (
	"fmt"
	"slices"
	"strings"
)

// Task is a single tracked unit of work. One file on disk holds exactly one task.
//
// Slug and Status are not part of the stored header: the slug is the filename
// component after the ID and the status is the name of the containing
// directory. The store fills them in when a task is read.
type Task struct {
	ID        string   `json:"id" yaml:"ID" toml:"id"`
	Title     string   `json:"title" yaml:"Title" toml:"title"`
	Priority  string   `json:"priority,omitempty" yaml:"Priority,omitempty" toml:"priority,omitempty"`
	Blocks    []string `json:"blocks,omitempty" yaml:"Blocks,omitempty" toml:"blocks,omitempty"`
	DependsOn []string `json:"depends_on,omitempty" yaml:"DependsOn,omitempty" toml:"depends_on,omitempty"`
	Tags      []string `json:"tags,omitempty" yaml:"Tags,omitempty" toml:"tags,omitempty"`
	Body      string   `json:"body,omitempty" yaml:"-" toml:"body,omitempty"`
	Slug      string   `json:"slug" yaml:"-" toml:"slug"`
	Status    Status   `json:"status" yaml:"-" toml:"status"`
}

// FileName returns the on-disk file name for the task: <id>-<slug>.md
func (t *Task) FileName() string {
	return fmt.Sprintf("%s-%s%s", t.ID, t.Slug, FileExt)
}

// HasTag reports whether the task carries the given tag.
func (t *Task) HasTag(tag string) bool {
	return slices.Contains(t.Tags, tag)
}

// Validate checks the fields every stored task must have.
func (t *Task) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("task id is required")
	}
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("task title is required")
	}
	return nil
}

// Clone returns a deep copy so callers can mutate list fields freely.
func (t *Task) Clone() *Task {
	c := *t
	c.Blocks = slices.Clone(t.Blocks)
	c.DependsOn = slices.Clone(t.DependsOn)
	c.Tags = slices.Clone(t.Tags)
	return &c
}

// FileExt is the extension of every task file.
const FileExt = ".md"

// Status is the stage a task is in. It is represented on disk only by the
// directory that holds the task file.
type Status string

// Built-in status constants. Projects may configure a different list; these
// are the defaults and the targets used by commit automation.
const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusTesting    Status = "testing"
	StatusDone       Status = "done"
)

// DefaultStatuses is the status list written by a fresh init.
var DefaultStatuses = []Status{StatusTodo, StatusInProgress, StatusTesting, StatusDone}

// DefaultPriorities is the priority list written by a fresh init, lowest rank first.
var DefaultPriorities = []string{"Low", "Medium", "High", "Critical"}

// IsValid checks if the status is one of the built-in statuses
func (s Status) IsValid() bool {
	return slices.Contains(DefaultStatuses, s)
}

// IsValidWith checks the status against a configured status list.
func (s Status) IsValidWith(configured []string) bool {
	return slices.Contains(configured, string(s))
}

func (s Status) String() string {
	return string(s)
}
