// Package automation turns parsed commit messages into task moves.
package automation

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/repotasks/repo-tasks/internal/commitmsg"
	"github.com/repotasks/repo-tasks/internal/debug"
	"github.com/repotasks/repo-tasks/internal/storage"
	"github.com/repotasks/repo-tasks/internal/telemetry"
	"github.com/repotasks/repo-tasks/internal/types"
)

const scopeName = "github.com/repotasks/repo-tasks/automation"

// precedence is the order in which keyword targets win.
var precedence = []types.Status{types.StatusDone, types.StatusTesting, types.StatusInProgress}

// ResolveTarget picks the single status a commit moves its tasks to:
// done beats testing, which beats in-progress.
func ResolveTarget(keywords []commitmsg.Keyword) (types.Status, bool) {
	for _, target := range precedence {
		for _, kw := range keywords {
			if kw.Target == target {
				return target, true
			}
		}
	}
	return "", false
}

// Outcome is what happened to one task ID.
type Outcome string

const (
	OutcomeMoved    Outcome = "moved"
	OutcomeAlready  Outcome = "already"
	OutcomePartial  Outcome = "partial"
	OutcomeNotFound Outcome = "not-found"
	OutcomeFailed   Outcome = "failed"
)

// Result records the handling of one task ID.
type Result struct {
	TaskID  string              `json:"task_id"`
	Title   string              `json:"title,omitempty"`
	Outcome Outcome             `json:"outcome"`
	Move    *storage.MoveResult `json:"move,omitempty"`
	Err     error               `json:"-"`
	Error   string              `json:"error,omitempty"`
}

// Report summarizes one Apply call. Target is empty when the message had no
// status keywords, in which case Results is empty too.
type Report struct {
	Target  types.Status `json:"target,omitempty"`
	Results []Result     `json:"results"`
}

// Failed reports whether any task ID ended in an error (including a
// partial move).
func (r Report) Failed() bool {
	for _, res := range r.Results {
		if res.Err != nil {
			return true
		}
	}
	return false
}

// Bridge applies commit messages to a Store.
type Bridge struct {
	store    storage.Store
	statuses []string
	tasksDir string

	transitions metric.Int64Counter
}

// NewBridge returns a Bridge moving tasks within store. statuses is the
// project's configured status list; targets outside it are rejected.
// Each step is appended to <tasksDir>/hooks.log; an empty tasksDir only
// logs through debug output.
func NewBridge(store storage.Store, statuses []string, tasksDir string) *Bridge {
	counter, _ := telemetry.Meter(scopeName).Int64Counter("tasks.automation.transitions",
		metric.WithDescription("Task transitions attempted from commit messages"),
	)
	return &Bridge{
		store:       store,
		statuses:    statuses,
		tasksDir:    tasksDir,
		transitions: counter,
	}
}

func (b *Bridge) logf(format string, args ...interface{}) {
	debug.LogEvent(b.tasksDir, format, args...)
}

// ApplyMessage parses message with parser and applies the result.
func (b *Bridge) ApplyMessage(ctx context.Context, parser *commitmsg.Parser, message string) Report {
	return b.Apply(ctx, parser.Parse(message))
}

// Apply moves every task referenced in info to the status its keywords
// resolve to. Each ID is handled on its own: a missing task or failed move
// is recorded and logged, and the remaining IDs are still processed.
func (b *Bridge) Apply(ctx context.Context, info commitmsg.CommitInfo) Report {
	if !info.HasTaskIDs() {
		b.logf("No task IDs found in commit message")
		return Report{}
	}

	target, ok := ResolveTarget(info.Keywords)
	if !ok {
		b.logf("No status keywords found in commit message")
		return Report{}
	}

	report := Report{Target: target}
	for _, id := range info.TaskIDs {
		res := b.applyOne(ctx, id, target)
		if res.Err != nil {
			res.Error = res.Err.Error()
		}
		b.transitions.Add(ctx, 1, metric.WithAttributes(
			attribute.String("outcome", string(res.Outcome)),
			attribute.String("target", string(target)),
		))
		report.Results = append(report.Results, res)
	}
	return report
}

func (b *Bridge) applyOne(ctx context.Context, id string, target types.Status) Result {
	res := Result{TaskID: id}

	if !target.IsValidWith(b.statuses) {
		res.Outcome = OutcomeFailed
		res.Err = fmt.Errorf("move %s to %q: %w", id, target, storage.ErrInvalidStatus)
		b.logf("ERROR moving task %s: status %s is not configured", id, target)
		return res
	}

	// The "<id>-" prefix keeps a slug that mentions the ID from matching.
	task, path, err := b.store.FindByFragment(ctx, id+"-")
	if err != nil {
		if storage.IsNotFound(err) {
			res.Outcome = OutcomeNotFound
		} else {
			res.Outcome = OutcomeFailed
		}
		res.Err = err
		b.logf("ERROR moving task %s: %v", id, err)
		return res
	}
	res.Title = task.Title

	b.logf("Moving task %s to %s", id, target)
	moved, err := b.store.Move(ctx, task, path, target)
	if err != nil {
		res.Err = err
		var partial *storage.PartialMoveError
		if errors.As(err, &partial) || moved.Outcome == storage.PartiallyMoved {
			res.Outcome = OutcomePartial
			res.Move = &moved
			b.logf("WARNING task %s now exists at %s and %s: %v", id, moved.From, moved.To, err)
			return res
		}
		res.Outcome = OutcomeFailed
		b.logf("ERROR moving task %s: %v", id, err)
		return res
	}

	res.Move = &moved
	if moved.Outcome == storage.AlreadyAtTarget {
		res.Outcome = OutcomeAlready
		b.logf("Task %s already in %s", id, target)
		return res
	}
	res.Outcome = OutcomeMoved
	b.logf("Successfully moved task %s to %s", id, target)
	return res
}
