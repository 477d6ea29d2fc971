package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/repotasks/repo-tasks/internal/idgen"
	"github.com/repotasks/repo-tasks/internal/timeparsing"
	"github.com/repotasks/repo-tasks/internal/types"
	"github.com/repotasks/repo-tasks/internal/ui"
)

// listFilter narrows a listing. Zero values match everything.
type listFilter struct {
	Statuses []types.Status
	Priority string
	Tag      string
	Since    time.Time
}

func (f listFilter) matches(t *types.Task) bool {
	if f.Priority != "" && t.Priority != f.Priority {
		return false
	}
	if f.Tag != "" && !t.HasTag(f.Tag) {
		return false
	}
	if !f.Since.IsZero() {
		created, ok := idgen.CreatedAt(t.ID)
		if !ok || created.Before(f.Since) {
			return false
		}
	}
	return true
}

// listTasks loads every status in filter, keeps the matches and sorts them
// by priority, highest first.
func listTasks(ctx context.Context, w *workspace, filter listFilter) ([]*types.Task, error) {
	all, err := w.Store.ListAll(ctx, filter.Statuses)
	if err != nil {
		return nil, err
	}
	var tasks []*types.Task
	for _, t := range all {
		if filter.matches(t) {
			tasks = append(tasks, t)
		}
	}
	types.SortByPriority(tasks, w.Config.Priorities)
	return tasks, nil
}

// buildListFilter validates list arguments against the workspace config.
func buildListFilter(w *workspace, status string, all bool, priority, tag, since string, now time.Time) (listFilter, error) {
	filter := listFilter{Priority: priority, Tag: tag}

	switch {
	case all:
		filter.Statuses = w.Config.StatusList()
	case status != "":
		s, err := w.parseStatus(status)
		if err != nil {
			return filter, err
		}
		filter.Statuses = []types.Status{s}
	default:
		filter.Statuses = []types.Status{w.Config.InitialStatus()}
	}

	if err := w.checkPriority(priority); err != nil {
		return filter, err
	}

	if since != "" {
		t, err := timeparsing.ParseSince(since, now)
		if err != nil {
			return filter, err
		}
		filter.Since = t
	}
	return filter, nil
}

func describeFilter(filter listFilter) string {
	var b strings.Builder
	if len(filter.Statuses) == 1 {
		b.WriteString(ui.RenderAccent(string(filter.Statuses[0])))
	} else {
		b.WriteString("all statuses")
	}
	if filter.Priority != "" {
		fmt.Fprintf(&b, " [priority: %s]", filter.Priority)
	}
	if filter.Tag != "" {
		fmt.Fprintf(&b, " [tag: %s]", filter.Tag)
	}
	if !filter.Since.IsZero() {
		fmt.Fprintf(&b, " [since: %s]", filter.Since.Format("2006-01-02 15:04"))
	}
	return b.String()
}

func displayTaskList(tasks []*types.Task, filter listFilter, priorities []string) {
	if len(tasks) == 0 {
		msg := fmt.Sprintf("No tasks in %s", describeFilter(filter))
		fmt.Fprintln(stdout, msg)
		return
	}

	fmt.Fprintf(stdout, "Tasks in %s (%d total)\n\n", describeFilter(filter), len(tasks))
	showStatus := len(filter.Statuses) > 1
	for _, t := range tasks {
		line := fmt.Sprintf("[%s] %s - %s", ui.RenderID(t.ID), t.Slug, t.Title)
		if p := ui.RenderPriority(t.Priority, priorities); p != "" {
			line = p + " " + line
		}
		if showStatus {
			line += " (" + ui.RenderStatus(t.Status) + ")"
		}
		if len(t.Tags) > 0 {
			line += " " + ui.RenderTags(t.Tags)
		}
		fmt.Fprintln(stdout, line)
	}
}

var listCmd = &cobra.Command{
	Use:     "list [status]",
	Aliases: []string{"ls"},
	GroupID: GroupTasks,
	Short:   "List tasks in a status (default: the first status)",
	Args:    cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		all, _ := cmd.Flags().GetBool("all")
		priority, _ := cmd.Flags().GetString("priority")
		tag, _ := cmd.Flags().GetString("tag")
		since, _ := cmd.Flags().GetString("since")
		watch, _ := cmd.Flags().GetBool("watch")

		status := ""
		if len(args) == 1 {
			status = args[0]
		}

		filter, err := buildListFilter(ws, status, all, priority, tag, since, time.Now())
		if err != nil {
			FatalErr(err)
		}

		ctx := getRootContext()
		if watch {
			if jsonOutput {
				FatalError("--watch cannot be combined with --json")
			}
			if err := watchTasks(ctx, ws, filter); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		}

		tasks, err := listTasks(ctx, ws, filter)
		if err != nil {
			FatalErr(err)
		}
		if jsonOutput {
			if tasks == nil {
				tasks = []*types.Task{}
			}
			outputJSON(tasks)
			return
		}
		displayTaskList(tasks, filter, ws.Config.Priorities)
	},
}

func init() {
	listCmd.Flags().BoolP("all", "a", false, "List every status")
	listCmd.Flags().StringP("priority", "p", "", "Only tasks with this priority")
	listCmd.Flags().StringP("tag", "t", "", "Only tasks with this tag")
	listCmd.Flags().String("since", "", "Only tasks created since (e.g. 2d, -1w, yesterday, 2026-01-10)")
	listCmd.Flags().BoolP("watch", "w", false, "Watch for changes and redisplay")
	rootCmd.AddCommand(listCmd)
}
