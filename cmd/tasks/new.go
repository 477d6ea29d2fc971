package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/repotasks/repo-tasks/internal/hooks"
	"github.com/repotasks/repo-tasks/internal/templates"
	"github.com/repotasks/repo-tasks/internal/types"
	"github.com/repotasks/repo-tasks/internal/ui"
)

type newOptions struct {
	Title     string
	Priority  string
	Tags      []string
	Body      string
	Template  string
	DependsOn []string
	Blocks    []string
}

type createdTask struct {
	*types.Task
	Path string `json:"path"`
}

// createTask builds a draft from opts (and its template), validates it and
// stores it in the first configured status.
func createTask(ctx context.Context, w *workspace, opts newOptions) (*createdTask, error) {
	title := strings.TrimSpace(opts.Title)
	if title == "" {
		return nil, fmt.Errorf("task title cannot be empty")
	}

	draft := &types.Task{
		Title:     title,
		Priority:  opts.Priority,
		Tags:      cleanList(opts.Tags),
		Body:      opts.Body,
		DependsOn: cleanList(opts.DependsOn),
		Blocks:    cleanList(opts.Blocks),
	}

	if opts.Template != "" {
		tmpl, err := templates.Load(templates.LoadOptions{TasksDir: w.TasksDir, UserDir: templates.DefaultUserDir()}, opts.Template)
		if err != nil {
			return nil, err
		}
		tmpl.Apply(draft)
	}

	if err := w.checkPriority(draft.Priority); err != nil {
		return nil, err
	}

	path, err := w.Store.Create(ctx, draft, w.Config.InitialStatus())
	if err != nil {
		return nil, err
	}
	return &createdTask{Task: draft, Path: path}, nil
}

// cleanList trims entries, splits comma-joined values and drops empties.
func cleanList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

var newCmd = &cobra.Command{
	Use:     "new [title]",
	Aliases: []string{"create"},
	GroupID: GroupTasks,
	Short:   "Create a task",
	Long: `Create a task in the first configured status.

Without a title and on a terminal, an interactive form asks for the fields.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		opts := newOptions{}
		opts.Priority, _ = cmd.Flags().GetString("priority")
		opts.Tags, _ = cmd.Flags().GetStringSlice("tag")
		opts.Body, _ = cmd.Flags().GetString("body")
		opts.Template, _ = cmd.Flags().GetString("template")
		opts.DependsOn, _ = cmd.Flags().GetStringSlice("depends-on")
		opts.Blocks, _ = cmd.Flags().GetStringSlice("blocks")

		if len(args) == 1 {
			opts.Title = args[0]
		} else {
			if jsonOutput || !ui.IsStdinTerminal() {
				FatalErrorWithHint("a title is required", "tasks new \"Implement login\"")
			}
			runNewForm(&opts, ws.Config.Priorities)
		}

		ctx := getRootContext()
		created, err := createTask(ctx, ws, opts)
		if err != nil {
			FatalErr(err)
		}
		ws.afterChange(ctx, hooks.EventCreate, created.Task)

		if jsonOutput {
			outputJSON(created)
			return
		}
		printf("%s Created task: %s\n", ui.RenderPassIcon(), created.Slug)
		printf("  ID: %s\n", ui.RenderID(created.ID))
		if created.Priority != "" {
			printf("  Priority: %s\n", ui.RenderPriority(created.Priority, ws.Config.Priorities))
		}
		if len(created.Tags) > 0 {
			printf("  Tags: %s\n", ui.RenderTags(created.Tags))
		}
		printf("  File: %s\n", ui.RenderMuted(relPath(created.Path)))
	},
}

func init() {
	newCmd.Flags().StringP("priority", "p", "", "Priority (one of the configured priorities)")
	newCmd.Flags().StringSliceP("tag", "t", nil, "Tag (repeatable or comma-separated)")
	newCmd.Flags().StringP("body", "b", "", "Markdown body")
	newCmd.Flags().String("template", "", "Template name from .repo-tasks/templates (e.g. bug)")
	newCmd.Flags().StringSlice("depends-on", nil, "IDs this task depends on")
	newCmd.Flags().StringSlice("blocks", nil, "IDs this task blocks")
	rootCmd.AddCommand(newCmd)
}
