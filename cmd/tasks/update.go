package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/repotasks/repo-tasks/internal/hooks"
	"github.com/repotasks/repo-tasks/internal/idgen"
	"github.com/repotasks/repo-tasks/internal/types"
	"github.com/repotasks/repo-tasks/internal/ui"
)

// taskChanges holds the fields an update sets. Nil means unchanged.
type taskChanges struct {
	Title     *string
	Priority  *string
	Tags      *[]string
	Body      *string
	Blocks    *[]string
	DependsOn *[]string
}

func (c taskChanges) empty() bool {
	return c.Title == nil && c.Priority == nil && c.Tags == nil &&
		c.Body == nil && c.Blocks == nil && c.DependsOn == nil
}

func (c taskChanges) apply(t *types.Task) {
	if c.Title != nil {
		title := strings.TrimSpace(*c.Title)
		if title != t.Title {
			t.Title = title
			t.Slug = idgen.Slugify(title)
		}
	}
	if c.Priority != nil {
		t.Priority = *c.Priority
	}
	if c.Tags != nil {
		t.Tags = cleanList(*c.Tags)
	}
	if c.Body != nil {
		t.Body = *c.Body
	}
	if c.Blocks != nil {
		t.Blocks = cleanList(*c.Blocks)
	}
	if c.DependsOn != nil {
		t.DependsOn = cleanList(*c.DependsOn)
	}
}

type updateOutput struct {
	*types.Task
	Path    string `json:"path"`
	OldPath string `json:"old_path,omitempty"`
}

// updateTask rewrites a task with changes applied. The file is renamed when
// the new title changes the slug.
func updateTask(ctx context.Context, w *workspace, task *types.Task, oldPath string, changes taskChanges) (*updateOutput, error) {
	changes.apply(task)
	if strings.TrimSpace(task.Title) == "" {
		return nil, fmt.Errorf("task title cannot be empty")
	}
	if err := w.checkPriority(task.Priority); err != nil {
		return nil, err
	}

	newPath, err := w.Store.Update(ctx, task, oldPath)
	if newPath == "" {
		return nil, err
	}
	out := &updateOutput{Task: task, Path: newPath}
	if newPath != "" && newPath != oldPath {
		out.OldPath = oldPath
	}
	return out, err
}

func changesFromFlags(cmd *cobra.Command) taskChanges {
	var c taskChanges
	flags := cmd.Flags()
	if flags.Changed("title") {
		v, _ := flags.GetString("title")
		c.Title = &v
	}
	if flags.Changed("priority") {
		v, _ := flags.GetString("priority")
		c.Priority = &v
	}
	if flags.Changed("tags") {
		v, _ := flags.GetStringSlice("tags")
		c.Tags = &v
	}
	if flags.Changed("body") {
		v, _ := flags.GetString("body")
		c.Body = &v
	}
	if flags.Changed("blocks") {
		v, _ := flags.GetStringSlice("blocks")
		c.Blocks = &v
	}
	if flags.Changed("depends-on") {
		v, _ := flags.GetStringSlice("depends-on")
		c.DependsOn = &v
	}
	return c
}

var updateCmd = &cobra.Command{
	Use:     "update <id-or-slug>",
	Aliases: []string{"edit"},
	GroupID: GroupTasks,
	Short:   "Update a task's fields",
	Long: `Update a task's fields. Changing the title renames the file.

Without flags and on a terminal, an interactive form edits the task.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := getRootContext()
		task, path, err := ws.findTask(ctx, args[0])
		if err != nil {
			FatalErr(err)
		}

		changes := changesFromFlags(cmd)
		if changes.empty() {
			if jsonOutput || !ui.IsStdinTerminal() {
				FatalErrorWithHint("no changes given", "pass --title, --priority, --tags, --body, --blocks or --depends-on")
			}
			edited := task.Clone()
			runUpdateForm(edited, ws.Config.Priorities)
			changes = taskChanges{Title: &edited.Title, Priority: &edited.Priority, Tags: &edited.Tags, Body: &edited.Body}
		}

		out, err := updateTask(ctx, ws, task, path, changes)
		if err != nil && out == nil {
			FatalErr(err)
		}
		if err != nil {
			// Written under the new name but the old file is still there.
			WarnError("%v", err)
		}
		ws.afterChange(ctx, hooks.EventUpdate, task)

		if jsonOutput {
			outputJSON(out)
			return
		}
		if out.OldPath != "" {
			printf("%s Updated task and renamed file\n", ui.RenderPassIcon())
			printf("  Old: %s\n", ui.RenderMuted(relPath(out.OldPath)))
			printf("  New: %s\n", ui.RenderMuted(relPath(out.Path)))
			return
		}
		printf("%s Updated task: %s\n", ui.RenderPassIcon(), task.Title)
	},
}

func init() {
	updateCmd.Flags().String("title", "", "New title (renames the file)")
	updateCmd.Flags().StringP("priority", "p", "", "New priority (empty clears it)")
	updateCmd.Flags().StringSlice("tags", nil, "Replace tags (comma-separated; empty clears)")
	updateCmd.Flags().StringP("body", "b", "", "Replace the markdown body")
	updateCmd.Flags().StringSlice("blocks", nil, "Replace the IDs this task blocks")
	updateCmd.Flags().StringSlice("depends-on", nil, "Replace the IDs this task depends on")
	rootCmd.AddCommand(updateCmd)
}
