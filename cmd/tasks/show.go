package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/repotasks/repo-tasks/internal/idgen"
	"github.com/repotasks/repo-tasks/internal/types"
	"github.com/repotasks/repo-tasks/internal/ui"
)

type shownTask struct {
	*types.Task
	Path string `json:"path"`
}

func displayTask(out io.Writer, t *types.Task, path string, priorities []string) {
	fmt.Fprintf(out, "Task: %s\n", ui.CategoryStyle.Render(t.Title))
	fmt.Fprintf(out, "%s %s\n", ui.RenderMuted("ID:"), ui.RenderID(t.ID))
	if created, ok := idgen.CreatedAt(t.ID); ok {
		fmt.Fprintf(out, "%s %s\n", ui.RenderMuted("Created:"), created.Format("2006-01-02 15:04"))
	}
	fmt.Fprintf(out, "%s %s\n", ui.RenderMuted("Slug:"), t.Slug)
	fmt.Fprintf(out, "%s %s\n", ui.RenderMuted("Status:"), ui.RenderStatus(t.Status))
	if t.Priority != "" {
		fmt.Fprintf(out, "%s %s\n", ui.RenderMuted("Priority:"), ui.RenderPriority(t.Priority, priorities))
	}
	if len(t.Tags) > 0 {
		fmt.Fprintf(out, "%s %s\n", ui.RenderMuted("Tags:"), ui.RenderTags(t.Tags))
	}
	if len(t.Blocks) > 0 {
		fmt.Fprintf(out, "%s %s\n", ui.RenderMuted("Blocks:"), strings.Join(t.Blocks, ", "))
	}
	if len(t.DependsOn) > 0 {
		fmt.Fprintf(out, "%s %s\n", ui.RenderMuted("Depends on:"), strings.Join(t.DependsOn, ", "))
	}
	if path != "" {
		fmt.Fprintf(out, "%s %s\n", ui.RenderMuted("File:"), relPath(path))
	}
	if t.Body != "" {
		fmt.Fprintf(out, "\n%s\n", ui.RenderCategory("Description"))
		fmt.Fprintln(out, strings.TrimRight(ui.RenderMarkdown(t.Body), "\n"))
	}
}

var showCmd = &cobra.Command{
	Use:     "show <id-or-slug>",
	GroupID: GroupTasks,
	Short:   "Show a task",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		task, path, err := ws.findTask(getRootContext(), args[0])
		if err != nil {
			FatalErr(err)
		}
		if jsonOutput {
			outputJSON(shownTask{Task: task, Path: path})
			return
		}
		displayTask(stdout, task, path, ws.Config.Priorities)
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
