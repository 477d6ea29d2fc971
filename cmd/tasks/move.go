package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/repotasks/repo-tasks/internal/hooks"
	"github.com/repotasks/repo-tasks/internal/storage"
	"github.com/repotasks/repo-tasks/internal/types"
	"github.com/repotasks/repo-tasks/internal/ui"
)

type moveOutput struct {
	ID     string             `json:"id"`
	Title  string             `json:"title"`
	Result storage.MoveResult `json:"result"`
}

// moveTask finds the task for fragment and moves it to status. A partial
// move returns both the result and the *storage.PartialMoveError.
func moveTask(ctx context.Context, w *workspace, fragment, status string) (*types.Task, storage.MoveResult, error) {
	to, err := w.parseStatus(status)
	if err != nil {
		return nil, storage.MoveResult{}, err
	}
	task, path, err := w.findTask(ctx, fragment)
	if err != nil {
		return nil, storage.MoveResult{}, err
	}
	result, err := w.Store.Move(ctx, task, path, to)
	return task, result, err
}

func printMoveResult(task *types.Task, result storage.MoveResult) {
	switch result.Outcome {
	case storage.AlreadyAtTarget:
		printf("%s Task is already in status '%s'\n", ui.RenderInfoIcon(), result.ToStatus)
	case storage.Moved, storage.PartiallyMoved:
		printf("%s Moved task: %s\n", ui.RenderPassIcon(), task.Title)
		printf("  From: %s → %s\n", ui.RenderStatus(result.FromStatus), ui.RenderStatus(result.ToStatus))
		printf("  %s\n", ui.RenderMuted(relPath(result.To)))
	}
}

var moveCmd = &cobra.Command{
	Use:     "move <id-or-slug> <status>",
	Aliases: []string{"mv"},
	GroupID: GroupTasks,
	Short:   "Move a task to another status",
	Args:    cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := getRootContext()
		task, result, err := moveTask(ctx, ws, args[0], args[1])
		if err != nil && result.Outcome != storage.PartiallyMoved {
			FatalErr(err)
		}

		if jsonOutput && err == nil {
			outputJSON(moveOutput{ID: task.ID, Title: task.Title, Result: result})
		} else {
			printMoveResult(task, result)
		}

		if result.Duplicated() {
			// The task now exists in both directories; leave it to the user.
			if jsonOutput {
				outputJSONError(err, errorCode(err))
			}
			fmt.Fprintf(os.Stderr, "%s %v\n", ui.RenderWarnIcon(), err)
			fmt.Fprintf(os.Stderr, "Remove the stale copy by hand: %s\n", result.From)
			os.Exit(1)
		}

		if result.Outcome == storage.Moved {
			ws.afterChange(ctx, hooks.EventMove, task)
		}
	},
}

func init() {
	rootCmd.AddCommand(moveCmd)
}
