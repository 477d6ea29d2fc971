package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/repotasks/repo-tasks/internal/hooks"
	"github.com/repotasks/repo-tasks/internal/storage"
	"github.com/repotasks/repo-tasks/internal/types"
	"github.com/repotasks/repo-tasks/internal/ui"
)

// branchName is the branch `tasks start` creates for a task. The
// prepare-commit-msg hook reads the ID back from it.
func branchName(t *types.Task) string {
	return t.ID + "-" + t.Slug
}

type startOutput struct {
	ID            string             `json:"id"`
	Title         string             `json:"title"`
	Move          storage.MoveResult `json:"move"`
	Branch        string             `json:"branch"`
	BranchCreated bool               `json:"branch_created"`
}

// startTask moves the task to in-progress and checks out its branch,
// creating the branch from HEAD if needed.
func startTask(ctx context.Context, w *workspace, fragment string) (*types.Task, *startOutput, error) {
	task, result, err := moveTask(ctx, w, fragment, string(types.StatusInProgress))
	if err != nil {
		return task, nil, err
	}

	out := &startOutput{ID: task.ID, Title: task.Title, Move: result, Branch: branchName(task)}

	repo, err := w.repo()
	if err != nil {
		return task, out, err
	}
	out.BranchCreated = !repo.BranchExists(out.Branch)
	if err := repo.Checkout(out.Branch, out.BranchCreated); err != nil {
		return task, out, fmt.Errorf("checkout %s: %w", out.Branch, err)
	}
	return task, out, nil
}

var startCmd = &cobra.Command{
	Use:     "start <id-or-slug>",
	GroupID: GroupTasks,
	Short:   "Move a task to in-progress and switch to its branch",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := getRootContext()
		task, out, err := startTask(ctx, ws, args[0])
		if out == nil {
			FatalErr(err)
		}
		if out.Move.Outcome == storage.Moved {
			ws.afterChange(ctx, hooks.EventMove, task)
		}
		if err != nil {
			FatalErr(err)
		}

		if jsonOutput {
			outputJSON(out)
			return
		}
		if out.Move.Outcome == storage.AlreadyAtTarget {
			printf("%s\n", ui.RenderWarn("Task is already in-progress"))
		} else {
			printMoveResult(task, out.Move)
			printf("\n")
		}
		if out.BranchCreated {
			printf("Created and switched to new branch: %s\n", out.Branch)
		} else {
			printf("Switched to existing branch: %s\n", out.Branch)
		}
		printf("\n%s\n", ui.RenderMuted("Ready to start working!"))
		printf("  %s\n", ui.RenderMuted("• Make your changes and commit as usual"))
		printf("  %s\n", ui.RenderMuted("• Run 'tasks save' to commit task file changes"))
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}
