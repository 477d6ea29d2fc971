package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/repotasks/repo-tasks/internal/git"
	"github.com/repotasks/repo-tasks/internal/githooks"
	"github.com/repotasks/repo-tasks/internal/ui"
)

// outsideStagedError is returned by save when the index holds files outside
// the task directory.
type outsideStagedError struct {
	Files []string
}

func (e *outsideStagedError) Error() string {
	return "staged files outside .repo-tasks/ directory"
}

type saveOptions struct {
	Message string
	Push    bool
}

// saveResult describes what save committed. Committed is false when there
// was nothing to commit.
type saveResult struct {
	Committed bool         `json:"committed"`
	Message   string       `json:"message,omitempty"`
	Changes   []git.Change `json:"changes,omitempty"`
	Pushed    bool         `json:"pushed,omitempty"`
}

// generateSaveMessage summarizes changes as "Update tasks: 1 added, 2 modified".
func generateSaveMessage(changes []git.Change) string {
	var added, modified, deleted int
	for _, c := range changes {
		switch c.Kind {
		case git.Added:
			added++
		case git.Modified:
			modified++
		case git.Deleted:
			deleted++
		}
	}

	var parts []string
	if added > 0 {
		parts = append(parts, fmt.Sprintf("%d added", added))
	}
	if modified > 0 {
		parts = append(parts, fmt.Sprintf("%d modified", modified))
	}
	if deleted > 0 {
		parts = append(parts, fmt.Sprintf("%d deleted", deleted))
	}
	if len(parts) == 0 {
		return "Update tasks"
	}
	return "Update tasks: " + strings.Join(parts, ", ")
}

// saveTasks commits every change under .repo-tasks and nothing else. It
// refuses to run when other files are staged, so a task commit never
// carries code with it.
func saveTasks(ctx context.Context, w *workspace, opts saveOptions) (*saveResult, error) {
	repo, err := w.repo()
	if err != nil {
		return nil, err
	}
	pathspec := w.tasksPathspec(repo)
	prefix := pathspec + "/"

	staged, err := repo.StagedFiles()
	if err != nil {
		return nil, err
	}
	var outside []string
	for _, f := range staged {
		if !strings.HasPrefix(f, prefix) {
			outside = append(outside, f)
		}
	}
	if len(outside) > 0 {
		return nil, &outsideStagedError{Files: outside}
	}

	changes, err := repo.Status(pathspec)
	if err != nil {
		return nil, err
	}
	if len(changes) == 0 {
		return &saveResult{}, nil
	}

	message := opts.Message
	if strings.TrimSpace(message) == "" {
		message = generateSaveMessage(changes)
	}

	if err := repo.AddAll(pathspec); err != nil {
		return nil, err
	}
	repo.Env = append(repo.Env, githooks.SaveEnv+"=1")
	if err := repo.Commit(message); err != nil {
		return nil, err
	}

	result := &saveResult{Committed: true, Message: message, Changes: changes}
	if opts.Push {
		if err := repo.Push(); err != nil {
			return result, fmt.Errorf("committed, but push failed: %w", err)
		}
		result.Pushed = true
	}
	return result, nil
}

func changeLabel(kind git.ChangeKind) string {
	switch kind {
	case git.Added:
		return "new file"
	case git.Deleted:
		return "deleted"
	default:
		return "modified"
	}
}

var saveCmd = &cobra.Command{
	Use:     "save",
	GroupID: GroupGit,
	Short:   "Commit task changes (only files under .repo-tasks/)",
	Long: `Stage and commit everything under .repo-tasks/ in a commit of its own.

Refuses to run when files outside .repo-tasks/ are staged. Without -m the
message summarizes the changes, e.g. "Update tasks: 1 added, 2 modified".`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		message, _ := cmd.Flags().GetString("message")
		push, _ := cmd.Flags().GetBool("push")

		result, err := saveTasks(getRootContext(), ws, saveOptions{Message: message, Push: push})
		if outside, ok := err.(*outsideStagedError); ok {
			if jsonOutput {
				outputJSONError(err, "outside_staged")
			}
			fmt.Fprintf(os.Stderr, "%s\n\n", ui.RenderFail("Error: Cannot commit non-task files with 'tasks save'"))
			fmt.Fprintf(os.Stderr, "The following staged files are outside .repo-tasks/:\n")
			for _, f := range outside.Files {
				fmt.Fprintf(os.Stderr, "  - %s\n", ui.RenderWarn(f))
			}
			fmt.Fprintf(os.Stderr, "\nTo fix this:\n")
			fmt.Fprintf(os.Stderr, "  1. Commit project files separately: git commit -m \"Your message\"\n")
			fmt.Fprintf(os.Stderr, "  2. Then use 'tasks save' for task files only\n")
			fmt.Fprintf(os.Stderr, "\nOr unstage non-task files: git restore --staged <file>\n")
			os.Exit(1)
		}
		if err != nil && result == nil {
			FatalErr(err)
		}

		if jsonOutput {
			outputJSON(result)
			if err != nil {
				os.Exit(1)
			}
			return
		}

		if !result.Committed {
			printf("No changes to commit in .repo-tasks/\n")
			return
		}
		printf("Changes to be committed:\n")
		for _, c := range result.Changes {
			printf("  %s: %s\n", changeLabel(c.Kind), c.Path)
		}
		printf("\n%s Committed changes:\n", ui.RenderPassIcon())
		printf("  %s\n", strings.SplitN(result.Message, "\n", 2)[0])
		if result.Pushed {
			printf("%s Pushed\n", ui.RenderPassIcon())
		}
		if err != nil {
			FatalErr(err)
		}
	},
}

func init() {
	saveCmd.Flags().StringP("message", "m", "", "Commit message (default: summary of changes)")
	saveCmd.Flags().Bool("push", false, "Push after committing")
	rootCmd.AddCommand(saveCmd)
}
