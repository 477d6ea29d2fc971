package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/repotasks/repo-tasks/internal/automation"
	"github.com/repotasks/repo-tasks/internal/commitmsg"
	"github.com/repotasks/repo-tasks/internal/debug"
	"github.com/repotasks/repo-tasks/internal/git"
	"github.com/repotasks/repo-tasks/internal/githooks"
	"github.com/repotasks/repo-tasks/internal/types"
	"github.com/repotasks/repo-tasks/internal/ui"
)

var hooksCmd = &cobra.Command{
	Use:     "hooks",
	GroupID: GroupGit,
	Short:   "Manage git hooks that keep tasks in sync with commits",
	Long: `Install git hooks for task automation.

pre-commit          reject task files staged outside 'tasks save'
post-commit         move tasks named in the commit message ([<id>] ... [done])
prepare-commit-msg  prefix the message with the task ID of the current branch
post-checkout       show the task for a <id>-<slug> branch`,
}

// openRepoOrExit opens the git repository around the workspace root.
func openRepoOrExit() *git.Repo {
	repo, err := git.Open(workspaceRoot)
	if err != nil {
		FatalErrorWithHint(err.Error(), "Run this inside a git repository")
	}
	return repo
}

func hooksDirOrExit(repo *git.Repo) string {
	dir, err := repo.HooksDir()
	if err != nil {
		FatalError("cannot locate git hooks directory: %v", err)
	}
	return dir
}

var hooksInstallCmd = &cobra.Command{
	Use:   "install [hook]",
	Short: "Install git hooks (all of them unless one is named)",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		force, _ := cmd.Flags().GetBool("force")
		names := githooks.Names
		if len(args) == 1 {
			if !githooks.IsManaged(args[0]) {
				FatalErrorWithHint(fmt.Sprintf("unknown hook %q", args[0]), "Run 'tasks hooks list' to see available hooks")
			}
			names = []string{args[0]}
		}

		dir := hooksDirOrExit(openRepoOrExit())
		results, err := githooks.Install(dir, names, force)
		if err != nil {
			FatalError("%v", err)
		}
		if jsonOutput {
			outputJSON(results)
			return
		}
		for _, r := range results {
			printf("%s Installed %s\n", ui.RenderPassIcon(), r.Name)
			if r.BackedUpTo != "" {
				printf("  %s\n", ui.RenderMuted("existing hook backed up to "+relPath(r.BackedUpTo)))
			}
		}
		printf("\nHooks installed in %s\n", relPath(dir))
	},
}

var hooksUninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove our git hooks and restore backed-up ones",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		dir := hooksDirOrExit(openRepoOrExit())
		removed, warnings, err := githooks.Uninstall(dir)
		for _, w := range warnings {
			WarnError("%v", w)
		}
		if err != nil {
			FatalError("%v", err)
		}
		if jsonOutput {
			if removed == nil {
				removed = []string{}
			}
			outputJSON(map[string]interface{}{"removed": removed})
			return
		}
		if len(removed) == 0 {
			printf("No repo-tasks hooks installed\n")
			return
		}
		for _, name := range removed {
			printf("%s Removed %s\n", ui.RenderPassIcon(), name)
		}
	},
}

var hooksListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show which git hooks are installed",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		statuses := githooks.List(hooksDirOrExit(openRepoOrExit()))
		if jsonOutput {
			outputJSON(statuses)
			return
		}
		printf("Git hooks status:\n")
		for _, s := range statuses {
			switch {
			case !s.Installed:
				printf("  %s %s: not installed\n", ui.RenderFailIcon(), s.Name)
			case !s.Managed:
				printf("  %s %s: installed (not managed by tasks)\n", ui.RenderWarnIcon(), s.Name)
			case s.Version != "":
				printf("  %s %s: installed (%s)\n", ui.RenderPassIcon(), s.Name, s.Version)
			default:
				printf("  %s %s: installed\n", ui.RenderPassIcon(), s.Name)
			}
		}
	},
}

var hooksRunCmd = &cobra.Command{
	Use:    "run <hook> [args...]",
	Short:  "Run a hook (called by the installed shims)",
	Hidden: true,
	Args:   cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name, hookArgs := args[0], args[1:]
		ctx := getRootContext()
		switch name {
		case "pre-commit":
			os.Exit(hookPreCommit())
		case "post-commit":
			hookPostCommit(ctx)
		case "prepare-commit-msg":
			os.Exit(hookPrepareCommitMsg(hookArgs))
		case "post-checkout":
			hookPostCheckout(ctx, hookArgs)
		default:
			FatalError("unknown hook %q", name)
		}
	},
}

// tryOpenWorkspace opens the workspace for hooks, which also run in
// repositories without one.
func tryOpenWorkspace() *workspace {
	w, err := openWorkspace(workspaceRoot)
	if err != nil {
		debug.Logf("no workspace at %s: %v\n", workspaceRoot, err)
		return nil
	}
	return w
}

// stagedTaskFiles lists task files staged in repo. `tasks save` commits are
// let through.
func stagedTaskFiles(repo *git.Repo) ([]string, error) {
	if os.Getenv(githooks.SaveEnv) != "" {
		return nil, nil
	}
	staged, err := repo.StagedFiles()
	if err != nil {
		return nil, err
	}
	return githooks.StagedTaskFiles(staged), nil
}

func hookPreCommit() int {
	repo, err := git.Open(workspaceRoot)
	if err != nil {
		debug.Logf("pre-commit: %v\n", err)
		return 0
	}
	files, err := stagedTaskFiles(repo)
	if err != nil {
		debug.Logf("pre-commit: %v\n", err)
		return 0
	}
	if len(files) == 0 {
		return 0
	}
	fmt.Fprint(os.Stderr, githooks.RejectionMessage(files))
	return 1
}

// applyCommit runs the automation bridge on the last commit message of repo.
func applyCommit(ctx context.Context, w *workspace, repo *git.Repo) (automation.Report, error) {
	debug.LogEvent(w.TasksDir, "post-commit hook triggered")
	msg, err := repo.LastCommitMessage()
	if err != nil {
		debug.LogEvent(w.TasksDir, "cannot read commit message: %v", err)
		return automation.Report{}, err
	}
	debug.LogEvent(w.TasksDir, "Commit message: %s", msg)
	bridge := automation.NewBridge(w.Store, w.Config.Statuses, w.TasksDir)
	return bridge.ApplyMessage(ctx, commitmsg.NewParser(), msg), nil
}

// hookPostCommit never fails the commit; problems are reported and logged.
func hookPostCommit(ctx context.Context) {
	w := tryOpenWorkspace()
	if w == nil {
		return
	}
	repo, err := git.Open(w.Root)
	if err != nil {
		debug.Logf("post-commit: %v\n", err)
		return
	}
	report, err := applyCommit(ctx, w, repo)
	if err != nil {
		return
	}
	for _, res := range report.Results {
		switch res.Outcome {
		case automation.OutcomeMoved:
			printf("repo-tasks: Moved task %s to %s\n", res.TaskID, report.Target)
		case automation.OutcomeAlready:
			printf("repo-tasks: Task %s already in %s\n", res.TaskID, report.Target)
		case automation.OutcomeNotFound:
			printf("repo-tasks: Task %s not found\n", res.TaskID)
		default:
			fmt.Fprintf(os.Stderr, "repo-tasks: Task %s: %s\n", res.TaskID, res.Error)
		}
	}
	if report.Failed() {
		WarnError("some tasks were not moved; see %s", relPath(filepath.Join(w.TasksDir, debug.HookLogName)))
	}
}

// prefixCommitMessageFile rewrites the message file git hands to
// prepare-commit-msg. It reports whether the file changed.
func prefixCommitMessageFile(repo *git.Repo, path, source string) (bool, error) {
	branch, err := repo.CurrentBranch()
	if err != nil {
		return false, nil
	}
	// #nosec G304 -- path is supplied by git
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	msg, changed := githooks.PrefixMessage(string(data), branch, source, commitmsg.NewParser())
	if !changed {
		return false, nil
	}
	// #nosec G306 -- commit message file
	if err := os.WriteFile(path, []byte(msg), 0644); err != nil {
		return false, err
	}
	return true, nil
}

func hookPrepareCommitMsg(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "prepare-commit-msg: missing message file argument")
		return 1
	}
	source := ""
	if len(args) > 1 {
		source = args[1]
	}
	repo, err := git.Open(workspaceRoot)
	if err != nil {
		debug.Logf("prepare-commit-msg: %v\n", err)
		return 0
	}
	if _, err := prefixCommitMessageFile(repo, args[0], source); err != nil {
		fmt.Fprintf(os.Stderr, "prepare-commit-msg: %v\n", err)
		return 1
	}
	return 0
}

// branchTask returns the task the current branch of repo is named after.
func branchTask(ctx context.Context, w *workspace, repo *git.Repo) (*types.Task, bool) {
	branch, err := repo.CurrentBranch()
	if err != nil {
		return nil, false
	}
	id, ok := githooks.TaskIDFromBranch(branch)
	if !ok {
		return nil, false
	}
	task, _, err := w.Store.FindByFragment(ctx, id+"-")
	if err != nil {
		debug.Logf("post-checkout: %v\n", err)
		return nil, false
	}
	return task, true
}

// hookPostCheckout acts only on branch checkouts (third argument "1").
func hookPostCheckout(ctx context.Context, args []string) {
	if len(args) < 3 || args[2] != "1" {
		return
	}
	w := tryOpenWorkspace()
	if w == nil {
		return
	}
	repo, err := git.Open(w.Root)
	if err != nil {
		return
	}
	task, ok := branchTask(ctx, w, repo)
	if !ok {
		return
	}
	printf("repo-tasks: Working on %s %s (%s)\n", ui.RenderID(task.ID), task.Title, ui.RenderStatus(task.Status))
}

func init() {
	hooksInstallCmd.Flags().Bool("force", false, "Overwrite existing hooks without backing them up")

	hooksCmd.AddCommand(hooksInstallCmd)
	hooksCmd.AddCommand(hooksUninstallCmd)
	hooksCmd.AddCommand(hooksListCmd)
	hooksCmd.AddCommand(hooksRunCmd)
	rootCmd.AddCommand(hooksCmd)
}
