package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/repotasks/repo-tasks/internal/configfile"
	"github.com/repotasks/repo-tasks/internal/debug"
	"github.com/repotasks/repo-tasks/internal/storage/filesystem"
)

// tasksGitignore keeps local-only files out of task commits.
const tasksGitignore = debug.HookLogName + "\n"

type initResult struct {
	ProjectName string   `json:"project_name"`
	TasksDir    string   `json:"tasks_dir"`
	Statuses    []string `json:"statuses"`
}

// initWorkspace creates <root>/.repo-tasks with the default layout. It
// fails when the directory already exists.
func initWorkspace(ctx context.Context, root, projectName string) (*initResult, error) {
	tasksDir := filepath.Join(root, configfile.DirName)
	if _, err := os.Stat(tasksDir); err == nil {
		return nil, fmt.Errorf("repository already initialized: %s exists", tasksDir)
	}

	if projectName == "" {
		if abs, err := filepath.Abs(root); err == nil {
			projectName = filepath.Base(abs)
		}
	}
	cfg := configfile.DefaultConfig(projectName)
	if err := cfg.Save(tasksDir); err != nil {
		return nil, err
	}

	store := filesystem.NewForWorkspace(tasksDir)
	if err := store.Init(ctx, cfg.StatusList()); err != nil {
		return nil, err
	}

	// #nosec G306 -- .gitignore is meant to be world-readable
	if err := os.WriteFile(filepath.Join(tasksDir, ".gitignore"), []byte(tasksGitignore), 0644); err != nil {
		return nil, fmt.Errorf("failed to write .gitignore: %w", err)
	}

	return &initResult{ProjectName: cfg.ProjectName, TasksDir: tasksDir, Statuses: cfg.Statuses}, nil
}

var initCmd = &cobra.Command{
	Use:     "init",
	GroupID: GroupSetup,
	Short:   "Create .repo-tasks in the current directory",
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		projectName, _ := cmd.Flags().GetString("project-name")

		root := workspaceRoot
		if rootFlag == "" && os.Getenv("TASKS_ROOT") == "" {
			// Initialize where the user is, not in an enclosing workspace.
			wd, err := os.Getwd()
			if err != nil {
				FatalError("cannot determine working directory: %v", err)
			}
			root = wd
		}

		result, err := initWorkspace(getRootContext(), root, projectName)
		if err != nil {
			FatalErr(err)
		}

		if jsonOutput {
			outputJSON(result)
			return
		}
		printf("✓ Initialized repo-tasks for '%s'\n", result.ProjectName)
		printf("  Created %s/%s\n", configfile.DirName, configfile.ConfigFileName)
		printf("  Created task directories: %s\n", strings.Join(result.Statuses, ", "))
		printf("\nRun 'tasks hooks install' to move tasks from commit messages.\n")
	},
}

func init() {
	initCmd.Flags().StringP("project-name", "p", "", "Project name (default: directory name)")
	rootCmd.AddCommand(initCmd)
}
