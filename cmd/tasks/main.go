package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	jsonOutput  bool
	verboseFlag bool // Enable verbose/debug output
	quietFlag   bool // Suppress non-essential output
	noColorFlag bool
	rootFlag    string

	// Signal-aware context for graceful cancellation
	rootCtx    context.Context
	rootCancel context.CancelFunc

	// workspaceRoot is the directory holding .repo-tasks (or where init
	// will create it).
	workspaceRoot string

	// ws is the opened workspace; nil for commands that don't need one.
	ws *workspace
)

// Command groups
const (
	GroupTasks = "tasks"
	GroupGit   = "git"
	GroupSetup = "setup"
)

func init() {
	rootCmd.AddGroup(&cobra.Group{ID: GroupTasks, Title: "Working With Tasks:"})
	rootCmd.AddGroup(&cobra.Group{ID: GroupGit, Title: "Git Integration:"})
	rootCmd.AddGroup(&cobra.Group{ID: GroupSetup, Title: "Setup & Configuration:"})

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose/debug output")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "Suppress non-essential output (errors only)")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&rootFlag, "root", "", "Workspace root (default: nearest directory containing .repo-tasks)")

	rootCmd.Flags().BoolP("version", "V", false, "Print version information")
}

var rootCmd = &cobra.Command{
	Use:   "tasks",
	Short: "tasks - file-based task tracker that lives in your repo",
	Long: `Tasks are markdown files under .repo-tasks/tasks/<status>/, versioned with your code.
Commit messages like "[20260110142106] Add form [done]" move tasks between statuses.`,
	Run: func(cmd *cobra.Command, args []string) {
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Fprintf(stdout, "tasks version %s\n", fullVersionString())
			return
		}
		_ = cmd.Help()
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupSignalContext()
		applyVerbosityFlags()
		resolveWorkspaceRoot()
		loadSettings()
		applyViperOverrides(cmd)
		initTelemetry()

		if isNoWorkspaceCommand(cmd) {
			return
		}
		openWorkspaceOrExit()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		shutdownTelemetry()
		if rootCancel != nil {
			rootCancel()
		}
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
