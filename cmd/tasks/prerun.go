package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/repotasks/repo-tasks/internal/config"
	"github.com/repotasks/repo-tasks/internal/configfile"
	"github.com/repotasks/repo-tasks/internal/debug"
	"github.com/repotasks/repo-tasks/internal/telemetry"
	"github.com/repotasks/repo-tasks/internal/ui"
)

// noWorkspaceCommandsList names commands (or parents of commands) that run
// without an initialized .repo-tasks directory.
var noWorkspaceCommandsList = []string{"init", "version", "help", "completion", "__complete", "hooks"}

func isNoWorkspaceCommand(cmd *cobra.Command) bool {
	if cmd.Parent() != nil && slices.Contains(noWorkspaceCommandsList, cmd.Parent().Name()) {
		return true
	}
	if slices.Contains(noWorkspaceCommandsList, cmd.Name()) {
		return true
	}
	// Root command with no subcommand (just shows help)
	return cmd.Parent() == nil
}

// setupSignalContext creates a context that cancels on SIGINT/SIGTERM.
func setupSignalContext() {
	rootCtx, rootCancel = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func getRootContext() context.Context {
	if rootCtx == nil {
		return context.Background()
	}
	return rootCtx
}

// applyVerbosityFlags propagates --verbose and --quiet to the debug package.
func applyVerbosityFlags() {
	debug.SetVerbose(verboseFlag)
	debug.SetQuiet(quietFlag)
}

// resolveWorkspaceRoot picks the workspace: --root, then TASKS_ROOT, then the
// nearest ancestor of the working directory holding .repo-tasks, then the
// working directory itself.
func resolveWorkspaceRoot() {
	if rootFlag != "" {
		workspaceRoot = rootFlag
		return
	}
	if env := os.Getenv("TASKS_ROOT"); env != "" {
		workspaceRoot = env
		return
	}
	wd, err := os.Getwd()
	if err != nil {
		FatalError("cannot determine working directory: %v", err)
	}
	if found, err := config.FindWorkspaceRoot(wd); err == nil {
		workspaceRoot = found
		return
	}
	workspaceRoot = wd
}

// loadSettings reads .repo-tasks/config.yaml and TASKS_* overrides.
func loadSettings() {
	if err := config.Initialize(workspaceRoot); err != nil {
		WarnError("failed to load settings: %v", err)
	}
	debug.Logf("workspace root: %s\n", workspaceRoot)
	if f := config.ConfigFileUsed(); f != "" {
		debug.Logf("settings file: %s\n", f)
	}
}

// applyViperOverrides lets config.yaml and TASKS_* values fill flags the
// user did not pass explicitly.
func applyViperOverrides(cmd *cobra.Command) {
	if !cmd.Flags().Changed("json") {
		jsonOutput = config.GetBool(config.KeyJSON)
	} else {
		config.Set(config.KeyJSON, jsonOutput)
	}
	if !cmd.Flags().Changed("no-color") {
		noColorFlag = config.GetBool(config.KeyNoColor)
	}
	ui.SetNoColor(noColorFlag || jsonOutput)
}

func initTelemetry() {
	if err := telemetry.Init(getRootContext(), "tasks", Version); err != nil {
		debug.Logf("telemetry init failed: %v\n", err)
	}
}

func shutdownTelemetry() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	telemetry.Shutdown(ctx)
}

// openWorkspaceOrExit loads the workspace for commands that need one.
func openWorkspaceOrExit() {
	w, err := openWorkspace(workspaceRoot)
	if errors.Is(err, configfile.ErrNotInitialized) {
		FatalErrorWithHint("not in a repo-tasks repository", "Run 'tasks init' to create one")
	}
	if err != nil {
		FatalErr(err)
	}
	ws = w
}
