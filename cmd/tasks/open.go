package main

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/repotasks/repo-tasks/internal/config"
)

// editorCommand splits an editor setting like "code -w" and appends path.
func editorCommand(editor, path string) *exec.Cmd {
	fields := strings.Fields(editor)
	if len(fields) == 0 {
		fields = []string{"vi"}
	}
	// #nosec G204 -- the editor is chosen by the user
	cmd := exec.Command(fields[0], append(fields[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd
}

var openCmd = &cobra.Command{
	Use:     "open <id-or-slug>",
	GroupID: GroupTasks,
	Short:   "Open a task file in $EDITOR",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		_, path, err := ws.findTask(getRootContext(), args[0])
		if err != nil {
			FatalErr(err)
		}

		editor := config.Editor()
		printf("Opening %s in %s...\n", relPath(path), editor)
		if err := editorCommand(editor, path).Run(); err != nil {
			FatalError("%v", fmt.Errorf("editor %s: %w", editor, err))
		}
		printf("✓ Closed editor\n")
	},
}

func init() {
	rootCmd.AddCommand(openCmd)
}
