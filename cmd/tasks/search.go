package main

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"github.com/repotasks/repo-tasks/internal/storage"
	"github.com/repotasks/repo-tasks/internal/ui"
)

// compileSearch builds the search pattern; ignoreCase adds (?i).
func compileSearch(query string, ignoreCase bool) (*regexp.Regexp, error) {
	if ignoreCase {
		query = "(?i)" + query
	}
	re, err := regexp.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("invalid search pattern: %w", err)
	}
	return re, nil
}

var searchCmd = &cobra.Command{
	Use:     "search <regex>",
	GroupID: GroupTasks,
	Short:   "Search task files line by line",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ignoreCase, _ := cmd.Flags().GetBool("ignore-case")
		re, err := compileSearch(args[0], ignoreCase)
		if err != nil {
			FatalErr(err)
		}

		matches, err := ws.Store.Search(getRootContext(), re)
		if err != nil {
			FatalErr(err)
		}
		if jsonOutput {
			if matches == nil {
				matches = []storage.Match{}
			}
			outputJSON(matches)
			return
		}
		if len(matches) == 0 {
			printf("No matches found for '%s'\n", args[0])
			return
		}
		printf("Search results for '%s':\n\n", args[0])
		for _, m := range matches {
			printf("  %s %s\n", m.Task.Slug, ui.RenderMuted(fmt.Sprintf("[line %d]:", m.Line)))
			printf("    %s\n\n", strings.TrimSpace(m.Text))
		}
	},
}

func init() {
	searchCmd.Flags().BoolP("ignore-case", "i", false, "Case-insensitive match")
	rootCmd.AddCommand(searchCmd)
}
