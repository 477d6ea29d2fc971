package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/repotasks/repo-tasks/internal/types"
)

func priorityOptions(priorities []string) []huh.Option[string] {
	opts := []huh.Option[string]{huh.NewOption("(none)", "")}
	// Highest priority first reads better in a picker.
	for i := len(priorities) - 1; i >= 0; i-- {
		opts = append(opts, huh.NewOption(priorities[i], priorities[i]))
	}
	return opts
}

func validateTitle(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("title is required")
	}
	return nil
}

// runFormOrExit runs form and exits quietly when the user aborts.
func runFormOrExit(form *huh.Form, cancelled string) {
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Fprintln(os.Stderr, cancelled)
			os.Exit(0)
		}
		FatalError("form error: %v", err)
	}
}

// runNewForm asks for the fields of a new task.
func runNewForm(opts *newOptions, priorities []string) {
	var tagsInput string
	if opts.Priority == "" && len(priorities) > 1 {
		opts.Priority = priorities[1]
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Description("Brief summary of the task (required)").
				Placeholder("e.g., Implement login form").
				Value(&opts.Title).
				Validate(validateTitle),

			huh.NewSelect[string]().
				Title("Priority").
				Options(priorityOptions(priorities)...).
				Value(&opts.Priority),

			huh.NewInput().
				Title("Tags").
				Description("Comma-separated (optional)").
				Placeholder("e.g., auth, frontend").
				Value(&tagsInput),

			huh.NewText().
				Title("Description").
				Description("Markdown body (optional)").
				CharLimit(5000).
				Value(&opts.Body),
		),
	).WithTheme(huh.ThemeDracula())

	runFormOrExit(form, "Task creation cancelled.")
	opts.Tags = append(opts.Tags, tagsInput)
}

// runUpdateForm edits task in place.
func runUpdateForm(task *types.Task, priorities []string) {
	tagsInput := strings.Join(task.Tags, ", ")

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&task.Title).
				Validate(validateTitle),

			huh.NewSelect[string]().
				Title("Priority").
				Options(priorityOptions(priorities)...).
				Value(&task.Priority),

			huh.NewInput().
				Title("Tags").
				Description("Comma-separated").
				Value(&tagsInput),

			huh.NewText().
				Title("Description").
				CharLimit(5000).
				Value(&task.Body),
		),
	).WithTheme(huh.ThemeDracula())

	runFormOrExit(form, "Update cancelled.")
	task.Title = strings.TrimSpace(task.Title)
	task.Tags = cleanList([]string{tagsInput})
}
