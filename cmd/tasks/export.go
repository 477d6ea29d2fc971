package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/repotasks/repo-tasks/internal/types"
)

// exportedTask flattens a task with its status and slug for export. The
// yaml tags differ from types.Task, whose yaml form is the file header.
type exportedTask struct {
	ID        string   `json:"id" yaml:"id" toml:"id"`
	Title     string   `json:"title" yaml:"title" toml:"title"`
	Status    string   `json:"status" yaml:"status" toml:"status"`
	Slug      string   `json:"slug" yaml:"slug" toml:"slug"`
	Priority  string   `json:"priority,omitempty" yaml:"priority,omitempty" toml:"priority,omitempty"`
	Tags      []string `json:"tags,omitempty" yaml:"tags,omitempty" toml:"tags,omitempty"`
	Blocks    []string `json:"blocks,omitempty" yaml:"blocks,omitempty" toml:"blocks,omitempty"`
	DependsOn []string `json:"depends_on,omitempty" yaml:"depends_on,omitempty" toml:"depends_on,omitempty"`
	Body      string   `json:"body,omitempty" yaml:"body,omitempty" toml:"body,omitempty"`
}

type exportDoc struct {
	Project string         `json:"project" yaml:"project" toml:"project"`
	Tasks   []exportedTask `json:"tasks" yaml:"tasks" toml:"tasks"`
}

func toExported(tasks []*types.Task) []exportedTask {
	out := make([]exportedTask, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, exportedTask{
			ID:        t.ID,
			Title:     t.Title,
			Status:    string(t.Status),
			Slug:      t.Slug,
			Priority:  t.Priority,
			Tags:      t.Tags,
			Blocks:    t.Blocks,
			DependsOn: t.DependsOn,
			Body:      t.Body,
		})
	}
	return out
}

// writeExport encodes doc in format (json, yaml or toml).
func writeExport(out io.Writer, doc exportDoc, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case "yaml", "yml":
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		if err := enc.Close(); err != nil {
			return err
		}
		_, err := out.Write(buf.Bytes())
		return err
	case "toml":
		return toml.NewEncoder(out).Encode(doc)
	default:
		return fmt.Errorf("unknown format %q (use json, yaml or toml)", format)
	}
}

var exportCmd = &cobra.Command{
	Use:     "export",
	GroupID: GroupTasks,
	Short:   "Dump tasks as JSON, YAML or TOML",
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		format, _ := cmd.Flags().GetString("format")
		statuses, _ := cmd.Flags().GetStringSlice("status")
		if jsonOutput {
			format = "json"
		}

		filter := listFilter{Statuses: ws.Config.StatusList()}
		if len(statuses) > 0 {
			filter.Statuses = nil
			for _, s := range statuses {
				status, err := ws.parseStatus(s)
				if err != nil {
					FatalErr(err)
				}
				filter.Statuses = append(filter.Statuses, status)
			}
		}

		tasks, err := ws.Store.ListAll(getRootContext(), filter.Statuses)
		if err != nil {
			FatalErr(err)
		}
		doc := exportDoc{Project: ws.Config.ProjectName, Tasks: toExported(tasks)}
		if err := writeExport(stdout, doc, format); err != nil {
			FatalErr(err)
		}
	},
}

func init() {
	exportCmd.Flags().StringP("format", "f", "json", "Output format: json, yaml or toml")
	exportCmd.Flags().StringSlice("status", nil, "Only these statuses (default: all)")
	rootCmd.AddCommand(exportCmd)
}
