package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/repotasks/repo-tasks/internal/config"
	"github.com/repotasks/repo-tasks/internal/configfile"
	"github.com/repotasks/repo-tasks/internal/ui"
)

var configCmd = &cobra.Command{
	Use:     "config",
	GroupID: GroupSetup,
	Short:   "Show or change project configuration",
}

// configView is what `config show` reports: the shared config.json plus the
// runtime settings in effect.
type configView struct {
	Project      *configfile.Config     `json:"project"`
	ConfigPath   string                 `json:"config_path"`
	Settings     map[string]interface{} `json:"settings"`
	SettingsFile string                 `json:"settings_file,omitempty"`
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show config.json and runtime settings",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		view := configView{
			Project:      ws.Config,
			ConfigPath:   configfile.ConfigPath(ws.TasksDir),
			Settings:     config.AllSettings(),
			SettingsFile: config.ConfigFileUsed(),
		}
		if jsonOutput {
			outputJSON(view)
			return
		}

		cfg := view.Project
		printf("%s %s\n", ui.RenderAccent("Project:"), cfg.ProjectName)
		printf("  %-12s %s\n", "Statuses:", strings.Join(cfg.Statuses, ", "))
		printf("  %-12s %s\n", "Priorities:", strings.Join(cfg.Priorities, ", "))
		printf("  %-12s %t\n", "Auto commit:", cfg.AutoCommit)
		printf("  %s\n", ui.RenderMuted(relPath(view.ConfigPath)))

		printf("\n%s\n", ui.RenderAccent("Settings:"))
		keys := make([]string, 0, len(view.Settings))
		for k := range view.Settings {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			printf("  %-12s %v\n", k+":", view.Settings[k])
		}
		if view.SettingsFile != "" {
			printf("  %s\n", ui.RenderMuted(relPath(view.SettingsFile)))
		}
	},
}

// setConfigValue rewrites one key of config.json.
func setConfigValue(w *workspace, key, value string) error {
	if err := w.Config.Set(key, value); err != nil {
		return err
	}
	if err := w.Config.Save(w.TasksDir); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: fmt.Sprintf("Set a config.json key (%s)", strings.Join(configfile.SettableKeys, ", ")),
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		if err := setConfigValue(ws, args[0], args[1]); err != nil {
			FatalErr(err)
		}
		if jsonOutput {
			outputJSON(ws.Config)
			return
		}
		printf("%s Set %s = %s\n", ui.RenderPassIcon(), args[0], args[1])
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
