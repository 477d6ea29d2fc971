package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LocalConfig is config.yaml read straight from disk rather than through
// the viper singleton. `tasks config show` uses it to tell file settings
// apart from environment overrides.
type LocalConfig struct {
	JSON    bool   `yaml:"json"`
	Editor  string `yaml:"editor"`
	NoColor bool   `yaml:"no-color"`
}

// LoadLocalConfig reads .repo-tasks/config.yaml from tasksDir.
//
// Returns an empty LocalConfig (not nil) if the file doesn't exist or can't be parsed.
func LoadLocalConfig(tasksDir string) *LocalConfig {
	configPath := filepath.Join(tasksDir, FileName)
	data, err := os.ReadFile(configPath) // #nosec G304 - config file path from tasksDir
	if err != nil {
		return &LocalConfig{}
	}

	var cfg LocalConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return &LocalConfig{}
	}
	return &cfg
}
