// Package configfile reads and writes the project config, .repo-tasks/config.json.
package configfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/repotasks/repo-tasks/internal/types"
)

// DirName is the directory at the workspace root that holds all tracker state.
const DirName = ".repo-tasks"

const ConfigFileName = "config.json"

// DefaultProjectName is used when no name is given and the working directory
// has no usable base name.
const DefaultProjectName = "my-project"

// ErrNotInitialized is returned by Load when config.json does not exist.
var ErrNotInitialized = errors.New("not in a repo-tasks repository")

// Config is the project configuration shared by everyone working in the repo.
//
// Statuses define the valid status directories, in workflow order. Priorities
// are listed lowest rank first.
type Config struct {
	ProjectName string   `json:"project_name"`
	Statuses    []string `json:"statuses"`
	Priorities  []string `json:"priorities"`
	AutoCommit  bool     `json:"auto_commit"`
}

// DefaultConfig returns the config written by init. An empty projectName
// falls back to the current directory's name.
func DefaultConfig(projectName string) *Config {
	if projectName == "" {
		projectName = DefaultProjectName
		if wd, err := os.Getwd(); err == nil {
			if base := filepath.Base(wd); base != "" && base != "." && base != string(filepath.Separator) {
				projectName = base
			}
		}
	}

	statuses := make([]string, len(types.DefaultStatuses))
	for i, s := range types.DefaultStatuses {
		statuses[i] = string(s)
	}

	return &Config{
		ProjectName: projectName,
		Statuses:    statuses,
		Priorities:  slices.Clone(types.DefaultPriorities),
		AutoCommit:  false,
	}
}

func ConfigPath(tasksDir string) string {
	return filepath.Join(tasksDir, ConfigFileName)
}

// IsInitialized reports whether tasksDir holds a config file.
func IsInitialized(tasksDir string) bool {
	_, err := os.Stat(ConfigPath(tasksDir))
	return err == nil
}

// Load reads config.json from tasksDir. A missing file yields ErrNotInitialized.
func Load(tasksDir string) (*Config, error) {
	configPath := ConfigPath(tasksDir)

	data, err := os.ReadFile(configPath) // #nosec G304 - controlled path from workspace root
	if os.IsNotExist(err) {
		return nil, ErrNotInitialized
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", configPath, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", configPath, err)
	}

	return &cfg, nil
}

// Save writes the config as indented JSON, creating tasksDir if needed.
func (c *Config) Save(tasksDir string) error {
	if err := os.MkdirAll(tasksDir, 0750); err != nil {
		return fmt.Errorf("creating %s: %w", tasksDir, err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	// #nosec G306 - config is committed alongside the tasks and must be world-readable
	if err := os.WriteFile(ConfigPath(tasksDir), data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Validate checks that the status list is usable as a set of directories.
func (c *Config) Validate() error {
	if len(c.Statuses) == 0 {
		return fmt.Errorf("statuses must not be empty")
	}
	seen := make(map[string]bool, len(c.Statuses))
	for _, s := range c.Statuses {
		if s == "" || strings.ContainsAny(s, `/\`) || s == "." || s == ".." {
			return fmt.Errorf("status %q is not a valid directory name", s)
		}
		if seen[s] {
			return fmt.Errorf("duplicate status %q", s)
		}
		seen[s] = true
	}
	return nil
}

// InitialStatus is the status new tasks are created in.
func (c *Config) InitialStatus() types.Status {
	return types.Status(c.Statuses[0])
}

// StatusList returns the configured statuses as typed values.
func (c *Config) StatusList() []types.Status {
	out := make([]types.Status, len(c.Statuses))
	for i, s := range c.Statuses {
		out[i] = types.Status(s)
	}
	return out
}

// HasStatus reports whether s is a configured status.
func (c *Config) HasStatus(s types.Status) bool {
	return s.IsValidWith(c.Statuses)
}

// HasPriority reports whether p is a configured priority.
func (c *Config) HasPriority(p string) bool {
	return slices.Contains(c.Priorities, p)
}

// SettableKeys lists the keys accepted by Set.
var SettableKeys = []string{"project_name", "auto_commit"}

// Set updates a single scalar key from its string form.
func (c *Config) Set(key, value string) error {
	switch key {
	case "project_name":
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("project_name must not be empty")
		}
		c.ProjectName = value
	case "auto_commit":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("auto_commit must be true or false, got %q", value)
		}
		c.AutoCommit = b
	default:
		return fmt.Errorf("unknown config key %q (settable: %s)", key, strings.Join(SettableKeys, ", "))
	}
	return nil
}
