// Package config holds runtime settings for the tasks CLI.
//
// Settings come from, lowest to highest precedence: built-in defaults,
// .repo-tasks/config.yaml, TASKS_* environment variables and command-line
// flags. Project data (statuses, priorities) lives in config.json and is
// handled by the configfile package.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/repotasks/repo-tasks/internal/configfile"
)

// FileName is the optional YAML settings file inside .repo-tasks.
const FileName = "config.yaml"

// EnvPrefix is the prefix for environment overrides (TASKS_JSON, TASKS_EDITOR, ...).
const EnvPrefix = "TASKS"

// Keys
const (
	KeyJSON    = "json"
	KeyRoot    = "root"
	KeyEditor  = "editor"
	KeyNoColor = "no-color"
)

var v *viper.Viper

func init() {
	v = newViper()
}

func newViper() *viper.Viper {
	nv := viper.New()
	nv.SetConfigType("yaml")
	nv.SetDefault(KeyJSON, false)
	nv.SetDefault(KeyRoot, "")
	nv.SetDefault(KeyEditor, "")
	nv.SetDefault(KeyNoColor, false)

	nv.SetEnvPrefix(EnvPrefix)
	nv.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	nv.AutomaticEnv()
	return nv
}

// Initialize resets settings and reads <workspaceRoot>/.repo-tasks/config.yaml
// when present. A missing file is not an error.
func Initialize(workspaceRoot string) error {
	v = newViper()
	if workspaceRoot == "" {
		return nil
	}

	path := filepath.Join(workspaceRoot, configfile.DirName, FileName)
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading config file %s: %w", path, err)
	}
	return nil
}

// ResetForTesting restores the defaults-only state.
func ResetForTesting() {
	v = newViper()
}

// ConfigFileUsed returns the settings file that was read, if any.
func ConfigFileUsed() string {
	return v.ConfigFileUsed()
}

// GetString retrieves a string configuration value
func GetString(key string) string {
	return v.GetString(key)
}

// GetBool retrieves a boolean configuration value
func GetBool(key string) bool {
	return v.GetBool(key)
}

// Set sets a configuration value (used by flag overrides)
func Set(key string, value interface{}) {
	v.Set(key, value)
}

// IsSet reports whether key has a value from any source other than defaults.
func IsSet(key string) bool {
	return v.InConfig(key) || os.Getenv(envName(key)) != ""
}

func envName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.NewReplacer("-", "_", ".", "_").Replace(key))
}

// AllSettings returns every known setting, for display.
func AllSettings() map[string]interface{} {
	return v.AllSettings()
}

// Editor returns the command used by `tasks open`: the editor setting, then
// $VISUAL, then $EDITOR, then vi.
func Editor() string {
	if e := GetString(KeyEditor); e != "" {
		return e
	}
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if e := os.Getenv(env); e != "" {
			return e
		}
	}
	return "vi"
}

// FindWorkspaceRoot walks up from start looking for a directory containing
// .repo-tasks. It returns configfile.ErrNotInitialized when none is found.
func FindWorkspaceRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	for {
		info, err := os.Stat(filepath.Join(dir, configfile.DirName))
		if err == nil && info.IsDir() {
			return dir, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", configfile.ErrNotInitialized
		}
		dir = parent
	}
}
