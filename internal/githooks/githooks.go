// Package githooks installs and removes the git hook shims that connect
// commits to the tracker. Each shim execs `tasks hooks run <name>`, so hook
// behavior always matches the installed binary.
package githooks

import (
	"bufio"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

//go:embed templates/*
var templatesFS embed.FS

// Marker is the line that identifies a hook written by tasks.
const Marker = "# repo-tasks"

const shimVersionPrefix = "# repo-tasks-shim "

// BackupSuffix is appended to a foreign hook moved aside by Install.
const BackupSuffix = ".backup"

// Names lists every managed hook in install order.
var Names = []string{"pre-commit", "post-commit", "prepare-commit-msg", "post-checkout"}

// IsManaged reports whether name is a hook tasks knows how to install.
func IsManaged(name string) bool {
	return slices.Contains(Names, name)
}

// Template returns the shim script for name.
func Template(name string) (string, error) {
	if !IsManaged(name) {
		return "", fmt.Errorf("unknown hook %q (managed hooks: %s)", name, strings.Join(Names, ", "))
	}
	content, err := templatesFS.ReadFile("templates/" + name)
	if err != nil {
		return "", fmt.Errorf("failed to read embedded hook %s: %w", name, err)
	}
	// Hooks with CRLF fail: /bin/sh: 'sh\r': not found
	return strings.ReplaceAll(string(content), "\r\n", "\n"), nil
}

// HookStatus represents the status of a single git hook
type HookStatus struct {
	Name      string `json:"name"`
	Installed bool   `json:"installed"`
	Managed   bool   `json:"managed"`
	Version   string `json:"version,omitempty"`
	HasBackup bool   `json:"has_backup"`
}

// hookInfo reads the first lines of a hook looking for our marker.
func hookInfo(path string) (managed bool, version string) {
	f, err := os.Open(path) // #nosec G304 - path inside the hooks directory
	if err != nil {
		return false, ""
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for i := 0; i < 10 && scanner.Scan(); i++ {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, shimVersionPrefix) {
			return true, strings.TrimSpace(strings.TrimPrefix(line, shimVersionPrefix))
		}
		if line == Marker {
			managed = true
		}
	}
	return managed, ""
}

// List reports the state of every managed hook in hooksDir.
func List(hooksDir string) []HookStatus {
	statuses := make([]HookStatus, 0, len(Names))
	for _, name := range Names {
		path := filepath.Join(hooksDir, name)
		status := HookStatus{Name: name}
		if _, err := os.Stat(path); err == nil {
			status.Installed = true
			status.Managed, status.Version = hookInfo(path)
		}
		if _, err := os.Stat(path + BackupSuffix); err == nil {
			status.HasBackup = true
		}
		statuses = append(statuses, status)
	}
	return statuses
}

// InstallResult describes what Install did for one hook.
type InstallResult struct {
	Name       string `json:"name"`
	Path       string `json:"path"`
	BackedUpTo string `json:"backed_up_to,omitempty"`
}

// Install writes the shims for names into hooksDir.
//
// A foreign hook already at the path is renamed to <name>.backup unless force
// is set, in which case it is overwritten. A hook that is already ours is
// simply rewritten.
func Install(hooksDir string, names []string, force bool) ([]InstallResult, error) {
	if err := os.MkdirAll(hooksDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create hooks directory: %w", err)
	}

	var results []InstallResult
	for _, name := range names {
		content, err := Template(name)
		if err != nil {
			return results, err
		}

		hookPath := filepath.Join(hooksDir, name)
		res := InstallResult{Name: name, Path: hookPath}

		if _, err := os.Stat(hookPath); err == nil {
			if managed, _ := hookInfo(hookPath); !managed && !force {
				backupPath := hookPath + BackupSuffix
				if err := os.Rename(hookPath, backupPath); err != nil {
					return results, fmt.Errorf("failed to backup %s: %w", name, err)
				}
				res.BackedUpTo = backupPath
			}
		}

		// #nosec G306 -- git hooks must be executable for Git to run them
		if err := os.WriteFile(hookPath, []byte(content), 0755); err != nil {
			return results, fmt.Errorf("failed to write %s: %w", name, err)
		}
		results = append(results, res)
	}
	return results, nil
}

// Uninstall removes our hooks from hooksDir and puts any backup back in
// place. Foreign hooks are left alone. Restoring a backup is best effort:
// failures are returned as warnings and never stop the uninstall.
func Uninstall(hooksDir string) (removed []string, warnings []error, err error) {
	for _, name := range Names {
		hookPath := filepath.Join(hooksDir, name)

		if _, statErr := os.Stat(hookPath); statErr == nil {
			if managed, _ := hookInfo(hookPath); !managed {
				continue
			}
			if rmErr := os.Remove(hookPath); rmErr != nil {
				return removed, warnings, fmt.Errorf("failed to remove %s: %w", name, rmErr)
			}
			removed = append(removed, name)
		} else if !os.IsNotExist(statErr) {
			continue
		}

		backupPath := hookPath + BackupSuffix
		if _, statErr := os.Stat(backupPath); statErr == nil {
			if mvErr := os.Rename(backupPath, hookPath); mvErr != nil {
				warnings = append(warnings, fmt.Errorf("failed to restore backup for %s: %w", name, mvErr))
			}
		}
	}
	return removed, warnings, nil
}
