// Package templates loads task templates used by `tasks new --template`.
//
// A template is a TOML file with optional priority, tags and body. Lookup
// chain (highest to lowest priority):
//  1. .repo-tasks/templates/<name>.toml (project-level, version-controlled)
//  2. ~/.config/tasks/templates/<name>.toml (user-level)
//  3. Embedded defaults (bug, feature)
package templates

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/repotasks/repo-tasks/internal/debug"
	"github.com/repotasks/repo-tasks/internal/types"
)

//go:embed defaults/*.toml
var defaultTemplates embed.FS

// DirName is the templates directory inside .repo-tasks and the user config dir.
const DirName = "templates"

const fileExt = ".toml"

// ErrNotFound is returned when no layer has the requested template.
var ErrNotFound = errors.New("template not found")

// Template pre-fills a new task.
type Template struct {
	Name     string   `toml:"-" json:"name"`
	Priority string   `toml:"priority" json:"priority,omitempty"`
	Tags     []string `toml:"tags" json:"tags,omitempty"`
	Body     string   `toml:"body" json:"body,omitempty"`
	Source   string   `toml:"-" json:"source"`
}

// LoadOptions configures template resolution.
type LoadOptions struct {
	// TasksDir is the project .repo-tasks/ directory.
	TasksDir string

	// UserDir is the user-level template directory. Empty skips the layer.
	UserDir string
}

// DefaultUserDir returns ~/.config/tasks/templates, or "" when the user
// config directory is unknown.
func DefaultUserDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "tasks", DirName)
}

func (o LoadOptions) dirs() []string {
	var dirs []string
	if o.TasksDir != "" {
		dirs = append(dirs, filepath.Join(o.TasksDir, DirName))
	}
	if o.UserDir != "" {
		dirs = append(dirs, o.UserDir)
	}
	return dirs
}

// Load resolves the named template through the lookup chain.
func Load(opts LoadOptions, name string) (*Template, error) {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return nil, fmt.Errorf("invalid template name %q", name)
	}

	for _, dir := range opts.dirs() {
		path := filepath.Join(dir, name+fileExt)
		data, err := os.ReadFile(path) // #nosec G304 - template directory path
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", path, err)
		}
		return decode(name, path, data)
	}

	data, err := defaultTemplates.ReadFile("defaults/" + name + fileExt)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return decode(name, "embedded:"+name+fileExt, data)
}

func decode(name, source string, data []byte) (*Template, error) {
	var tmpl Template
	if err := toml.Unmarshal(data, &tmpl); err != nil {
		return nil, fmt.Errorf("invalid template %s: %w", source, err)
	}
	tmpl.Name = name
	tmpl.Source = source
	debug.Logf("template: loaded %s from %s\n", name, source)
	return &tmpl, nil
}

// List returns the names of every template reachable through the chain.
func List(opts LoadOptions) []string {
	seen := make(map[string]bool)
	collect := func(names []string) {
		for _, n := range names {
			if strings.HasSuffix(n, fileExt) {
				seen[strings.TrimSuffix(n, fileExt)] = true
			}
		}
	}

	for _, dir := range opts.dirs() {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		var names []string
		for _, e := range entries {
			if !e.IsDir() {
				names = append(names, e.Name())
			}
		}
		collect(names)
	}
	if entries, err := defaultTemplates.ReadDir("defaults"); err == nil {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		collect(names)
	}

	out := make([]string, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Apply fills the draft's empty fields from the template. Template tags are
// added ahead of the draft's own, without duplicates.
func (t *Template) Apply(draft *types.Task) {
	if draft.Priority == "" {
		draft.Priority = t.Priority
	}
	if draft.Body == "" {
		draft.Body = strings.TrimRight(t.Body, " \t\r\n")
	}
	tags := slices.Clone(t.Tags)
	for _, tag := range draft.Tags {
		if !slices.Contains(tags, tag) {
			tags = append(tags, tag)
		}
	}
	if len(tags) > 0 {
		draft.Tags = tags
	}
}
