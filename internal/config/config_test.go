package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repotasks/repo-tasks/internal/configfile"
)

func writeSettings(t *testing.T, root, content string) string {
	t.Helper()
	dir := filepath.Join(root, configfile.DirName)
	require.NoError(t, os.MkdirAll(dir, 0755))
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return dir
}

func TestDefaults(t *testing.T) {
	t.Cleanup(ResetForTesting)
	require.NoError(t, Initialize(""))

	assert.False(t, GetBool(KeyJSON))
	assert.False(t, GetBool(KeyNoColor))
	assert.Empty(t, GetString(KeyEditor))
	assert.Empty(t, ConfigFileUsed())
}

func TestEnvironmentBinding(t *testing.T) {
	t.Cleanup(ResetForTesting)
	t.Setenv("TASKS_JSON", "true")
	t.Setenv("TASKS_NO_COLOR", "1")
	t.Setenv("TASKS_EDITOR", "nano")
	require.NoError(t, Initialize(""))

	assert.True(t, GetBool(KeyJSON))
	assert.True(t, GetBool(KeyNoColor))
	assert.Equal(t, "nano", GetString(KeyEditor))
	assert.True(t, IsSet(KeyEditor))
}

func TestConfigFileAndPrecedence(t *testing.T) {
	t.Cleanup(ResetForTesting)
	root := t.TempDir()
	writeSettings(t, root, "json: true\neditor: nvim\n")

	require.NoError(t, Initialize(root))
	assert.True(t, GetBool(KeyJSON))
	assert.Equal(t, "nvim", GetString(KeyEditor))
	assert.Equal(t, filepath.Join(root, configfile.DirName, FileName), ConfigFileUsed())

	t.Setenv("TASKS_EDITOR", "emacs")
	require.NoError(t, Initialize(root))
	assert.Equal(t, "emacs", GetString(KeyEditor))

	Set(KeyEditor, "code")
	assert.Equal(t, "code", GetString(KeyEditor))
}

func TestInitializeRejectsBadYAML(t *testing.T) {
	t.Cleanup(ResetForTesting)
	root := t.TempDir()
	writeSettings(t, root, "json: [unclosed\n")

	err := Initialize(root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), FileName)
}

func TestEditorFallback(t *testing.T) {
	t.Cleanup(ResetForTesting)
	t.Setenv("TASKS_EDITOR", "")
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "")
	ResetForTesting()
	assert.Equal(t, "vi", Editor())

	t.Setenv("EDITOR", "nano")
	assert.Equal(t, "nano", Editor())

	t.Setenv("VISUAL", "code -w")
	assert.Equal(t, "code -w", Editor())

	Set(KeyEditor, "hx")
	assert.Equal(t, "hx", Editor())
}

func TestFindWorkspaceRoot(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, configfile.DirName), 0755))
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))

	got, err := FindWorkspaceRoot(nested)
	require.NoError(t, err)
	want, _ := filepath.EvalSymlinks(root)
	gotResolved, _ := filepath.EvalSymlinks(got)
	assert.Equal(t, want, gotResolved)

	_, err = FindWorkspaceRoot(t.TempDir())
	assert.ErrorIs(t, err, configfile.ErrNotInitialized)
}

func TestLoadLocalConfig(t *testing.T) {
	root := t.TempDir()
	dir := writeSettings(t, root, "# comment\njson: true\nno-color: true\neditor: nvim\n")

	cfg := LoadLocalConfig(dir)
	assert.True(t, cfg.JSON)
	assert.True(t, cfg.NoColor)
	assert.Equal(t, "nvim", cfg.Editor)

	assert.Equal(t, &LocalConfig{}, LoadLocalConfig(t.TempDir()))
}
