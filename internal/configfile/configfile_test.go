package configfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repotasks/repo-tasks/internal/types"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("test-project")

	assert.Equal(t, "test-project", cfg.ProjectName)
	assert.Equal(t, []string{"todo", "in-progress", "testing", "done"}, cfg.Statuses)
	assert.Equal(t, []string{"Low", "Medium", "High", "Critical"}, cfg.Priorities)
	assert.False(t, cfg.AutoCommit)
	assert.Equal(t, types.StatusTodo, cfg.InitialStatus())
}

func TestDefaultConfigUsesDirectoryName(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "widget-factory")
	require.NoError(t, os.Mkdir(dir, 0750))
	t.Chdir(dir)

	assert.Equal(t, "widget-factory", DefaultConfig("").ProjectName)
}

func TestLoadSaveRoundtrip(t *testing.T) {
	tasksDir := filepath.Join(t.TempDir(), DirName)

	cfg := DefaultConfig("roundtrip")
	cfg.AutoCommit = true
	require.NoError(t, cfg.Save(tasksDir))
	assert.True(t, IsInitialized(tasksDir))

	loaded, err := Load(tasksDir)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestSaveWritesIndentedJSON(t *testing.T) {
	tasksDir := t.TempDir()
	require.NoError(t, DefaultConfig("p").Save(tasksDir))

	data, err := os.ReadFile(ConfigPath(tasksDir))
	require.NoError(t, err)
	assert.Contains(t, string(data), "{\n  \"project_name\": \"p\",\n  \"statuses\": [\n    \"todo\",")
	assert.Contains(t, string(data), `"auto_commit": false`)
}

func TestLoadNonexistent(t *testing.T) {
	tasksDir := t.TempDir()

	_, err := Load(tasksDir)
	assert.ErrorIs(t, err, ErrNotInitialized)
	assert.False(t, IsInitialized(tasksDir))
}

func TestLoadDefaultsAutoCommit(t *testing.T) {
	tasksDir := t.TempDir()
	data := `{"project_name":"x","statuses":["todo","done"],"priorities":["Low"]}`
	require.NoError(t, os.WriteFile(ConfigPath(tasksDir), []byte(data), 0644))

	cfg, err := Load(tasksDir)
	require.NoError(t, err)
	assert.False(t, cfg.AutoCommit)
	assert.True(t, cfg.HasStatus("done"))
	assert.False(t, cfg.HasStatus("testing"))
	assert.True(t, cfg.HasPriority("Low"))
	assert.False(t, cfg.HasPriority("High"))
}

func TestLoadRejectsBadConfig(t *testing.T) {
	tests := map[string]string{
		"not json":         `{`,
		"no statuses":      `{"project_name":"x","statuses":[],"priorities":[]}`,
		"duplicate status": `{"project_name":"x","statuses":["todo","todo"],"priorities":[]}`,
		"path in status":   `{"project_name":"x","statuses":["../escape"],"priorities":[]}`,
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			tasksDir := t.TempDir()
			require.NoError(t, os.WriteFile(ConfigPath(tasksDir), []byte(data), 0644))

			_, err := Load(tasksDir)
			require.Error(t, err)
			assert.NotErrorIs(t, err, ErrNotInitialized)
		})
	}
}

func TestSet(t *testing.T) {
	cfg := DefaultConfig("p")

	require.NoError(t, cfg.Set("auto_commit", "true"))
	assert.True(t, cfg.AutoCommit)
	require.NoError(t, cfg.Set("project_name", "renamed"))
	assert.Equal(t, "renamed", cfg.ProjectName)

	assert.Error(t, cfg.Set("auto_commit", "sometimes"))
	assert.Error(t, cfg.Set("project_name", " "))
	assert.Error(t, cfg.Set("statuses", "a,b"))
}
