package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	todoerrors "github.com/abatilo/crtodo/internal/errors"
)

// isolate points the config and home directories at a temp dir and clears
// the crtodo environment.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", filepath.Join(dir, "alice"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv(EnvDatabase, "")
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvLogFormat, "")
	t.Chdir(dir)
	return dir
}

func TestDefaultDatabasePath(t *testing.T) {
	dir := isolate(t)

	got, err := DefaultDatabasePath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "alice", ".alice_todo.json"), got)
}

func TestLoadNotInitialized(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load("")
	require.Error(t, err)

	var notInit todoerrors.NotInitializedError
	require.ErrorAs(t, err, &notInit)
	assert.Equal(t, filepath.Join(dir, "config", "crtodo", "config.yaml"), notInit.ConfigPath)
	assert.Equal(t, todoerrors.FileError, todoerrors.Code(err))

	// Defaults are still returned.
	require.NotNil(t, cfg)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, filepath.Join(dir, "alice", ".alice_todo.json"), cfg.DatabasePath)
}

func TestSaveLoadYAML(t *testing.T) {
	dir := isolate(t)

	file, err := DefaultFile()
	require.NoError(t, err)

	db := filepath.Join(dir, "data", "todo.json")
	require.NoError(t, Save(file, &Config{DatabasePath: db, LogLevel: "debug"}))

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "database: "+db)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, db, cfg.DatabasePath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, DefaultLogFormat, cfg.LogFormat)
}

func TestLoadTOML(t *testing.T) {
	dir := isolate(t)

	cfgDir, err := Dir()
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(cfgDir, 0o755))

	content := "database = \"/srv/todo.json\"\nlog_format = \"json\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(cfgDir, "config.toml"), []byte(content), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/srv/todo.json", cfg.DatabasePath)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)

	// An explicit file wins over the config directory.
	explicit := filepath.Join(dir, "other.toml")
	require.NoError(t, Save(explicit, &Config{DatabasePath: "/tmp/other.json"}))
	cfg, err = Load(explicit)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/other.json", cfg.DatabasePath)
}

func TestLoadMalformedFile(t *testing.T) {
	dir := isolate(t)

	file := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(file, []byte("database: [unterminated"), 0o644))

	_, err := Load(file)
	require.Error(t, err)
	assert.Equal(t, todoerrors.FileError, todoerrors.Code(err))

	var fileErr todoerrors.ConfigFileError
	assert.ErrorAs(t, err, &fileErr)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	dir := isolate(t)

	_, err := Load(filepath.Join(dir, "nope.yaml"))
	var notInit todoerrors.NotInitializedError
	require.ErrorAs(t, err, &notInit)
	assert.Equal(t, filepath.Join(dir, "nope.yaml"), notInit.ConfigPath)
}

func TestLoadWithoutHomeDirectory(t *testing.T) {
	isolate(t)
	t.Setenv("HOME", "")
	t.Setenv("XDG_CONFIG_HOME", "")

	cfg, err := Load("")
	var dirErr todoerrors.ConfigDirError
	require.ErrorAs(t, err, &dirErr)
	assert.Equal(t, todoerrors.DirError, todoerrors.Code(err))
	require.NotNil(t, cfg)
	assert.Empty(t, cfg.DatabasePath)

	// The environment still supplies a database path.
	t.Setenv(EnvDatabase, "/srv/todo.json")
	cfg, err = Load("")
	require.ErrorAs(t, err, &dirErr)
	assert.Equal(t, "/srv/todo.json", cfg.DatabasePath)
}

func TestLoadExplicitFileWithoutHomeDirectory(t *testing.T) {
	dir := isolate(t)
	file := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(file, []byte("database = \"/srv/todo.json\"\n"), 0o644))
	t.Setenv("HOME", "")

	cfg, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, "/srv/todo.json", cfg.DatabasePath)
}

func TestEnvOverridesFile(t *testing.T) {
	dir := isolate(t)

	file, err := DefaultFile()
	require.NoError(t, err)
	require.NoError(t, Save(file, &Config{DatabasePath: "/from/file.json", LogLevel: "info"}))

	t.Setenv(EnvDatabase, filepath.Join(dir, "env.json"))
	t.Setenv(EnvLogLevel, "error")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "env.json"), cfg.DatabasePath)
	assert.Equal(t, "error", cfg.LogLevel)
	assert.True(t, DatabaseFromEnv())
}

func TestDotEnvFile(t *testing.T) {
	dir := isolate(t)
	// godotenv never overrides variables that are already set, even empty.
	require.NoError(t, os.Unsetenv(EnvDatabase))
	t.Cleanup(func() { os.Unsetenv(EnvDatabase) })

	envFile := EnvDatabase + "=" + filepath.Join(dir, "dotenv.json") + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(envFile), 0o644))

	cfg, err := Load("")
	require.ErrorAs(t, err, new(todoerrors.NotInitializedError))
	assert.Equal(t, filepath.Join(dir, "dotenv.json"), cfg.DatabasePath)
}

func TestExpandPath(t *testing.T) {
	isolate(t)
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("TODO_DIR", "/data")

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"~", home},
		{"~/todo.json", filepath.Join(home, "todo.json")},
		{"$TODO_DIR/todo.json", "/data/todo.json"},
		{"/abs/todo.json", "/abs/todo.json"},
		{"relative.json", "relative.json"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.in))
		})
	}
}

func TestSaveUnwritableDirectory(t *testing.T) {
	dir := isolate(t)

	// A regular file where the directory should be.
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	err := Save(filepath.Join(blocker, "config.yaml"), &Config{DatabasePath: "x"})
	require.Error(t, err)
	assert.Equal(t, todoerrors.DirError, todoerrors.Code(err))
}
