// Package config locates, reads and writes the crtodo configuration and
// resolves the database path.
//
// Values are applied in priority order:
//  1. Defaults
//  2. Config file (config.yaml or config.toml in the config directory)
//  3. Environment variables (a .env file in the working directory is loaded first)
//  4. CLI flags (applied by the caller)
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	todoerrors "github.com/abatilo/crtodo/internal/errors"
)

const (
	AppName        = "crtodo"
	yamlConfigFile = "config.yaml"
	tomlConfigFile = "config.toml"

	EnvDatabase  = "CRTODO_DATABASE"
	EnvLogLevel  = "CRTODO_LOG_LEVEL"
	EnvLogFormat = "CRTODO_LOG_FORMAT"

	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"
)

// Config holds the application configuration.
type Config struct {
	DatabasePath string `yaml:"database"             toml:"database"`
	LogLevel     string `yaml:"log_level,omitempty"  toml:"log_level,omitempty"`
	LogFormat    string `yaml:"log_format,omitempty" toml:"log_format,omitempty"`
}

// Default returns the configuration used when nothing else is set.
func Default() (*Config, error) {
	db, err := DefaultDatabasePath()
	if err != nil {
		return nil, err
	}
	return &Config{
		DatabasePath: db,
		LogLevel:     DefaultLogLevel,
		LogFormat:    DefaultLogFormat,
	}, nil
}

// Dir returns the per-user config directory (e.g. ~/.config/crtodo).
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config directory: %w", err)
	}
	return filepath.Join(base, AppName), nil
}

// DefaultFile returns the config file that Init writes by default.
func DefaultFile() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, yamlConfigFile), nil
}

// FindFile returns the existing config file in the config directory,
// preferring YAML over TOML. It returns "" when neither exists.
func FindFile() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	for _, name := range []string{yamlConfigFile, tomlConfigFile} {
		p := filepath.Join(dir, name)
		if info, statErr := os.Stat(p); statErr == nil && !info.IsDir() {
			return p, nil
		}
	}
	return "", nil
}

// DefaultDatabasePath returns ~/.<home-dir-name>_todo.json.
func DefaultDatabasePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(home, "."+filepath.Base(home)+"_todo.json"), nil
}

// Load builds the configuration from defaults, the config file and the
// environment. An empty file means "look in the config directory".
//
// When no config file can be found the returned error is NotInitializedError;
// when the home or config directory cannot be located it is ConfigDirError.
// In both cases the returned Config still carries defaults plus environment
// overrides so callers with an explicit database path can continue. A config
// file that exists but cannot be parsed returns a nil Config.
func Load(file string) (*Config, error) {
	// A missing .env file is not an error.
	_ = godotenv.Load()

	cfg := &Config{LogLevel: DefaultLogLevel, LogFormat: DefaultLogFormat}
	db, homeErr := DefaultDatabasePath()
	cfg.DatabasePath = db

	var loadErr error
	if file == "" {
		var err error
		if file, err = FindFile(); err != nil {
			loadErr = todoerrors.ConfigDirError{Path: "user config directory", Err: err}
		}
	}
	file = ExpandPath(file)

	switch {
	case loadErr != nil:
	case file == "":
		defaultFile, err := DefaultFile()
		if err != nil {
			loadErr = todoerrors.ConfigDirError{Path: "user config directory", Err: err}
			break
		}
		loadErr = todoerrors.NotInitializedError{ConfigPath: defaultFile}
	default:
		if err := loadFile(cfg, file); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, todoerrors.ConfigFileError{Path: file, Err: err}
			}
			loadErr = todoerrors.NotInitializedError{ConfigPath: file}
		}
	}

	applyEnv(cfg)
	if cfg.DatabasePath == "" && homeErr != nil && loadErr == nil {
		loadErr = todoerrors.ConfigDirError{Path: "home directory", Err: homeErr}
	}
	cfg.DatabasePath = ExpandPath(cfg.DatabasePath)
	return cfg, loadErr
}

func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if isTOML(path) {
		if _, err = toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("parse toml: %w", err)
		}
		return nil
	}
	if err = yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvDatabase); v != "" {
		cfg.DatabasePath = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.LogFormat = v
	}
}

// DatabaseFromEnv reports whether the database path was set through the
// environment.
func DatabaseFromEnv() bool {
	return os.Getenv(EnvDatabase) != ""
}

// Save writes cfg to path, creating the directory if needed. The format
// follows the file extension (.toml, otherwise YAML).
func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	//nolint:gosec // G301: 0755 is appropriate for a user config directory
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return todoerrors.ConfigDirError{Path: dir, Err: err}
	}

	var buf bytes.Buffer
	if isTOML(path) {
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return todoerrors.ConfigFileError{Path: path, Err: err}
		}
	} else {
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return todoerrors.ConfigFileError{Path: path, Err: err}
		}
		if err := enc.Close(); err != nil {
			return todoerrors.ConfigFileError{Path: path, Err: err}
		}
	}

	//nolint:gosec // G306: 0644 is appropriate for user-readable config files
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return todoerrors.ConfigFileError{Path: path, Err: err}
	}
	return nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}
