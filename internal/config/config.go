// Manages palettedb configuration stored in palettedb.yaml.

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the default configuration file name.
const FileName = "palettedb.yaml"

// Config stores all palettedb settings.
// Loaded from a YAML file, defaults are used when the file is missing.
type Config struct {
	// Store selects where the palette document lives.
	Store Store `yaml:"store"`

	// Git enables committing every saved document. Only valid with the file
	// backend.
	Git Git `yaml:"git"`

	// History bounds the undo log.
	History History `yaml:"history"`

	// LogLevel is one of debug, info, warn or error.
	LogLevel string `yaml:"log_level"`
}

// Store configures the persistence backend.
type Store struct {
	// Backend is "file" or "badger".
	Backend string `yaml:"backend"`

	// Path is the document file for the file backend and the database
	// directory for the badger backend. Relative paths are resolved against
	// the directory holding the configuration file.
	Path string `yaml:"path"`

	// Format is "json" or "yaml". Derived from the Path extension when empty.
	Format string `yaml:"format,omitempty"`
}

// Git configures commits made by the git-backed store.
type Git struct {
	Enabled     bool   `yaml:"enabled"`
	AuthorName  string `yaml:"author_name,omitempty"`
	AuthorEmail string `yaml:"author_email,omitempty"`
}

// History configures the undo log.
type History struct {
	// Limit is the maximum number of undoable batches kept when saving.
	// 0 means unlimited.
	Limit int `yaml:"limit"`

	// Journal is an optional JSONL file recording every edit. Relative paths
	// are resolved like Store.Path.
	Journal string `yaml:"journal,omitempty"`
}

// Backends.
const (
	BackendFile   = "file"
	BackendBadger = "badger"
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Store: Store{
			Backend: BackendFile,
			Path:    "palette.json",
		},
		Git: Git{
			AuthorName:  "palettedb",
			AuthorEmail: "palettedb@localhost",
		},
		History:  History{Limit: 1000},
		LogLevel: "info",
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendFile, BackendBadger:
	default:
		return fmt.Errorf("store.backend must be %q or %q, got %q", BackendFile, BackendBadger, c.Store.Backend)
	}
	if c.Store.Path == "" {
		return errors.New("store.path is required")
	}
	switch c.Store.Format {
	case "", "json", "yaml":
	default:
		return fmt.Errorf("store.format must be json or yaml, got %q", c.Store.Format)
	}
	if c.Store.Backend == BackendBadger && c.Store.Format != "" {
		return errors.New("store.format is only valid with the file backend")
	}
	if c.Git.Enabled {
		if c.Store.Backend != BackendFile {
			return errors.New("git.enabled requires the file backend")
		}
		if c.Git.AuthorName == "" || c.Git.AuthorEmail == "" {
			return errors.New("git.author_name and git.author_email are required when git is enabled")
		}
	}
	if c.History.Limit < 0 {
		return errors.New("history.limit must be non-negative")
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Level returns the parsed log level.
func (c *Config) Level() slog.Level {
	l, _ := ParseLevel(c.LogLevel)
	return l
}

// ParseLevel converts a log level name into a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %q", s)
	}
}

// Load reads the configuration at path. A missing file yields the defaults.
// Relative store paths are resolved against the directory of path.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is the --config flag
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}
	if !filepath.IsAbs(cfg.Store.Path) {
		cfg.Store.Path = filepath.Join(filepath.Dir(path), cfg.Store.Path)
	}
	if cfg.History.Journal != "" && !filepath.IsAbs(cfg.History.Journal) {
		cfg.History.Journal = filepath.Join(filepath.Dir(path), cfg.History.Journal)
	}
	return cfg, nil
}

// Save writes the configuration to path.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
