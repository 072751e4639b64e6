package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {
	t.Run("missing file gives defaults", func(t *testing.T) {
		dir := t.TempDir()
		cfg, err := Load(filepath.Join(dir, FileName))
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Store.Backend != BackendFile {
			t.Errorf("Backend = %q, want %q", cfg.Store.Backend, BackendFile)
		}
		if want := filepath.Join(dir, "palette.json"); cfg.Store.Path != want {
			t.Errorf("Path = %q, want %q", cfg.Store.Path, want)
		}
		if cfg.Level() != slog.LevelInfo {
			t.Errorf("Level() = %v", cfg.Level())
		}
	})

	t.Run("partial file keeps defaults", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, FileName)
		data := "store:\n  backend: badger\n  path: /var/lib/palette\nhistory:\n  journal: edits.jsonl\nlog_level: debug\n"
		if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
			t.Fatal(err)
		}
		cfg, err := Load(path)
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Store.Backend != BackendBadger || cfg.Store.Path != "/var/lib/palette" {
			t.Errorf("Store = %+v", cfg.Store)
		}
		if cfg.History.Limit != 1000 {
			t.Errorf("History.Limit = %d, want default 1000", cfg.History.Limit)
		}
		if want := filepath.Join(dir, "edits.jsonl"); cfg.History.Journal != want {
			t.Errorf("History.Journal = %q, want %q", cfg.History.Journal, want)
		}
		if cfg.Level() != slog.LevelDebug {
			t.Errorf("Level() = %v, want debug", cfg.Level())
		}
	})

	t.Run("invalid", func(t *testing.T) {
		tests := []struct {
			name string
			data string
			want string
		}{
			{"backend", "store:\n  backend: sqlite\n", "store.backend"},
			{"format", "store:\n  format: toml\n", "store.format"},
			{"git with badger", "store:\n  backend: badger\ngit:\n  enabled: true\n", "git.enabled"},
			{"history", "history:\n  limit: -1\n", "history.limit"},
			{"log level", "log_level: loud\n", "log level"},
			{"syntax", "store: [\n", "failed to parse"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				path := filepath.Join(t.TempDir(), FileName)
				if err := os.WriteFile(path, []byte(tt.data), 0o600); err != nil {
					t.Fatal(err)
				}
				_, err := Load(path)
				if err == nil || !strings.Contains(err.Error(), tt.want) {
					t.Errorf("Load() error = %v, want it to mention %q", err, tt.want)
				}
			})
		}
	})
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	cfg := Default()
	cfg.Store.Format = "yaml"
	cfg.Store.Path = "palette.yaml"
	cfg.Git.Enabled = true
	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Git.Enabled || got.Store.Format != "yaml" || got.Store.Path != filepath.Join(dir, "palette.yaml") {
		t.Errorf("Load() = %+v", got)
	}

	cfg.History.Limit = -5
	if err := cfg.Save(path); err == nil {
		t.Error("Save() accepted an invalid config")
	}
}
