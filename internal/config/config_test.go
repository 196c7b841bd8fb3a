package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Version != 1 {
		t.Fatalf("version = %d, want 1", cfg.Version)
	}
	if cfg.Database.Path != "./emdc-guide.db" {
		t.Fatalf("db path = %q", cfg.Database.Path)
	}
	if cfg.Database.TablePrefix != "copr_" {
		t.Fatalf("table prefix = %q", cfg.Database.TablePrefix)
	}
}

func TestLoadFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "emdc-guide.yaml")
	data := []byte("version: 1\ndatabase:\n  path: /var/lib/emdc/profile.db\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, used, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if used != path {
		t.Fatalf("used path = %q, want %q", used, path)
	}
	if cfg.Database.Path != "/var/lib/emdc/profile.db" {
		t.Fatalf("db path = %q", cfg.Database.Path)
	}
	// Missing prefix falls back to the default.
	if cfg.Database.TablePrefix != "copr_" {
		t.Fatalf("table prefix = %q, want default copr_", cfg.Database.TablePrefix)
	}
}

func TestLoadFromPathMissingFile(t *testing.T) {
	if _, _, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "emdc-guide.yaml")
	data := []byte("database:\n  path: ./file.db\n  table_prefix: copr_\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("EMDC_DB_PATH", "/tmp/override.db")
	t.Setenv("EMDC_TABLE_PREFIX", "wp_copr_")

	cfg, _, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Database.Path != "/tmp/override.db" {
		t.Fatalf("env override lost for path: %q", cfg.Database.Path)
	}
	if cfg.Database.TablePrefix != "wp_copr_" {
		t.Fatalf("env override lost for prefix: %q", cfg.Database.TablePrefix)
	}
}
