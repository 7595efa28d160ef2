// ABOUTME: Tests for BiriVibe configuration management.
// ABOUTME: Covers defaults, file and env precedence, validation, backend selection, and path expansion.
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGetBackendDefault(t *testing.T) {
	cfg := &Config{}
	if got := cfg.GetBackend(); got != "sqlite" {
		t.Errorf("GetBackend() = %q, want %q", got, "sqlite")
	}
}

func TestGetBackendFromURL(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{URL: "postgres://localhost/birivibe"}}
	if got := cfg.GetBackend(); got != "postgres" {
		t.Errorf("GetBackend() = %q, want %q", got, "postgres")
	}
}

func TestGetDataDirDefault(t *testing.T) {
	cfg := &Config{}
	if got := cfg.GetDataDir(); got == "" {
		t.Error("GetDataDir() returned empty string")
	}
}

func TestGetDataDirExplicit(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{DataDir: "/tmp/birivibe-test"}}
	if got := cfg.GetDataDir(); got != "/tmp/birivibe-test" {
		t.Errorf("GetDataDir() = %q, want %q", got, "/tmp/birivibe-test")
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"/tmp/foo", "/tmp/foo"},
		{"~", home},
		{"~/data", filepath.Join(home, "data")},
		{"relative/path", "relative/path"},
	}
	for _, tt := range tests {
		if got := ExpandPath(tt.in); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoadFileDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	want := Default()
	if cfg.Server.Addr != want.Server.Addr {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, want.Server.Addr)
	}
	if cfg.AI.Timeout != 30*time.Second {
		t.Errorf("AI.Timeout = %v, want 30s", cfg.AI.Timeout)
	}
	if cfg.User.Email != want.User.Email {
		t.Errorf("User.Email = %q", cfg.User.Email)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Server.Addr = ":8080"
	cfg.AI.Timeout = 5 * time.Second
	cfg.Logging.Format = "json"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("config file not created: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("permissions = %v, want 0600", info.Mode().Perm())
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if loaded.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %q, want :8080", loaded.Server.Addr)
	}
	if loaded.AI.Timeout != 5*time.Second {
		t.Errorf("AI.Timeout = %v, want 5s", loaded.AI.Timeout)
	}
	if loaded.Logging.Format != "json" {
		t.Errorf("Logging.Format = %q, want json", loaded.Logging.Format)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  addr: \":9000\"\nlogging:\n  level: warn\n"), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("BIRIVIBE_SERVER_ADDR", ":7000")
	t.Setenv("DATABASE_URL", "postgres://localhost/birivibe")
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.Server.Addr != ":7000" {
		t.Errorf("Server.Addr = %q, want env override :7000", cfg.Server.Addr)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want file value warn", cfg.Logging.Level)
	}
	if cfg.Database.URL != "postgres://localhost/birivibe" {
		t.Errorf("Database.URL = %q", cfg.Database.URL)
	}
	if !cfg.AI.Enabled() || cfg.AI.APIKey != "test-key" {
		t.Errorf("AI.APIKey = %q", cfg.AI.APIKey)
	}
}

func TestLoadFileInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server: [unclosed"), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Error("Expected error for invalid YAML")
	}
}

func TestGetConfigPath(t *testing.T) {
	t.Setenv("BIRIVIBE_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := GetConfigPath(); got != "/tmp/xdg/birivibe/config.yaml" {
		t.Errorf("GetConfigPath() = %q", got)
	}

	t.Setenv("BIRIVIBE_CONFIG", "/etc/birivibe.yaml")
	if got := GetConfigPath(); got != "/etc/birivibe.yaml" {
		t.Errorf("GetConfigPath() = %q, want BIRIVIBE_CONFIG", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default", func(*Config) {}, false},
		{"unknown backend", func(c *Config) { c.Database.Backend = "mongo" }, true},
		{"postgres without url", func(c *Config) { c.Database.Backend = "postgres" }, true},
		{"postgres url", func(c *Config) { c.Database.URL = "postgres://x/y" }, false},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, true},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, true},
		{"no addr", func(c *Config) { c.Server.Addr = "" }, true},
		{"no user", func(c *Config) { c.User.Email = "" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestOpenStorageSQLite(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{Backend: "sqlite", DataDir: t.TempDir()}}

	repo, err := cfg.OpenStorage()
	if err != nil {
		t.Fatalf("OpenStorage failed: %v", err)
	}
	defer repo.Close()

	if _, err := os.Stat(filepath.Join(cfg.Database.DataDir, "birivibe.db")); err != nil {
		t.Errorf("expected database file: %v", err)
	}
}

func TestOpenStorageSQLiteURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dev.db")
	cfg := &Config{Database: DatabaseConfig{URL: "file:" + path}}

	repo, err := cfg.OpenStorage()
	if err != nil {
		t.Fatalf("OpenStorage failed: %v", err)
	}
	defer repo.Close()

	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected database file at URL path: %v", err)
	}
}

func TestOpenStorageInvalidBackend(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{Backend: "mongo"}}
	if _, err := cfg.OpenStorage(); err == nil {
		t.Error("Expected error for unknown backend")
	}
}
