// ABOUTME: BiriVibe configuration loaded from YAML, .env and environment variables.
// ABOUTME: Also provides the storage factory that picks SQLite or PostgreSQL.

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/birivibe/birivibe/internal/storage"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config stores BiriVibe configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	AI       AIConfig       `mapstructure:"ai" yaml:"ai"`
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging"`
	User     UserConfig     `mapstructure:"user" yaml:"user"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
}

// DatabaseConfig selects the storage backend.
type DatabaseConfig struct {
	// Backend is "sqlite" (default) or "postgres". A postgres:// URL
	// selects postgres regardless of Backend.
	Backend string `mapstructure:"backend" yaml:"backend"`

	// URL is a postgres DSN or a SQLite file path.
	URL string `mapstructure:"url" yaml:"url,omitempty"`

	// DataDir is where birivibe.db lives when URL is empty.
	// Supports ~ expansion. Defaults to ~/.local/share/birivibe.
	DataDir string `mapstructure:"data_dir" yaml:"data_dir,omitempty"`
}

// AIConfig configures the hosted generative-language model.
type AIConfig struct {
	APIKey  string        `mapstructure:"api_key" yaml:"api_key,omitempty"`
	Model   string        `mapstructure:"model" yaml:"model"`
	BaseURL string        `mapstructure:"base_url" yaml:"base_url"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// Enabled reports whether an API key is configured.
func (a AIConfig) Enabled() bool {
	return a.APIKey != ""
}

// LoggingConfig controls log level and output format.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// UserConfig names the default user every request acts as.
type UserConfig struct {
	Email string `mapstructure:"email" yaml:"email"`
	Name  string `mapstructure:"name" yaml:"name"`
}

// Default returns the configuration used when no file or env overrides exist.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:              ":3000",
			ReadHeaderTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{Backend: "sqlite"},
		AI: AIConfig{
			Model:   "gemini-2.0-flash",
			BaseURL: "https://generativelanguage.googleapis.com/v1beta",
			Timeout: 30 * time.Second,
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
		User:    UserConfig{Email: "me@birivibe.local", Name: "Me"},
	}
}

// GetBackend returns the configured backend, defaulting to "sqlite".
func (c *Config) GetBackend() string {
	if storage.IsPostgresURL(c.Database.URL) {
		return "postgres"
	}
	if c.Database.Backend == "" {
		return "sqlite"
	}
	return c.Database.Backend
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.Database.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.Database.DataDir)
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenStorage creates a Repository implementation based on the configured backend.
func (c *Config) OpenStorage() (storage.Repository, error) {
	switch backend := c.GetBackend(); backend {
	case "sqlite":
		if c.Database.URL != "" {
			return storage.OpenURL(ExpandPath(strings.TrimPrefix(c.Database.URL, "file:")))
		}
		return storage.Open(filepath.Join(c.GetDataDir(), "birivibe.db"))
	case "postgres":
		if c.Database.URL == "" {
			return nil, errors.New("database.url is required for the postgres backend")
		}
		return storage.OpenPostgres(c.Database.URL)
	default:
		return nil, fmt.Errorf("unknown backend: %q", backend)
	}
}

// Validate checks that configuration values are usable.
func (c *Config) Validate() error {
	switch c.GetBackend() {
	case "sqlite":
	case "postgres":
		if c.Database.URL == "" {
			return errors.New("database.url is required for the postgres backend")
		}
	default:
		return fmt.Errorf("database.backend must be sqlite or postgres, got %q", c.Database.Backend)
	}
	if c.Server.Addr == "" {
		return errors.New("server.addr is required")
	}
	if _, err := logrus.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}
	if c.User.Email == "" {
		return errors.New("user.email is required")
	}
	return nil
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	if p := os.Getenv("BIRIVIBE_CONFIG"); p != "" {
		return p
	}
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "birivibe", "config.yaml")
}

// Load reads config from .env, the YAML file at GetConfigPath and the
// environment, in increasing precedence. A missing file yields defaults.
func Load() (*Config, error) {
	// .env never overrides variables that are already set.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return LoadFile(GetConfigPath())
}

// LoadFile reads config from path plus environment overrides.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix("BIRIVIBE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Conventional variable names used by hosting platforms.
	_ = v.BindEnv("database.url", "BIRIVIBE_DATABASE_URL", "DATABASE_URL")
	_ = v.BindEnv("ai.api_key", "BIRIVIBE_AI_API_KEY", "GEMINI_API_KEY")

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.read_header_timeout", d.Server.ReadHeaderTimeout)
	v.SetDefault("database.backend", d.Database.Backend)
	v.SetDefault("database.url", d.Database.URL)
	v.SetDefault("database.data_dir", d.Database.DataDir)
	v.SetDefault("ai.api_key", d.AI.APIKey)
	v.SetDefault("ai.model", d.AI.Model)
	v.SetDefault("ai.base_url", d.AI.BaseURL)
	v.SetDefault("ai.timeout", d.AI.Timeout)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("user.email", d.User.Email)
	v.SetDefault("user.name", d.User.Name)
}

// Save writes config to disk.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo writes config as YAML to path.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
