// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "HORARIO_"

// Config holds the application configuration.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Export  ExportConfig  `toml:"export"`
	LLM     LLMConfig     `toml:"llm"`
	Storage StorageConfig `toml:"storage"`
	UI      UIConfig      `toml:"ui"`
	Log     LogConfig     `toml:"log"`
}

// ServerConfig locates the timetable solver service.
type ServerConfig struct {
	BaseURL string `toml:"base_url"` // e.g., "http://localhost:8000/api"
	Timeout string `toml:"timeout"`  // Go duration, e.g., "30s"
}

// ExportConfig holds workbook export settings.
type ExportConfig struct {
	Dir string `toml:"dir"`
}

// LLMConfig holds LLM provider settings.
type LLMConfig struct {
	Provider string `toml:"provider"` // "ollama", "lmstudio", "openai"
	Model    string `toml:"model"`    // e.g., "llama3.1"
	BaseURL  string `toml:"base_url"` // e.g., "http://localhost:11434"
}

// StorageConfig holds database settings.
type StorageConfig struct {
	JournalPath string `toml:"journal_path"`
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme string `toml:"theme"` // "mocha", "latte"
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `toml:"level"`  // "debug", "info", "warn", "error"
	Format string `toml:"format"` // "console" or "json"
	File   string `toml:"file"`   // empty logs to stderr; the TUI stays silent
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			BaseURL: "http://localhost:8000/api",
			Timeout: "30s",
		},
		Export: ExportConfig{
			Dir: ".",
		},
		LLM: LLMConfig{
			Provider: "ollama",
			Model:    "llama3.1",
			BaseURL:  "http://localhost:11434",
		},
		Storage: StorageConfig{
			JournalPath: defaultJournalPath(),
		},
		UI: UIConfig{
			Theme: "mocha",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// defaultJournalPath returns the default move journal path.
func defaultJournalPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "horario.db"
	}
	return filepath.Join(home, ".local", "share", "horario", "journal.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	if v := os.Getenv(EnvPrefix + "CONFIG"); v != "" {
		return expandPath(v)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "horario", "config.toml")
}

// Load loads configuration from the default path, merging with defaults, a .env file
// in the working directory, and env vars.
func Load() (*Config, error) {
	if err := LoadDotEnv(".env"); err != nil {
		return nil, err
	}
	return LoadFrom(DefaultConfigPath())
}

// LoadDotEnv exports the variables of a .env file. Variables already set in the
// environment win. A missing file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading env file: %w", err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("parsing env file: %w", err)
	}
	return nil
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	cfg.Storage.JournalPath = expandPath(cfg.Storage.JournalPath)
	cfg.Export.Dir = expandPath(cfg.Export.Dir)
	cfg.Log.File = expandPath(cfg.Log.File)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) {
	overrides := []struct {
		key string
		dst *string
	}{
		{"SERVER_URL", &cfg.Server.BaseURL},
		{"SERVER_TIMEOUT", &cfg.Server.Timeout},
		{"EXPORT_DIR", &cfg.Export.Dir},
		{"LLM_PROVIDER", &cfg.LLM.Provider},
		{"LLM_MODEL", &cfg.LLM.Model},
		{"LLM_BASE_URL", &cfg.LLM.BaseURL},
		{"JOURNAL_PATH", &cfg.Storage.JournalPath},
		{"UI_THEME", &cfg.UI.Theme},
		{"LOG_LEVEL", &cfg.Log.Level},
		{"LOG_FORMAT", &cfg.Log.Format},
		{"LOG_FILE", &cfg.Log.File},
	}
	for _, o := range overrides {
		if v := os.Getenv(EnvPrefix + o.key); v != "" {
			*o.dst = v
		}
	}
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

var (
	validProviders = map[string]bool{"ollama": true, "lmstudio": true, "openai": true}
	validLevels    = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	validFormats   = map[string]bool{"console": true, "json": true}
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Server.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("server.base_url must be an http(s) URL, got %q", c.Server.BaseURL)
	}
	if _, err := c.ServerTimeout(); err != nil {
		return err
	}
	if p := strings.ToLower(c.LLM.Provider); p != "" && !validProviders[p] {
		return fmt.Errorf("unsupported llm provider: %s", c.LLM.Provider)
	}
	if c.Storage.JournalPath == "" {
		return errors.New("journal_path must be set")
	}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}
	if !validFormats[strings.ToLower(c.Log.Format)] {
		return fmt.Errorf("invalid log format: %s", c.Log.Format)
	}
	return nil
}

// ServerTimeout parses the per-request timeout.
func (c *Config) ServerTimeout() (time.Duration, error) {
	d, err := time.ParseDuration(c.Server.Timeout)
	if err != nil {
		return 0, fmt.Errorf("server.timeout must be a duration, got %q", c.Server.Timeout)
	}
	if d <= 0 {
		return 0, fmt.Errorf("server.timeout must be positive, got %q", c.Server.Timeout)
	}
	return d, nil
}

// HasLLM returns true if an insight provider is configured.
func (c *Config) HasLLM() bool {
	return c.LLM.Provider != "" && c.LLM.Model != ""
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
