package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.BaseURL != "http://localhost:8000/api" {
		t.Errorf("expected base_url http://localhost:8000/api, got %s", cfg.Server.BaseURL)
	}
	if cfg.Server.Timeout != "30s" {
		t.Errorf("expected timeout 30s, got %s", cfg.Server.Timeout)
	}
	if cfg.LLM.Provider != "ollama" {
		t.Errorf("expected provider ollama, got %s", cfg.LLM.Provider)
	}
	if cfg.UI.Theme != "mocha" {
		t.Errorf("expected theme mocha, got %s", cfg.UI.Theme)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "console" {
		t.Errorf("expected info/console logging, got %s/%s", cfg.Log.Level, cfg.Log.Format)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestLoadFrom_FileNotExists(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.toml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.BaseURL != "http://localhost:8000/api" {
		t.Errorf("expected default base_url, got %s", cfg.Server.BaseURL)
	}
}

func TestLoadFrom_ValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
[server]
base_url = "https://solver.example.edu/api"
timeout = "5s"

[export]
dir = "/tmp/exports"

[llm]
provider = "lmstudio"
model = "qwen2.5"
base_url = "http://localhost:1234/v1"

[storage]
journal_path = "/tmp/journal.db"

[log]
level = "debug"
format = "json"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.BaseURL != "https://solver.example.edu/api" {
		t.Errorf("expected base_url from file, got %s", cfg.Server.BaseURL)
	}
	d, err := cfg.ServerTimeout()
	if err != nil || d != 5*time.Second {
		t.Errorf("expected timeout 5s, got %v (%v)", d, err)
	}
	if cfg.Export.Dir != "/tmp/exports" {
		t.Errorf("expected export dir /tmp/exports, got %s", cfg.Export.Dir)
	}
	if cfg.LLM.Provider != "lmstudio" || cfg.LLM.Model != "qwen2.5" {
		t.Errorf("expected lmstudio/qwen2.5, got %s/%s", cfg.LLM.Provider, cfg.LLM.Model)
	}
	if cfg.Storage.JournalPath != "/tmp/journal.db" {
		t.Errorf("expected journal_path /tmp/journal.db, got %s", cfg.Storage.JournalPath)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("expected debug/json, got %s/%s", cfg.Log.Level, cfg.Log.Format)
	}
	// Unset in file, kept from defaults.
	if cfg.UI.Theme != "mocha" {
		t.Errorf("expected default theme, got %s", cfg.UI.Theme)
	}
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
[server]
base_url = "http://file.example:8000/api"
timeout = "10s"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	t.Setenv("HORARIO_SERVER_URL", "http://env.example:9000/api")
	t.Setenv("HORARIO_LLM_MODEL", "mistral")
	t.Setenv("HORARIO_UI_THEME", "latte")

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.BaseURL != "http://env.example:9000/api" {
		t.Errorf("expected base_url from env, got %s", cfg.Server.BaseURL)
	}
	if cfg.Server.Timeout != "10s" {
		t.Errorf("expected timeout 10s from file, got %s", cfg.Server.Timeout)
	}
	if cfg.LLM.Model != "mistral" {
		t.Errorf("expected model mistral from env, got %s", cfg.LLM.Model)
	}
	if cfg.UI.Theme != "latte" {
		t.Errorf("expected theme latte from env, got %s", cfg.UI.Theme)
	}
}

func TestLoadDotEnv(t *testing.T) {
	tmpDir := t.TempDir()
	envPath := filepath.Join(tmpDir, ".env")
	content := "HORARIO_LOG_LEVEL=warn\nHORARIO_LLM_MODEL=from-dotenv\n"
	if err := os.WriteFile(envPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}

	// Already-set variables win over the file. Setenv also restores both after the test.
	t.Setenv("HORARIO_LLM_MODEL", "from-env")
	t.Setenv("HORARIO_LOG_LEVEL", "")
	if err := os.Unsetenv("HORARIO_LOG_LEVEL"); err != nil {
		t.Fatalf("unsetenv: %v", err)
	}

	if err := LoadDotEnv(envPath); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}

	cfg, err := LoadFrom(filepath.Join(tmpDir, "missing.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("expected log level warn from .env, got %s", cfg.Log.Level)
	}
	if cfg.LLM.Model != "from-env" {
		t.Errorf("expected model from-env, got %s", cfg.LLM.Model)
	}
}

func TestLoadDotEnv_Missing(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), ".env")); err != nil {
		t.Fatalf("missing .env should not be an error: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "relative base url", mutate: func(c *Config) { c.Server.BaseURL = "/api" }},
		{name: "non http scheme", mutate: func(c *Config) { c.Server.BaseURL = "ftp://host/api" }},
		{name: "bad timeout", mutate: func(c *Config) { c.Server.Timeout = "soon" }},
		{name: "zero timeout", mutate: func(c *Config) { c.Server.Timeout = "0s" }},
		{name: "unknown provider", mutate: func(c *Config) { c.LLM.Provider = "copilot" }},
		{name: "empty journal", mutate: func(c *Config) { c.Storage.JournalPath = "" }},
		{name: "bad level", mutate: func(c *Config) { c.Log.Level = "loud" }},
		{name: "bad format", mutate: func(c *Config) { c.Log.Format = "xml" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidate_EmptyProviderDisablesLLM(t *testing.T) {
	cfg := Default()
	cfg.LLM.Provider = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty provider should be valid: %v", err)
	}
	if cfg.HasLLM() {
		t.Error("expected HasLLM() = false without a provider")
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		input string
		want  string
	}{
		{"~/journal.db", filepath.Join(home, "journal.db")},
		{"/absolute/path.db", "/absolute/path.db"},
		{"relative/path.db", "relative/path.db"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got := expandPath(tc.input)
			if got != tc.want {
				t.Errorf("expandPath(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestDefaultConfigPath_EnvOverride(t *testing.T) {
	t.Setenv("HORARIO_CONFIG", "/etc/horario.toml")
	if got := DefaultConfigPath(); got != "/etc/horario.toml" {
		t.Errorf("DefaultConfigPath() = %q", got)
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "config.toml")

	cfg := Default()
	cfg.Server.BaseURL = "http://solver.local/api"
	cfg.Export.Dir = "/tmp/out"
	cfg.Log.File = "/tmp/horario.log"

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if loaded.Server.BaseURL != "http://solver.local/api" {
		t.Errorf("expected base_url http://solver.local/api, got %s", loaded.Server.BaseURL)
	}
	if loaded.Export.Dir != "/tmp/out" {
		t.Errorf("expected export dir /tmp/out, got %s", loaded.Export.Dir)
	}
	if loaded.Log.File != "/tmp/horario.log" {
		t.Errorf("expected log file /tmp/horario.log, got %s", loaded.Log.File)
	}
}
