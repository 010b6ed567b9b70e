package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/horario/internal/config"
	"github.com/javiermolinar/horario/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.`,
		Example: `  horario config
  horario config init --force`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInteractive(cmd.InOrStdin(), cmd.OutOrStdout(), config.DefaultConfigPath())
		},
	}
	cmd.AddCommand(a.configInitCmd())
	return cmd
}

func (a *App) configInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with default values",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return initConfig(cmd.OutOrStdout(), config.DefaultConfigPath(), force)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	return cmd
}

func initConfig(out io.Writer, path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
	}
	if err := config.Default().SaveTo(path); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	_, _ = fmt.Fprintf(out, "Created %s\n", path)
	return nil
}

func runConfigInteractive(in io.Reader, out io.Writer, configPath string) error {
	_, _ = fmt.Fprintf(out, "Config file: %s\n\n", configPath)

	// Load existing config or create defaults
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	_, fileErr := os.Stat(configPath)
	if os.IsNotExist(fileErr) {
		_, _ = fmt.Fprintln(out, "No config file found. Creating with default values...")
		if err := cfg.SaveTo(configPath); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		_, _ = fmt.Fprintf(out, "Created %s\n\n", configPath)
	}

	printConfig(out, cfg)

	reader := bufio.NewReader(in)
	if !promptYesNo(reader, out, "\nWould you like to edit the configuration?") {
		return nil
	}

	cfg.Server.BaseURL = promptValue(reader, out, "Solver base URL", cfg.Server.BaseURL)
	cfg.Server.Timeout = promptValue(reader, out, "Solver timeout", cfg.Server.Timeout)
	cfg.Export.Dir = promptValue(reader, out, "Export directory", cfg.Export.Dir)
	cfg.LLM.Provider = promptValue(reader, out, "LLM provider (empty to disable)", cfg.LLM.Provider)
	cfg.LLM.Model = promptValue(reader, out, "LLM model", cfg.LLM.Model)
	cfg.LLM.BaseURL = promptValue(reader, out, "LLM base URL (Ollama/LM Studio)", cfg.LLM.BaseURL)
	cfg.Storage.JournalPath = promptValue(reader, out, "Move journal path", cfg.Storage.JournalPath)
	cfg.UI.Theme = promptTheme(reader, out, cfg.UI.Theme)
	cfg.Log.Level = promptValue(reader, out, "Log level", cfg.Log.Level)

	// Validate before saving
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if err := cfg.SaveTo(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	_, _ = fmt.Fprintln(out, "\nConfiguration saved!")
	return nil
}

func printConfig(out io.Writer, cfg *config.Config) {
	p := func(format string, args ...any) { _, _ = fmt.Fprintf(out, format, args...) }

	p("Current configuration:\n")
	p("──────────────────────\n")
	p("[server]\n")
	p("  base_url     = %s\n", cfg.Server.BaseURL)
	p("  timeout      = %s\n", cfg.Server.Timeout)
	p("\n[export]\n")
	p("  dir          = %s\n", cfg.Export.Dir)
	if cfg.HasLLM() {
		p("\n[llm]\n")
		p("  provider     = %s\n", cfg.LLM.Provider)
		p("  model        = %s\n", cfg.LLM.Model)
		p("  base_url     = %s\n", cfg.LLM.BaseURL)
	}
	p("\n[storage]\n")
	p("  journal_path = %s\n", cfg.Storage.JournalPath)
	p("\n[ui]\n")
	p("  theme        = %s\n", cfg.UI.Theme)
	p("\n[log]\n")
	p("  level        = %s\n", cfg.Log.Level)
	p("  format       = %s\n", cfg.Log.Format)
	if cfg.Log.File != "" {
		p("  file         = %s\n", cfg.Log.File)
	}
}

func promptYesNo(reader *bufio.Reader, out io.Writer, question string) bool {
	_, _ = fmt.Fprintf(out, "%s [y/N]: ", question)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func promptValue(reader *bufio.Reader, out io.Writer, label, current string) string {
	if current == "" {
		_, _ = fmt.Fprintf(out, "  %s: ", label)
	} else {
		_, _ = fmt.Fprintf(out, "  %s [%s]: ", label, current)
	}
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func promptTheme(reader *bufio.Reader, out io.Writer, current string) string {
	options := strings.Join(theme.Available(), ", ")
	label := fmt.Sprintf("UI theme (%s)", options)
	for {
		value := strings.ToLower(promptValue(reader, out, label, current))
		if theme.IsAvailable(value) {
			return value
		}
		_, _ = fmt.Fprintf(out, "  Invalid theme %q. Available: %s\n", value, options)
		if _, err := reader.Peek(1); err != nil {
			return current
		}
	}
}
