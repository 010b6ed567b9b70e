package ui

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/javiermolinar/horario/internal/config"
	"github.com/javiermolinar/horario/internal/journal"
	"github.com/javiermolinar/horario/internal/llm"
	"github.com/javiermolinar/horario/internal/logging"
	"github.com/javiermolinar/horario/internal/solver"
	"github.com/javiermolinar/horario/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	config  *config.Config
	root    *cobra.Command
	debug   bool // Enable debug logging
	client  solver.Client
	journal journal.Repository
	llm     llm.Client
	logger  *zap.Logger
	closers []func() error
}

// Option configures an App.
type Option func(*App)

// WithSolver uses the given solver instead of one built from the config.
func WithSolver(c solver.Client) Option {
	return func(a *App) { a.client = c }
}

// WithJournal uses the given move journal instead of opening the configured one.
func WithJournal(repo journal.Repository) Option {
	return func(a *App) { a.journal = repo }
}

// WithLLMClient sets the insight provider for summaries.
func WithLLMClient(c llm.Client) Option {
	return func(a *App) { a.llm = c }
}

// NewApp creates a new CLI application with the given config.
func NewApp(cfg *config.Config, opts ...Option) *App {
	if cfg == nil {
		cfg = config.Default()
	}
	a := &App{config: cfg}
	for _, opt := range opts {
		opt(a)
	}

	a.root = &cobra.Command{
		Use:   "horario",
		Short: "A terminal editor for school timetables",
		Long: `Horario edits school timetables produced by a remote solver.

Generate a timetable, browse it per class or per teacher, and move lessons
between cells. Every move is checked by the solver and rolled back when it
breaks a constraint.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return a.runTUI()
		},
	}

	// Add global flags
	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging (logs to temp file)")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.generateCmd())
	a.root.AddCommand(a.teacherCmd())
	a.root.AddCommand(a.exportCmd())
	a.root.AddCommand(a.historyCmd())
	a.root.AddCommand(a.summaryCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "horario %s (commit: %s)\n", Version, Commit)
		},
	}
}

func (a *App) runTUI() error {
	logCfg := a.logConfig()
	logger, err := logging.ForTUI(logCfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	client, err := a.solver(logger)
	if err != nil {
		return err
	}

	opts := []tui.ModelOption{tui.WithLogger(logger)}
	if repo, err := a.moveJournal(); err != nil {
		logger.Warn("move journal unavailable", zap.Error(err))
	} else {
		opts = append(opts, tui.WithJournal(repo))
	}
	if a.llm != nil {
		opts = append(opts, tui.WithLLMClient(a.llm))
	}

	if a.debug {
		logger.Debug("starting tui", zap.String("solver", a.config.Server.BaseURL), zap.String("log", logCfg.File))
	}
	return tui.Run(client, a.config, opts...)
}

// logConfig applies --debug on top of the configured log settings. The TUI owns the
// terminal, so debug output falls back to a file in the temp directory.
func (a *App) logConfig() config.LogConfig {
	cfg := a.config.Log
	if a.debug {
		cfg.Level = "debug"
		if cfg.File == "" {
			cfg.File = filepath.Join(os.TempDir(), "horario-debug.log")
		}
	}
	return cfg
}

func (a *App) log() *zap.Logger {
	if a.logger != nil {
		return a.logger
	}
	logger, err := logging.New(a.logConfig())
	if err != nil {
		logger = zap.NewNop()
	}
	a.logger = logger
	a.closers = append(a.closers, func() error {
		_ = logger.Sync()
		return nil
	})
	return logger
}

// solver returns the injected client or builds one for the configured service.
func (a *App) solver(logger *zap.Logger) (solver.Client, error) {
	if a.client != nil {
		return a.client, nil
	}
	timeout, err := a.config.ServerTimeout()
	if err != nil {
		return nil, err
	}
	c, err := solver.NewHTTPClient(a.config.Server.BaseURL,
		solver.WithTimeout(timeout),
		solver.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("creating solver client: %w", err)
	}
	a.client = c
	return c, nil
}

// moveJournal opens the configured journal on first use.
func (a *App) moveJournal() (journal.Repository, error) {
	if a.journal != nil {
		return a.journal, nil
	}
	repo, err := journal.New(a.config.Storage.JournalPath)
	if err != nil {
		return nil, fmt.Errorf("opening move journal: %w", err)
	}
	a.journal = repo
	a.closers = append(a.closers, repo.Close)
	return repo, nil
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// Close releases what the commands opened.
func (a *App) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}
