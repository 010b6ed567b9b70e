package ui

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/horario/internal/journal"
)

func (a *App) historyCmd() *cobra.Command {
	var (
		limit   int
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent move attempts",
		Long: `List the moves made in the TUI, newest first, with how the solver
judged each one.`,
		Example: `  horario history
  horario history --limit 50`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if noColor {
				DisableColor()
			}
			out := cmd.OutOrStdout()

			repo, err := a.moveJournal()
			if err != nil {
				return err
			}

			entries, err := repo.Recent(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("listing moves: %w", err)
			}
			if len(entries) == 0 {
				_, _ = fmt.Fprintln(out, "No moves recorded yet.")
				return nil
			}

			PrintHistory(out, entries)

			counts, err := repo.CountByOutcome(cmd.Context())
			if err != nil {
				return fmt.Errorf("counting moves: %w", err)
			}
			_, _ = fmt.Fprintln(out, strings.Repeat("─", 60))
			_, _ = fmt.Fprintf(out, "%sCommitted: %s  |  Rejected: %d  |  Failed: %d  |  Stale: %d\n",
				indent,
				formatStats(fmt.Sprint(counts[journal.OutcomeCommitted])),
				counts[journal.OutcomeRejected],
				counts[journal.OutcomeFailed],
				counts[journal.OutcomeStale],
			)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of moves to show (0 for all)")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	return cmd
}
