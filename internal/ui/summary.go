package ui

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/horario/internal/summary"
)

func (a *App) summaryCmd() *cobra.Command {
	var (
		insight bool
		model   string
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show how lessons are spread across teachers",
		Long: `Generate a timetable and print each teacher's load: lessons per week,
busiest day, and the classes they teach.

With --insight, an LLM comments on the balance of the week.`,
		Example: `  horario summary
  horario summary --insight --model llama3.1`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if noColor {
				DisableColor()
			}
			out := cmd.OutOrStdout()

			if model == "" {
				model = a.config.LLM.Model
			}

			c, err := a.generate(cmd.Context())
			if err != nil {
				return err
			}

			s, err := summary.Build(cmd.Context(), c, summary.BuildOptions{
				IncludeInsight: insight,
				Provider:       a.config.LLM.Provider,
				Model:          model,
				BaseURL:        a.config.LLM.BaseURL,
				Client:         a.llm,
			})
			if err != nil {
				return fmt.Errorf("building summary: %w", err)
			}

			PrintSummary(out, s)

			if s.Insight != "" {
				_, _ = fmt.Fprintln(out)
				_, _ = fmt.Fprintf(out, "%s%s\n", indent, formatHeader("INSIGHT"))
				_, _ = fmt.Fprintln(out, strings.Repeat("─", 60))
				PrintInsightWrapped(out, s.Insight, 58)
			}
			_, _ = fmt.Fprintln(out)
			return nil
		},
	}

	cmd.Flags().BoolVar(&insight, "insight", false, "Ask the configured LLM for an insight")
	cmd.Flags().StringVar(&model, "model", "", "LLM model to use (default from config)")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	return cmd
}
