package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/javiermolinar/horario/internal/timetable"
)

func (a *App) generateCmd() *cobra.Command {
	var (
		group   string
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a timetable and print every class",
		Long: `Ask the solver for a fresh timetable and print one grid per class.

Rows are days and columns are timeslots. Nothing is saved: run the TUI to
edit the result.`,
		Example: `  horario generate
  horario generate --group "Grade 9A"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if noColor {
				DisableColor()
			}

			c, err := a.generate(cmd.Context())
			if err != nil {
				return err
			}
			if len(c) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "The solver returned no schedules.")
				return nil
			}

			if group != "" {
				s, err := findSchedule(c, group)
				if err != nil {
					return err
				}
				c = timetable.Collection{s}
			}

			width := termWidth()
			for _, s := range c {
				PrintGrid(cmd.OutOrStdout(), s, width)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}

	cmd.Flags().StringVarP(&group, "group", "g", "", "Print only this class")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	return cmd
}

// generate fetches a fresh collection from the solver.
func (a *App) generate(ctx context.Context) (timetable.Collection, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := a.log()
	client, err := a.solver(logger)
	if err != nil {
		return nil, err
	}

	c, err := client.Generate(ctx)
	if err != nil {
		return nil, fmt.Errorf("generating timetable: %w", err)
	}
	logger.Debug("timetable generated", zap.Int("schedules", len(c)))
	if err := c.Validate(); err != nil {
		logger.Warn("generated timetable is incomplete", zap.Error(err))
	}
	return c, nil
}

// findSchedule returns the class schedule whose name matches, ignoring case.
func findSchedule(c timetable.Collection, name string) (timetable.Schedule, error) {
	for _, s := range c {
		if strings.EqualFold(s.StudentGroupName, strings.TrimSpace(name)) {
			return s, nil
		}
	}
	return timetable.Schedule{}, fmt.Errorf("no class named %q (available: %s)", name, strings.Join(c.Names(), ", "))
}

// findTeacher returns the roster entry matching name, ignoring case.
func findTeacher(c timetable.Collection, name string) (string, error) {
	roster := timetable.Roster(c)
	for _, t := range roster {
		if strings.EqualFold(t, strings.TrimSpace(name)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("no teacher named %q (available: %s)", name, strings.Join(roster, ", "))
}
