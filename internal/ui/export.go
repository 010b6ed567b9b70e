package ui

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/javiermolinar/horario/internal/export"
	"github.com/javiermolinar/horario/internal/timetable"
)

func (a *App) exportCmd() *cobra.Command {
	var (
		group   string
		teacher string
		local   bool
		out     string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a class or teacher schedule as a workbook",
		Long: `Generate a timetable and save one schedule as an .xlsx workbook.

By default the solver renders the workbook. With --local it is built on
this machine instead.`,
		Example: `  horario export --group "Grade 9A"
  horario export --teacher Smith --local --out ./exports`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if (group == "") == (teacher == "") {
				return errors.New("exactly one of --group or --teacher is required")
			}
			if out == "" {
				out = a.config.Export.Dir
			}

			c, err := a.generate(cmd.Context())
			if err != nil {
				return err
			}

			var s timetable.Schedule
			if group != "" {
				s, err = findSchedule(c, group)
			} else {
				var name string
				name, err = findTeacher(c, teacher)
				s = timetable.ProjectTeacher(c, name)
			}
			if err != nil {
				return err
			}

			var data []byte
			if local {
				buf, err := export.Workbook(s)
				if err != nil {
					return fmt.Errorf("building workbook: %w", err)
				}
				data = buf.Bytes()
			} else {
				client, err := a.solver(a.log())
				if err != nil {
					return err
				}
				data, err = client.Export(cmd.Context(), s)
				if err != nil {
					return fmt.Errorf("exporting %s: %w", s.StudentGroupName, err)
				}
			}

			path, err := export.Save(out, s, data)
			if err != nil {
				return err
			}
			a.log().Info("schedule exported", zap.String("path", path), zap.Bool("local", local))
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", s.StudentGroupName, path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&group, "group", "g", "", "Class to export")
	cmd.Flags().StringVarP(&teacher, "teacher", "t", "", "Teacher to export")
	cmd.Flags().BoolVar(&local, "local", false, "Build the workbook locally instead of asking the solver")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output directory (default from config)")
	return cmd
}
