package ui

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/horario/internal/summary"
	"github.com/javiermolinar/horario/internal/timetable"
)

func (a *App) teacherCmd() *cobra.Command {
	var noColor bool

	cmd := &cobra.Command{
		Use:   "teacher [name]",
		Short: "List teachers or print one teacher's week",
		Long: `Without a name, list every teacher with their lesson count.

With a name, print the teacher's week across all classes. Each lesson is
labelled with the class it belongs to.`,
		Example: `  horario teacher
  horario teacher Smith`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if noColor {
				DisableColor()
			}
			out := cmd.OutOrStdout()

			c, err := a.generate(cmd.Context())
			if err != nil {
				return err
			}

			if len(args) == 0 {
				roster := summary.Summarize(c).Teachers
				if len(roster) == 0 {
					_, _ = fmt.Fprintln(out, "No teachers found in the timetable.")
					return nil
				}
				for _, t := range roster {
					_, _ = fmt.Fprintf(out, "%s%-20s %s\n", indent, t.Name, formatMuted(fmt.Sprintf("%d lessons", t.Lessons)))
				}
				return nil
			}

			name, err := findTeacher(c, args[0])
			if err != nil {
				return err
			}
			PrintGrid(out, timetable.ProjectTeacher(c, name), termWidth())
			_, _ = fmt.Fprintln(out)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	return cmd
}
