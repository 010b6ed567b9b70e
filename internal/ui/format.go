package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/javiermolinar/horario/internal/journal"
	"github.com/javiermolinar/horario/internal/summary"
	"github.com/javiermolinar/horario/internal/timetable"
)

const (
	emptyCellText = "--"
	dayHeader     = "Day"
	columnGap     = 2
	minColumn     = 6
	indent        = "  "
)

// LessonText renders a lesson as "Subject (Teacher)", or just the subject when no
// teacher is assigned.
func LessonText(l timetable.Lesson) string {
	if l.Teacher == "" {
		return l.Subject
	}
	return l.Subject + " (" + l.Teacher + ")"
}

// fitText truncates s to width cells and pads it with spaces.
func fitText(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if ansi.StringWidth(s) > width {
		s = ansi.Truncate(s, width, "…")
	}
	return s + strings.Repeat(" ", width-ansi.StringWidth(s))
}

// gridColumns returns the day column width and the timeslot column width for a grid
// printed within width cells.
func gridColumns(g timetable.Grid, width int) (dayW, colW int) {
	dayW = len(dayHeader)
	for _, d := range g.Days {
		dayW = max(dayW, ansi.StringWidth(d))
	}

	days, slots := g.Size()
	for t := 0; t < slots; t++ {
		colW = max(colW, ansi.StringWidth(g.Timeslots[t]))
		for d := 0; d < days; d++ {
			text := emptyCellText
			if l, ok := g.At(d, t); ok {
				text = LessonText(l)
			}
			colW = max(colW, ansi.StringWidth(text))
		}
	}
	if slots == 0 {
		return dayW, 0
	}

	avail := width - len(indent) - dayW - columnGap*slots
	limit := max(avail/slots, minColumn)
	return dayW, min(colW, limit)
}

// PrintGrid prints a schedule as a table with days as rows and timeslots as columns.
func PrintGrid(w io.Writer, s timetable.Schedule, width int) {
	_, _ = fmt.Fprintf(w, "\n%s%s\n", indent, formatHeader(s.StudentGroupName))

	if err := s.Validate(); err != nil {
		_, _ = fmt.Fprintf(w, "%s%s\n", indent, formatMuted("Timetable data is incomplete."))
		return
	}

	g := timetable.NewGrid(s)
	dayW, colW := gridColumns(g, width)
	days, slots := g.Size()
	gap := strings.Repeat(" ", columnGap)

	var header strings.Builder
	header.WriteString(fitText(dayHeader, dayW))
	for t := 0; t < slots; t++ {
		header.WriteString(gap)
		header.WriteString(fitText(g.Timeslots[t], colW))
	}
	line := strings.TrimRight(header.String(), " ")
	_, _ = fmt.Fprintf(w, "%s%s\n", indent, formatHeader(line))
	_, _ = fmt.Fprintf(w, "%s%s\n", indent, strings.Repeat("─", ansi.StringWidth(line)))

	for d := 0; d < days; d++ {
		var row strings.Builder
		row.WriteString(fitText(g.Days[d], dayW))
		for t := 0; t < slots; t++ {
			row.WriteString(gap)
			if l, ok := g.At(d, t); ok {
				row.WriteString(formatLesson(fitText(LessonText(l), colW)))
			} else {
				row.WriteString(formatEmpty(fitText(emptyCellText, colW)))
			}
		}
		_, _ = fmt.Fprintf(w, "%s%s\n", indent, strings.TrimRight(row.String(), " "))
	}
}

// LoadBar draws lessons as a share of the busiest teacher's load.
func LoadBar(lessons, busiest, width int) string {
	if busiest <= 0 || width <= 0 {
		return strings.Repeat("░", max(width, 0))
	}
	filled := min((lessons*width)/busiest, width)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// PrintSummary prints the per-teacher workload table.
func PrintSummary(w io.Writer, s *summary.Summary) {
	_, _ = fmt.Fprintf(w, "\n%s%s\n", indent, formatHeader("TEACHER LOAD"))
	_, _ = fmt.Fprintf(w, "%s\n", strings.Repeat("─", 60))

	if len(s.Teachers) == 0 {
		_, _ = fmt.Fprintf(w, "%sNo lessons scheduled.\n", indent)
		return
	}

	nameW := len("Teacher")
	busiest := 0
	for _, t := range s.Teachers {
		nameW = max(nameW, ansi.StringWidth(t.Name))
		busiest = max(busiest, t.Lessons)
	}

	for _, t := range s.Teachers {
		_, _ = fmt.Fprintf(w, "%s%s  %s %s  %s\n",
			indent,
			fitText(t.Name, nameW),
			formatLesson(LoadBar(t.Lessons, busiest, 12)),
			formatStats(fmt.Sprintf("%3d", t.Lessons)),
			formatMuted(fmt.Sprintf("busiest %s (%d)  groups: %s",
				t.BusiestDay, t.BusiestCount, strings.Join(t.Groups, ", "))),
		)
	}

	_, _ = fmt.Fprintf(w, "%s\n", strings.Repeat("─", 60))
	_, _ = fmt.Fprintf(w, "%sGroups: %d  |  Lessons: %d  |  Teachers: %d\n",
		indent, s.Groups, s.Lessons, len(s.Teachers))
}

// formatOutcome colors a journal outcome.
func formatOutcome(o string) string {
	text := fmt.Sprintf("%-9s", o)
	switch o {
	case journal.OutcomeCommitted:
		return formatStats(text)
	case journal.OutcomeRejected, journal.OutcomeFailed:
		return formatReject(text)
	default:
		return formatMuted(text)
	}
}

// PrintHistory prints journal entries, newest first.
func PrintHistory(w io.Writer, entries []*journal.Entry) {
	for _, e := range entries {
		_, _ = fmt.Fprintf(w, "%s%s #%d %s  %s  %s %s → %s\n",
			indent,
			formatMuted(e.CreatedAt.Format("2006-01-02 15:04:05")),
			e.Seq,
			formatOutcome(e.Outcome),
			e.Group,
			e.LessonID,
			e.From,
			e.To,
		)
		if e.Reason != "" {
			detail := e.Reason
			if e.ConflictingLessonID != "" {
				detail += fmt.Sprintf(" (conflicts with %s)", e.ConflictingLessonID)
			}
			_, _ = fmt.Fprintf(w, "%s    %s\n", indent, formatMuted(detail))
		}
	}
}

// PrintInsightWrapped formats and prints insight text preserving structure.
func PrintInsightWrapped(w io.Writer, text string, width int) {
	// Strip markdown code blocks
	text = stripMarkdownCodeBlocks(text)

	lines := strings.Split(text, "\n")
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			_, _ = fmt.Fprintln(w)
			continue
		}

		// Detect and format special line types
		prefix, content, contentWidth, header := parseInsightLine(trimmed, width)
		if header {
			_, _ = fmt.Fprintln(w)
			_, _ = fmt.Fprintln(w, formatHeader(indent+content))
			continue
		}

		wrapAndPrint(w, content, prefix, contentWidth)
	}
}

// parseInsightLine parses a line and returns formatting info.
// Returns: prefix, content, contentWidth, isHeader
func parseInsightLine(trimmed string, width int) (prefix, content string, contentWidth int, isHeader bool) {
	prefix = indent
	content = trimmed
	contentWidth = width - 2

	switch {
	case strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* "):
		prefix = "    • "
		content = strings.TrimPrefix(strings.TrimPrefix(trimmed, "- "), "* ")
		contentWidth = width - 6

	case strings.HasPrefix(trimmed, "• "):
		prefix = "    • "
		content = strings.TrimPrefix(trimmed, "• ")
		contentWidth = width - 6

	case strings.HasPrefix(trimmed, "#"):
		content = strings.TrimLeft(trimmed, "# ")
		isHeader = true

	case strings.HasPrefix(trimmed, ">"):
		content = strings.TrimPrefix(trimmed, "> ")
		prefix = "  │ "
		contentWidth = width - 4

	case isNumberedItem(trimmed):
		idx := strings.Index(trimmed, ".")
		prefix = indent + trimmed[:idx+1] + " "
		content = strings.TrimSpace(trimmed[idx+1:])
		contentWidth = width - len(prefix)
	}

	return prefix, content, contentWidth, isHeader
}

// isNumberedItem checks if a line starts with a number followed by a period.
func isNumberedItem(s string) bool {
	if len(s) < 3 {
		return false
	}
	if s[0] < '1' || s[0] > '9' {
		return false
	}
	if s[1] == '.' {
		return true
	}
	if s[1] >= '0' && s[1] <= '9' && len(s) > 3 && s[2] == '.' {
		return true
	}
	return false
}

// wrapAndPrint wraps text to width and prints with the given prefix.
func wrapAndPrint(w io.Writer, text, prefix string, width int) {
	words := strings.Fields(text)
	if len(words) == 0 {
		return
	}

	continuation := strings.Repeat(" ", ansi.StringWidth(prefix))
	current := prefix
	line := ""
	for _, word := range words {
		switch {
		case line == "":
			line = word
		case ansi.StringWidth(line)+1+ansi.StringWidth(word) <= width:
			line += " " + word
		default:
			_, _ = fmt.Fprintln(w, formatInsight(current+line))
			current = continuation
			line = word
		}
	}
	_, _ = fmt.Fprintln(w, formatInsight(current+line))
}

// stripMarkdownCodeBlocks removes ```...``` fences from text.
func stripMarkdownCodeBlocks(text string) string {
	lines := strings.Split(text, "\n")
	var result []string
	inCodeBlock := false

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inCodeBlock = !inCodeBlock
			continue // Skip the fence line
		}
		if !inCodeBlock {
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}
