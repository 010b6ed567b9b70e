// Package export renders a schedule as an .xlsx workbook without the solver service.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/javiermolinar/horario/internal/timetable"
)

const (
	defaultSheet  = "Sheet1"
	maxSheetName  = 31
	emptyCellText = "--"
)

// ErrEmptyDir is returned by Save when no directory is given.
var ErrEmptyDir = errors.New("export directory is empty")

// Workbook renders one schedule as a single-sheet workbook: a title row, a header row
// with one column per timeslot, and one row per day.
func Workbook(s timetable.Schedule) (*bytes.Buffer, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := SheetName(s.StudentGroupName)
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if !strings.EqualFold(sheet, defaultSheet) {
		if err := f.DeleteSheet(defaultSheet); err != nil {
			return nil, fmt.Errorf("removing default sheet: %w", err)
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 14)
	lastCol := colName(len(s.Timeslots))
	_ = f.SetColWidth(sheet, "B", lastCol, 22)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DCE6F1"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("creating header style: %w", err)
	}
	cellStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	})
	if err != nil {
		return nil, fmt.Errorf("creating cell style: %w", err)
	}

	// Title
	_ = f.SetCellValue(sheet, "A1", s.StudentGroupName)
	_ = f.MergeCell(sheet, "A1", cell(lastCol, 1))
	_ = f.SetCellStyle(sheet, "A1", "A1", headerStyle)

	// Header
	_ = f.SetCellValue(sheet, "A2", "Day")
	for i, slot := range s.Timeslots {
		_ = f.SetCellValue(sheet, cell(colName(i+1), 2), slot)
	}
	_ = f.SetCellStyle(sheet, "A2", cell(lastCol, 2), headerStyle)

	// Days
	grid := timetable.NewGrid(s)
	for d, day := range s.Days {
		row := d + 3
		_ = f.SetCellValue(sheet, cell("A", row), day)
		for t := range s.Timeslots {
			text := emptyCellText
			if l, ok := grid.At(d, t); ok {
				text = CellText(l)
			}
			_ = f.SetCellValue(sheet, cell(colName(t+1), row), text)
		}
		_ = f.SetRowHeight(sheet, row, 32)
	}
	if len(s.Days) > 0 {
		_ = f.SetCellStyle(sheet, "B3", cell(lastCol, len(s.Days)+2), cellStyle)
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf, nil
}

// Save writes data under dir using the schedule's export filename and returns the path.
func Save(dir string, s timetable.Schedule, data []byte) (string, error) {
	if strings.TrimSpace(dir) == "" {
		return "", ErrEmptyDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}
	path := filepath.Join(dir, timetable.ExportFilename(s))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing export: %w", err)
	}
	return path, nil
}

// CellText is the two-line text of a lesson cell.
func CellText(l timetable.Lesson) string {
	if l.Teacher == "" {
		return l.Subject
	}
	return l.Subject + "\n" + l.Teacher
}

// SheetName makes a group name acceptable as a worksheet name.
func SheetName(group string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return -1
		}
		return r
	}, group)
	if r := []rune(name); len(r) > maxSheetName {
		name = string(r[:maxSheetName])
	}
	name = strings.Trim(strings.TrimSpace(name), "'")
	if name == "" {
		name = "Timetable"
	}
	return name
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
