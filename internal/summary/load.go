// Package summary computes per-teacher workload statistics for a timetable.
package summary

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/javiermolinar/horario/internal/llm"
	"github.com/javiermolinar/horario/internal/timetable"
)

// TeacherLoad is one teacher's week.
type TeacherLoad struct {
	Name         string
	Lessons      int
	PerDay       map[string]int
	Groups       []string
	BusiestDay   string
	BusiestCount int
}

// Summary holds aggregated timetable data and optional insight.
type Summary struct {
	Groups   int
	Lessons  int
	Days     []string
	Teachers []TeacherLoad
	Insight  string
}

// BuildOptions configures Build.
type BuildOptions struct {
	IncludeInsight bool
	Provider       string
	Model          string
	BaseURL        string

	// Client overrides the provider settings when set.
	Client llm.Client
}

// Summarize counts lessons per teacher and day. Teachers are sorted by name; days
// follow the order they first appear on the schedules' axes.
func Summarize(c timetable.Collection) *Summary {
	s := &Summary{Groups: len(c)}

	seenDay := make(map[string]bool)
	for _, sched := range c {
		for _, d := range sched.Days {
			if !seenDay[d] {
				seenDay[d] = true
				s.Days = append(s.Days, d)
			}
		}
	}

	byName := make(map[string]*TeacherLoad)
	groups := make(map[string]map[string]bool)
	for _, sched := range c {
		for _, l := range sched.ScheduledLessons {
			s.Lessons++
			if l.Teacher == "" {
				continue
			}
			tl, ok := byName[l.Teacher]
			if !ok {
				tl = &TeacherLoad{Name: l.Teacher, PerDay: make(map[string]int)}
				byName[l.Teacher] = tl
				groups[l.Teacher] = make(map[string]bool)
			}
			tl.Lessons++
			tl.PerDay[l.Day]++
			groups[l.Teacher][sched.StudentGroupName] = true
		}
	}

	for name, tl := range byName {
		for g := range groups[name] {
			tl.Groups = append(tl.Groups, g)
		}
		sort.Strings(tl.Groups)
		tl.BusiestDay, tl.BusiestCount = busiest(tl.PerDay, s.Days)
		s.Teachers = append(s.Teachers, *tl)
	}
	sort.Slice(s.Teachers, func(i, j int) bool {
		return s.Teachers[i].Name < s.Teachers[j].Name
	})

	return s
}

// busiest picks the day with the most lessons; ties go to the earlier day on the axis,
// and days off the axis come last in name order.
func busiest(perDay map[string]int, axis []string) (string, int) {
	order := append([]string{}, axis...)
	var extra []string
	for d := range perDay {
		if !contains(axis, d) {
			extra = append(extra, d)
		}
	}
	sort.Strings(extra)
	order = append(order, extra...)

	day, count := "", 0
	for _, d := range order {
		if perDay[d] > count {
			day, count = d, perDay[d]
		}
	}
	return day, count
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

// Build summarizes the collection and optionally adds an LLM insight.
func Build(ctx context.Context, c timetable.Collection, opts BuildOptions) (*Summary, error) {
	summary := Summarize(c)

	if opts.IncludeInsight && summary.Lessons > 0 {
		client := opts.Client
		if client == nil {
			if opts.Model == "" {
				return nil, errors.New("model is required for insight")
			}
			var err error
			client, err = llm.NewClient(opts.Provider, opts.Model, opts.BaseURL)
			if err != nil {
				return nil, fmt.Errorf("creating LLM client: %w", err)
			}
		}

		insight, err := llm.NewEvaluator(client).EvaluateTimetable(ctx, c)
		if err != nil {
			return nil, err
		}
		summary.Insight = insight.String()
	}

	return summary, nil
}
