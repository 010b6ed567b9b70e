package llm

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/javiermolinar/horario/internal/timetable"
)

const evaluatorSystemPrompt = `You review school timetables for teacher workload balance. Reply with JSON only.`

const userPromptTemplate = `Review how lessons are spread across the week for each teacher.

Reply with exactly this JSON shape:
{"headline": "4-8 words", "observations": ["..."], "suggestions": ["..."]}

Rules:
- At most 3 observations and 3 suggestions, each under 80 characters
- Name teachers, days and groups from the data
- Point out days with many lessons for one teacher and days with none
- If the load is balanced, say so and leave suggestions empty

Lessons per teacher (day: count, groups):
%s`

// ErrEmptyTimetable is returned when there is nothing to evaluate.
var ErrEmptyTimetable = errors.New("timetable has no lessons")

// Insight is the evaluator's structured reply.
type Insight struct {
	Headline     string   `json:"headline"`
	Observations []string `json:"observations"`
	Suggestions  []string `json:"suggestions"`
}

// String renders the insight as plain text.
func (i Insight) String() string {
	var sb strings.Builder
	sb.WriteString(i.Headline)
	for _, o := range i.Observations {
		sb.WriteString("\n• ")
		sb.WriteString(o)
	}
	if len(i.Suggestions) > 0 {
		sb.WriteString("\n")
		for _, s := range i.Suggestions {
			sb.WriteString("\n➜  ")
			sb.WriteString(s)
		}
	}
	return sb.String()
}

// Evaluator asks an LLM for a workload insight on a timetable.
type Evaluator struct {
	client Client
}

// NewEvaluator creates a new Evaluator with the given LLM client.
func NewEvaluator(client Client) *Evaluator {
	return &Evaluator{client: client}
}

// EvaluateTimetable sends per-teacher load data to the LLM.
func (e *Evaluator) EvaluateTimetable(ctx context.Context, c timetable.Collection) (*Insight, error) {
	data := formatLoad(c)
	if data == "" {
		return nil, ErrEmptyTimetable
	}

	var insight Insight
	err := e.client.ChatJSON(ctx, []Message{
		{Role: RoleSystem, Content: evaluatorSystemPrompt},
		{Role: RoleUser, Content: fmt.Sprintf(userPromptTemplate, data)},
	}, &insight)
	if err != nil {
		return nil, fmt.Errorf("evaluating timetable: %w", err)
	}
	return &insight, nil
}

// formatLoad lists, per teacher, the lesson count and groups for each day.
//
//	J. Smith
//	  Monday: 2 (Grade 9A, Grade 10B)
func formatLoad(c timetable.Collection) string {
	type dayLoad struct {
		count  int
		groups map[string]bool
	}
	load := make(map[string]map[string]*dayLoad)
	var dayOrder []string
	seenDay := make(map[string]bool)

	for _, s := range c {
		for _, d := range s.Days {
			if !seenDay[d] {
				seenDay[d] = true
				dayOrder = append(dayOrder, d)
			}
		}
		for _, l := range s.ScheduledLessons {
			if l.Teacher == "" {
				continue
			}
			days, ok := load[l.Teacher]
			if !ok {
				days = make(map[string]*dayLoad)
				load[l.Teacher] = days
			}
			dl, ok := days[l.Day]
			if !ok {
				dl = &dayLoad{groups: make(map[string]bool)}
				days[l.Day] = dl
			}
			dl.count++
			dl.groups[s.StudentGroupName] = true
		}
	}

	teachers := make([]string, 0, len(load))
	for name := range load {
		teachers = append(teachers, name)
	}
	sort.Strings(teachers)

	var sb strings.Builder
	for _, name := range teachers {
		sb.WriteString(name)
		sb.WriteString("\n")
		for _, day := range dayOrder {
			dl, ok := load[name][day]
			if !ok {
				fmt.Fprintf(&sb, "  %s: 0\n", day)
				continue
			}
			groups := make([]string, 0, len(dl.groups))
			for g := range dl.groups {
				groups = append(groups, g)
			}
			sort.Strings(groups)
			fmt.Fprintf(&sb, "  %s: %d (%s)\n", day, dl.count, strings.Join(groups, ", "))
		}
	}
	return sb.String()
}
