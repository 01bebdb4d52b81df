package trace

import (
	"math"
	"sort"
	"time"
)

// maxThoughtLen bounds captured thought snippets.
const maxThoughtLen = 200

// Category classification sets. Anything outside these sets still lands in
// the tool-call breakdown under its own name; it just drives no other metric.
var (
	readCategories = map[string]bool{
		"read_file": true,
		"open_file": true,
	}
	writeCategories = map[string]bool{
		"edit_file":             true,
		"find_and_replace_code": true,
		"search_replace":        true,
		"write":                 true,
	}
	thoughtCategories = map[string]bool{
		"thought":     true,
		"add_thought": true,
	}
	searchCategories = map[string]bool{
		"search":          true,
		"search_string":   true,
		"codebase_search": true,
	}
	commandCategories = map[string]bool{
		"execute_terminal_command": true,
		"command":                  true,
		"run_terminal_cmd":         true,
	}
)

// Thought is one captured reasoning snippet.
type Thought struct {
	Timestamp string `json:"timestamp"`
	Content   string `json:"content"`
}

// Search is one captured search action with whatever results payload the
// producer attached, passed through unvalidated.
type Search struct {
	Query   string      `json:"query"`
	Results interface{} `json:"results"`
}

// Summary is the flat metrics record derived from one trace. Path collections
// are sorted so repeated extraction over the same trace is byte-identical.
type Summary struct {
	TotalSteps      int            `json:"totalSteps"`
	ToolCalls       map[string]int `json:"toolCallBreakdown"`
	FilesOpened     []string       `json:"filesOpened"`
	FilesEdited     []string       `json:"filesEdited"`
	FilesRead       []string       `json:"filesRead"`
	Thoughts        []Thought      `json:"thoughts"`
	Searches        []Search       `json:"searches"`
	Commands        []string       `json:"commands"`
	StartTime       *string        `json:"startTime"`
	EndTime         *string        `json:"endTime"`
	DurationSeconds *float64       `json:"durationSeconds"`
	EditPrecision   float64        `json:"editPrecision"`
}

// Summarize runs a single counting pass over the trace's events. It is total:
// a malformed field degrades that one datum to its zero value and the pass
// continues. A nil trace yields a nil summary.
func Summarize(t *Trace) *Summary {
	if t == nil {
		return nil
	}

	s := &Summary{
		TotalSteps:  len(t.Events),
		ToolCalls:   make(map[string]int),
		FilesOpened: []string{},
		FilesEdited: []string{},
		FilesRead:   []string{},
		Thoughts:    []Thought{},
		Searches:    []Search{},
		Commands:    []string{},
	}

	opened := make(map[string]bool)
	edited := make(map[string]bool)
	read := make(map[string]bool)

	for _, ev := range t.Events {
		s.ToolCalls[ev.Category]++

		switch {
		case readCategories[ev.Category]:
			if ev.Path != "" {
				opened[ev.Path] = true
				read[ev.Path] = true
			}
		case writeCategories[ev.Category]:
			// Editing implies having had the file open.
			if ev.Path != "" {
				opened[ev.Path] = true
				edited[ev.Path] = true
			}
		case thoughtCategories[ev.Category]:
			if ev.Thought != "" {
				s.Thoughts = append(s.Thoughts, Thought{
					Timestamp: ev.Timestamp,
					Content:   truncate(ev.Thought, maxThoughtLen),
				})
			}
		case searchCategories[ev.Category]:
			results := ev.Results
			if results == nil {
				results = []interface{}{}
			}
			s.Searches = append(s.Searches, Search{Query: ev.Query, Results: results})
		case commandCategories[ev.Category]:
			// A command event occupies a slot even when no command string survived.
			s.Commands = append(s.Commands, ev.Command)
		}
	}

	s.FilesOpened = sortedKeys(opened)
	s.FilesEdited = sortedKeys(edited)
	s.FilesRead = sortedKeys(read)

	if len(t.Events) > 0 {
		if first := t.Events[0].Timestamp; first != "" {
			s.StartTime = &first
		}
		if last := t.Events[len(t.Events)-1].Timestamp; last != "" {
			s.EndTime = &last
		}
		s.DurationSeconds = elapsedSeconds(s.StartTime, s.EndTime)
	}

	if len(opened) > 0 {
		s.EditPrecision = round2(float64(len(edited)) / float64(len(opened)))
	}

	return s
}

// instantLayouts are tried in order: RFC 3339 covers producers that record a
// Z suffix or numeric offset, the bare layout covers zone-less timestamps.
var instantLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// elapsedSeconds computes the signed span between two ISO-8601 instants.
// Missing or unparsable timestamps yield nil, never an error.
func elapsedSeconds(start, end *string) *float64 {
	if start == nil || end == nil {
		return nil
	}
	from, err := parseInstant(*start)
	if err != nil {
		return nil
	}
	to, err := parseInstant(*end)
	if err != nil {
		return nil
	}
	secs := to.Sub(from).Seconds()
	return &secs
}

func parseInstant(value string) (time.Time, error) {
	var firstErr error
	for _, layout := range instantLayouts {
		ts, err := time.Parse(layout, value)
		if err == nil {
			return ts, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// round2 rounds to two decimal places, ties to even.
func round2(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}

// truncate cuts a string to at most max characters, respecting rune
// boundaries.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
