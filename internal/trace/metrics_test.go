package trace

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestSummarizeNilTrace(t *testing.T) {
	if got := Summarize(nil); got != nil {
		t.Errorf("Summarize(nil) = %+v, want nil", got)
	}
}

func TestSummarizeEmptyTrace(t *testing.T) {
	s := Summarize(&Trace{})
	if s == nil {
		t.Fatal("Summarize(&Trace{}) returned nil")
	}
	if s.TotalSteps != 0 {
		t.Errorf("TotalSteps = %d, want 0", s.TotalSteps)
	}
	if len(s.ToolCalls) != 0 {
		t.Errorf("ToolCalls = %v, want empty", s.ToolCalls)
	}
	if len(s.FilesOpened) != 0 || len(s.FilesEdited) != 0 || len(s.FilesRead) != 0 {
		t.Errorf("file sets not empty: opened=%v edited=%v read=%v", s.FilesOpened, s.FilesEdited, s.FilesRead)
	}
	if s.EditPrecision != 0 {
		t.Errorf("EditPrecision = %v, want 0", s.EditPrecision)
	}
	if s.StartTime != nil || s.EndTime != nil || s.DurationSeconds != nil {
		t.Errorf("timestamps not nil: start=%v end=%v duration=%v", s.StartTime, s.EndTime, s.DurationSeconds)
	}
	// Collections must marshal as [] / {}, not null.
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	for _, want := range []string{`"filesOpened":[]`, `"toolCallBreakdown":{}`, `"commands":[]`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("marshalled summary missing %s: %s", want, data)
		}
	}
}

func TestSummarizeReadThenEdit(t *testing.T) {
	tr := &Trace{Events: []Event{
		{Category: "read_file", Path: "a.py"},
		{Category: "edit_file", Path: "a.py"},
	}}
	s := Summarize(tr)

	if s.TotalSteps != 2 {
		t.Errorf("TotalSteps = %d, want 2", s.TotalSteps)
	}
	if !reflect.DeepEqual(s.FilesOpened, []string{"a.py"}) {
		t.Errorf("FilesOpened = %v, want [a.py]", s.FilesOpened)
	}
	if !reflect.DeepEqual(s.FilesEdited, []string{"a.py"}) {
		t.Errorf("FilesEdited = %v, want [a.py]", s.FilesEdited)
	}
	if !reflect.DeepEqual(s.FilesRead, []string{"a.py"}) {
		t.Errorf("FilesRead = %v, want [a.py]", s.FilesRead)
	}
	if s.EditPrecision != 1.0 {
		t.Errorf("EditPrecision = %v, want 1.0", s.EditPrecision)
	}
	if s.ToolCalls["read_file"] != 1 || s.ToolCalls["edit_file"] != 1 {
		t.Errorf("ToolCalls = %v, want one each", s.ToolCalls)
	}
}

func TestSummarizeEditPrecisionBounds(t *testing.T) {
	tests := []struct {
		name   string
		events []Event
		want   float64
	}{
		{
			name:   "no files opened",
			events: []Event{{Category: "thought", Thought: "hm"}},
			want:   0,
		},
		{
			name: "half edited",
			events: []Event{
				{Category: "read_file", Path: "a.py"},
				{Category: "read_file", Path: "b.py"},
				{Category: "edit_file", Path: "a.py"},
			},
			want: 0.5,
		},
		{
			name: "third edited rounds to 2 places",
			events: []Event{
				{Category: "read_file", Path: "a.py"},
				{Category: "read_file", Path: "b.py"},
				{Category: "read_file", Path: "c.py"},
				{Category: "edit_file", Path: "a.py"},
			},
			want: 0.33,
		},
		{
			name: "writes only",
			events: []Event{
				{Category: "write", Path: "new.py"},
			},
			want: 1.0,
		},
		{
			// 1/8 scales to exactly 12.5; the tie rounds to the even
			// neighbor.
			name: "eighth edited rounds tie to even",
			events: []Event{
				{Category: "read_file", Path: "a.py"},
				{Category: "read_file", Path: "b.py"},
				{Category: "read_file", Path: "c.py"},
				{Category: "read_file", Path: "d.py"},
				{Category: "read_file", Path: "e.py"},
				{Category: "read_file", Path: "f.py"},
				{Category: "read_file", Path: "g.py"},
				{Category: "read_file", Path: "h.py"},
				{Category: "edit_file", Path: "a.py"},
			},
			want: 0.12,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Summarize(&Trace{Events: tt.events})
			if s.EditPrecision != tt.want {
				t.Errorf("EditPrecision = %v, want %v", s.EditPrecision, tt.want)
			}
			if s.EditPrecision < 0 || s.EditPrecision > 1 {
				t.Errorf("EditPrecision = %v outside [0, 1]", s.EditPrecision)
			}
		})
	}
}

func TestSummarizeDeterministicOrdering(t *testing.T) {
	tr := &Trace{Events: []Event{
		{Category: "read_file", Path: "z.py"},
		{Category: "read_file", Path: "a.py"},
		{Category: "edit_file", Path: "m.py"},
		{Category: "read_file", Path: "b.py"},
	}}

	first, err := json.Marshal(Summarize(tr))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	second, err := json.Marshal(Summarize(tr))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(first) != string(second) {
		t.Errorf("repeated extraction differs:\n%s\n%s", first, second)
	}

	s := Summarize(tr)
	if !reflect.DeepEqual(s.FilesOpened, []string{"a.py", "b.py", "m.py", "z.py"}) {
		t.Errorf("FilesOpened = %v, want lexicographic order", s.FilesOpened)
	}
}

func TestSummarizeUnknownCategoriesCounted(t *testing.T) {
	tr := &Trace{Events: []Event{
		{Category: "teleport"},
		{Category: "teleport"},
		{Category: "unknown"},
	}}
	s := Summarize(tr)
	if s.ToolCalls["teleport"] != 2 {
		t.Errorf("ToolCalls[teleport] = %d, want 2", s.ToolCalls["teleport"])
	}
	if s.ToolCalls["unknown"] != 1 {
		t.Errorf("ToolCalls[unknown] = %d, want 1", s.ToolCalls["unknown"])
	}
	if s.TotalSteps != 3 {
		t.Errorf("TotalSteps = %d, want 3", s.TotalSteps)
	}
}

func TestSummarizeThoughts(t *testing.T) {
	long := strings.Repeat("x", 300)
	tr := &Trace{Events: []Event{
		{Category: "thought", Thought: "short", Timestamp: "2024-01-15T10:30:00Z"},
		{Category: "add_thought", Thought: long},
		{Category: "thought"}, // content-less, not recorded
	}}
	s := Summarize(tr)

	if len(s.Thoughts) != 2 {
		t.Fatalf("len(Thoughts) = %d, want 2", len(s.Thoughts))
	}
	if s.Thoughts[0].Content != "short" || s.Thoughts[0].Timestamp != "2024-01-15T10:30:00Z" {
		t.Errorf("Thoughts[0] = %+v", s.Thoughts[0])
	}
	if len(s.Thoughts[1].Content) != maxThoughtLen {
		t.Errorf("len(Thoughts[1].Content) = %d, want %d", len(s.Thoughts[1].Content), maxThoughtLen)
	}
	// Content-less thought still counts as a step and a tool call.
	if s.ToolCalls["thought"] != 2 {
		t.Errorf("ToolCalls[thought] = %d, want 2", s.ToolCalls["thought"])
	}
}

func TestSummarizeSearchesAndCommands(t *testing.T) {
	tr := &Trace{Events: []Event{
		{Category: "search", Query: "debounce"},
		{Category: "codebase_search"}, // empty query still recorded
		{Category: "execute_terminal_command", Command: "npm test"},
		{Category: "run_terminal_cmd"}, // empty command still occupies a slot
	}}
	s := Summarize(tr)

	if len(s.Searches) != 2 {
		t.Fatalf("len(Searches) = %d, want 2", len(s.Searches))
	}
	if s.Searches[0].Query != "debounce" {
		t.Errorf("Searches[0].Query = %q, want %q", s.Searches[0].Query, "debounce")
	}
	if !reflect.DeepEqual(s.Commands, []string{"npm test", ""}) {
		t.Errorf("Commands = %v, want [npm test, \"\"]", s.Commands)
	}
}

func TestSummarizeTimestamps(t *testing.T) {
	tests := []struct {
		name         string
		first, last  string
		wantDuration *float64
	}{
		{
			name:         "utc z suffix",
			first:        "2024-01-15T10:30:00Z",
			last:         "2024-01-15T10:35:30Z",
			wantDuration: floatPtr(330),
		},
		{
			name:         "numeric offset",
			first:        "2024-01-15T10:30:00+00:00",
			last:         "2024-01-15T10:30:45+00:00",
			wantDuration: floatPtr(45),
		},
		{
			name:         "no zone",
			first:        "2024-01-15T10:30:00",
			last:         "2024-01-15T10:31:00",
			wantDuration: floatPtr(60),
		},
		{
			name:         "unparsable end",
			first:        "2024-01-15T10:30:00Z",
			last:         "not-a-timestamp",
			wantDuration: nil,
		},
		{
			name:         "missing start",
			first:        "",
			last:         "2024-01-15T10:30:00Z",
			wantDuration: nil,
		},
		{
			name:         "negative span kept signed",
			first:        "2024-01-15T10:35:00Z",
			last:         "2024-01-15T10:30:00Z",
			wantDuration: floatPtr(-300),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := &Trace{Events: []Event{
				{Category: "thought", Thought: "a", Timestamp: tt.first},
				{Category: "thought", Thought: "b", Timestamp: tt.last},
			}}
			s := Summarize(tr)

			if tt.first != "" && (s.StartTime == nil || *s.StartTime != tt.first) {
				t.Errorf("StartTime = %v, want %q", s.StartTime, tt.first)
			}
			if tt.first == "" && s.StartTime != nil {
				t.Errorf("StartTime = %q, want nil", *s.StartTime)
			}
			if tt.wantDuration == nil {
				if s.DurationSeconds != nil {
					t.Errorf("DurationSeconds = %v, want nil", *s.DurationSeconds)
				}
				return
			}
			if s.DurationSeconds == nil {
				t.Fatalf("DurationSeconds = nil, want %v", *tt.wantDuration)
			}
			if *s.DurationSeconds != *tt.wantDuration {
				t.Errorf("DurationSeconds = %v, want %v", *s.DurationSeconds, *tt.wantDuration)
			}
		})
	}
}

func TestSummarizeSequenceOrderNotChronological(t *testing.T) {
	// Start/end come from sequence position, not from sorting timestamps.
	tr := &Trace{Events: []Event{
		{Category: "thought", Thought: "late first", Timestamp: "2024-01-15T12:00:00Z"},
		{Category: "thought", Thought: "early last", Timestamp: "2024-01-15T09:00:00Z"},
	}}
	s := Summarize(tr)
	if s.StartTime == nil || *s.StartTime != "2024-01-15T12:00:00Z" {
		t.Errorf("StartTime = %v, want first event's timestamp", s.StartTime)
	}
	if s.EndTime == nil || *s.EndTime != "2024-01-15T09:00:00Z" {
		t.Errorf("EndTime = %v, want last event's timestamp", s.EndTime)
	}
}

func floatPtr(v float64) *float64 {
	return &v
}
