// Package trace derives flat metrics summaries from recorded benchmark
// trajectories. A trajectory is an ordered sequence of loosely-structured
// action events whose field names vary by producer; decoding normalizes every
// raw event into one canonical Event shape so the counting pass never has to
// consider alternate spellings.
package trace

import (
	"encoding/json"
	"fmt"
)

// Trace is one recorded trajectory (ideal or failed) loaded from a task
// directory.
type Trace struct {
	Description string
	TaskIssue   string
	Tags        map[string]interface{}
	Failure     FailureNotes
	Events      []Event
}

// FailureNotes carries the annotator's assessment attached to a failed
// trajectory document.
type FailureNotes struct {
	Consequence  string
	IssuesMissed []string
}

// Event is the canonical form of one recorded action. The category is an
// opaque label; previously-unseen categories are counted like any other.
type Event struct {
	Category  string
	Path      string
	Thought   string
	Query     string
	Results   interface{}
	Command   string
	Timestamp string
}

// Decode parses a trajectory document. Only a document that is not a JSON
// object is an error; every field below the top level degrades to its zero
// value when missing or of an unexpected type.
func Decode(data []byte) (*Trace, error) {
	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing trajectory: %w", err)
	}
	return FromDocument(doc), nil
}

// FromDocument builds a Trace from an already-decoded trajectory document.
// A nil document yields a nil trace (artifact absent).
func FromDocument(doc map[string]interface{}) *Trace {
	if doc == nil {
		return nil
	}

	t := &Trace{
		Description: stringValue(doc["description"]),
		TaskIssue:   stringValue(doc["taskIssue"]),
		Tags:        mapValue(doc["tags"]),
	}
	if failure := mapValue(doc["failureAnalysis"]); failure != nil {
		t.Failure.Consequence = stringValue(failure["consequence"])
		t.Failure.IssuesMissed = stringSlice(failure["issuesMissed"])
	}

	raw, ok := doc["annotationTrace"].([]interface{})
	if !ok {
		return t
	}
	t.Events = make([]Event, 0, len(raw))
	for _, item := range raw {
		t.Events = append(t.Events, normalizeEvent(mapValue(item)))
	}
	return t
}

// normalizeEvent resolves each logical field through its known alternate
// spellings. Producers disagree on where payloads live (path vs. details.file,
// content vs. thought, cmd vs. command vs. details.command), so the resolution
// happens here once instead of at every use site.
func normalizeEvent(raw map[string]interface{}) Event {
	details := mapValue(raw["details"])

	ev := Event{
		Category:  "unknown",
		Timestamp: stringValue(raw["timestamp"]),
	}
	if c := stringValue(raw["type"]); c != "" {
		ev.Category = c
	} else if c := stringValue(raw["action"]); c != "" {
		ev.Category = c
	}

	ev.Path = firstString(raw["path"], details["file"])
	ev.Thought = firstString(raw["content"], raw["thought"])
	ev.Query = firstString(raw["query"], details["searchKey"])
	ev.Command = firstString(raw["cmd"], raw["command"], details["command"])

	ev.Results = raw["results"]
	if !truthy(ev.Results) {
		ev.Results = details["results"]
	}

	return ev
}

func stringValue(v interface{}) string {
	s, _ := v.(string)
	return s
}

func mapValue(v interface{}) map[string]interface{} {
	m, _ := v.(map[string]interface{})
	return m
}

// firstString returns the first non-empty string among the candidates.
func firstString(candidates ...interface{}) string {
	for _, v := range candidates {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func stringSlice(v interface{}) []string {
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// truthy reports whether a raw JSON value counts as present: nil, empty
// strings, zero numbers, and empty collections do not.
func truthy(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case bool:
		return val
	case float64:
		return val != 0
	case []interface{}:
		return len(val) > 0
	case map[string]interface{}:
		return len(val) > 0
	default:
		return true
	}
}
