// Package patch derives change metrics from unified-diff text. It counts
// rather than parses: file boundaries and line changes come from marker
// prefixes, and the changed-symbol list is a keyword heuristic, not a
// language-aware diff.
package patch

import (
	"regexp"
	"strings"
)

// maxKeyChanges caps the heuristic symbol list.
const maxKeyChanges = 10

var (
	// fileBoundaryPattern marks the start of one file's diff section.
	// Example: "diff --git a/src/app.ts b/src/app.ts"
	fileBoundaryPattern = regexp.MustCompile(`(?m)^diff --git `)

	// modifiedFilePattern captures the "before" path from a boundary line.
	modifiedFilePattern = regexp.MustCompile(`diff --git a/(.*?) b/`)

	// newFilePattern captures the "after" path from a file header line,
	// used to attribute symbol matches to the right file.
	// Example: "+++ b/src/app.ts"
	newFilePattern = regexp.MustCompile(`^\+\+\+ b/(.*)`)

	// functionPattern matches function-like declarations across the
	// languages that show up in benchmark patches.
	// Example: "+export function handleSubmit(e) {"
	functionPattern = regexp.MustCompile(`(?:function|def|fn|const|let|var)\s+(\w+)`)

	// classPattern matches class/type-like declarations.
	// Example: "+class ThrottleQueue:"
	classPattern = regexp.MustCompile(`(?:class|interface|type)\s+(\w+)`)
)

// KeyChange is one heuristically-detected symbol change.
type KeyChange struct {
	File   string `json:"file"`
	Symbol string `json:"symbol"`
	Kind   string `json:"kind"`
}

// Summary holds the metrics derived from one diff.
type Summary struct {
	FilesChanged  int         `json:"filesChanged"`
	LinesAdded    int         `json:"linesAdded"`
	LinesRemoved  int         `json:"linesRemoved"`
	ModifiedFiles []string    `json:"modifiedFiles"`
	KeyChanges    []KeyChange `json:"keyChanges"`
}

// Analyze scans unified-diff text. It is total: empty or malformed input
// yields an all-empty summary. The KeyChanges list is best-effort; false
// positives and negatives are expected and must not be treated as an
// authoritative change list.
func Analyze(diffText string) Summary {
	s := Summary{
		ModifiedFiles: []string{},
		KeyChanges:    []KeyChange{},
	}
	if diffText == "" {
		return s
	}

	s.FilesChanged = len(fileBoundaryPattern.FindAllString(diffText, -1))

	// Order of first appearance, not deduplicated.
	for _, m := range modifiedFilePattern.FindAllStringSubmatch(diffText, -1) {
		s.ModifiedFiles = append(s.ModifiedFiles, m[1])
	}

	var changes []KeyChange
	currentFile := ""
	for _, line := range strings.Split(diffText, "\n") {
		if m := newFilePattern.FindStringSubmatch(line); m != nil {
			currentFile = m[1]
			continue
		}

		// File header lines share the content markers' leading character, so
		// the longer header prefix is checked first.
		added := strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "+++")
		removed := strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "---")
		if added {
			s.LinesAdded++
		}
		if removed {
			s.LinesRemoved++
		}
		if !added && !removed {
			continue
		}

		if m := functionPattern.FindStringSubmatch(line); m != nil && currentFile != "" {
			changes = append(changes, KeyChange{File: currentFile, Symbol: m[1], Kind: "function"})
		}
		if m := classPattern.FindStringSubmatch(line); m != nil && currentFile != "" {
			changes = append(changes, KeyChange{File: currentFile, Symbol: m[1], Kind: "class"})
		}
	}

	s.KeyChanges = dedupeChanges(changes)
	return s
}

// dedupeChanges keeps the first occurrence per (file, symbol) pair and caps
// the result at maxKeyChanges.
func dedupeChanges(changes []KeyChange) []KeyChange {
	seen := make(map[string]bool, len(changes))
	unique := []KeyChange{}
	for _, c := range changes {
		key := c.File + "\x00" + c.Symbol
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, c)
	}
	if len(unique) > maxKeyChanges {
		unique = unique[:maxKeyChanges]
	}
	return unique
}
