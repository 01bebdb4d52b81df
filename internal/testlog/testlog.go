// Package testlog extracts pass/fail counts, coverage, and duration from
// free-form test-runner console output. Known output dialects are pattern
// searches, not grammars: each dialect that matches contributes only the
// fields it targets, and input matching no dialect yields the zero summary.
package testlog

import (
	"regexp"
	"strconv"
)

var (
	// vitestFilesPattern matches the vitest file tally.
	// Example: "Test Files  3 passed | 1 skipped (4)"
	vitestFilesPattern = regexp.MustCompile(`Test Files\s+(\d+)\s+passed.*?\|\s*(\d+)\s+skipped`)

	// vitestTestsPattern matches the vitest per-test tally.
	// Example: "Tests  42 passed | 2 skipped (44)"
	vitestTestsPattern = regexp.MustCompile(`Tests\s+(\d+)\s+passed.*?\|\s*(\d+)\s+skipped`)

	// jestPattern matches the jest summary line.
	// Example: "Tests: 8 passed, 10 total"
	jestPattern = regexp.MustCompile(`Tests:\s+(\d+)\s+passed,\s+(\d+)\s+total`)

	// coveragePattern matches the istanbul-style coverage table row.
	// Example: "Statements   : 87.5% ( 35/40 )"
	coveragePattern = regexp.MustCompile(`Statements\s+:\s+([\d.]+)%`)

	// durationPattern matches a total-duration line.
	// Example: "Duration  3.42s"
	durationPattern = regexp.MustCompile(`Duration\s+([\d.]+)s`)
)

// Summary holds whatever the known dialects could extract from one log.
type Summary struct {
	TotalTests      int      `json:"totalTests"`
	Passed          int      `json:"passed"`
	Failed          int      `json:"failed"`
	Skipped         int      `json:"skipped"`
	Coverage        *float64 `json:"coverage"`
	DurationSeconds *float64 `json:"duration"`
}

// Parse scans test-runner console output. It is total: missing or empty input
// and unmatched dialects leave fields at their zero/null defaults. Dialects
// are independent; one log can legitimately feed several of them.
func Parse(logText string) Summary {
	var s Summary
	if logText == "" {
		return s
	}

	if m := vitestFilesPattern.FindStringSubmatch(logText); m != nil {
		s.Passed = atoi(m[1])
		s.Skipped = atoi(m[2])
	}
	if m := vitestTestsPattern.FindStringSubmatch(logText); m != nil {
		s.TotalTests = atoi(m[1]) + atoi(m[2])
	}
	if m := jestPattern.FindStringSubmatch(logText); m != nil {
		s.Passed = atoi(m[1])
		s.TotalTests = atoi(m[2])
	}
	if m := coveragePattern.FindStringSubmatch(logText); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			s.Coverage = &v
		}
	}
	if m := durationPattern.FindStringSubmatch(logText); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			s.DurationSeconds = &v
		}
	}

	return s
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
