// Package enrich merges the extractors' outputs with a task's base record
// into one enriched metrics document. The merge is shallow: keys the engine
// does not compute pass through from the base record untouched, the derived
// default sections (taskGoal, tags) apply only when the base record omits
// them, and the six computed metric sections always reflect the current
// inputs.
package enrich

import (
	"github.com/couloir/tasklens/internal/patch"
	"github.com/couloir/tasklens/internal/testlog"
	"github.com/couloir/tasklens/internal/trace"
)

// Plan-adherence scores are fixed placeholders, not derived from any input:
// the ideal trajectory is scored fully on-plan, the failed one half.
const (
	idealPlanAdherence  = 1.0
	failedPlanAdherence = 0.5
)

// Logs holds the raw test-runner console output for one task. The pre-patch
// failure log is part of the artifact set but no section consumes it yet.
type Logs struct {
	PreTests     string
	PrePatchFail string
	PostPatch    string
}

// Result carries the merged document together with the intermediate
// summaries, so callers that index or report on a run do not re-extract.
type Result struct {
	Document  map[string]interface{}
	Ideal     *trace.Summary
	Failed    *trace.Summary
	Patch     patch.Summary
	PreTests  testlog.Summary
	PostPatch testlog.Summary
	Analysis  *trace.FailureAnalysis
}

// Enrich runs the four extractors over one task's artifacts and merges their
// outputs into the base record. It is total: absent traces, empty patches,
// and unmatched logs all degrade to zero-valued sections.
func Enrich(base map[string]interface{}, ideal, failed *trace.Trace, fixPatch string, logs Logs) *Result {
	idealSum := trace.Summarize(ideal)
	failedSum := trace.Summarize(failed)
	diff := patch.Analyze(fixPatch)
	pre := testlog.Parse(logs.PreTests)
	post := testlog.Parse(logs.PostPatch)
	analysis := trace.Compare(idealSum, failedSum)

	is := idealSum
	if is == nil {
		is = emptyTraceSummary()
	}
	fs := failedSum
	if fs == nil {
		fs = emptyTraceSummary()
	}

	doc := make(map[string]interface{}, len(base)+8)
	for k, v := range base {
		doc[k] = v
	}

	if _, ok := doc["taskGoal"]; !ok {
		doc["taskGoal"] = buildTaskGoal(ideal)
	}
	doc["failureModeAnalysis"] = buildFailureMode(base, failed)
	doc["stepLevelMetrics"] = buildStepLevelMetrics(base, is, fs)
	doc["diffSemantics"] = buildDiffSemantics(diff)
	doc["testExecution"] = buildTestExecution(pre, post)
	doc["navigationMetrics"] = buildNavigationMetrics(is, fs, analysis)
	doc["planAndMemorySignals"] = buildPlanSignals(is, fs)
	if _, ok := doc["tags"]; !ok {
		doc["tags"] = traceTags(ideal)
	}

	return &Result{
		Document:  doc,
		Ideal:     idealSum,
		Failed:    failedSum,
		Patch:     diff,
		PreTests:  pre,
		PostPatch: post,
		Analysis:  analysis,
	}
}

func buildTaskGoal(ideal *trace.Trace) TaskGoal {
	var g TaskGoal
	if ideal != nil {
		g.Summary = ideal.Description
		g.ProblemStatement = ideal.TaskIssue
	}
	return g
}

func buildFailureMode(base map[string]interface{}, failed *trace.Trace) FailureMode {
	f := FailureMode{
		FailureType:  "Unknown",
		IssuesMissed: []string{},
	}
	if raw, ok := base["failure"]; ok {
		if s, isString := raw.(string); isString {
			f.FailureType = s
		}
	}
	if failed != nil {
		if s, ok := failed.Tags["failureMode"].(string); ok {
			f.FailureCategory = s
		}
		f.Consequence = failed.Failure.Consequence
		if failed.Failure.IssuesMissed != nil {
			f.IssuesMissed = failed.Failure.IssuesMissed
		}
	}
	return f
}

func buildStepLevelMetrics(base map[string]interface{}, ideal, failed *trace.Summary) StepLevelMetrics {
	input := numberValue(base["inputTokens"])
	output := numberValue(base["outputTokens"])

	return StepLevelMetrics{
		TotalSteps: TrajectoryCounts{
			Ideal:  ideal.TotalSteps,
			Failed: failed.TotalSteps,
		},
		ToolCallBreakdown: TrajectoryBreakdown{
			Ideal:  ideal.ToolCalls,
			Failed: failed.ToolCalls,
		},
		WallTime: WallTimePair{
			Ideal:  wallTime(ideal),
			Failed: wallTime(failed),
		},
		TokenCounts: TokenCounts{
			InputTokens:  input,
			OutputTokens: output,
			TotalTokens:  input + output,
		},
	}
}

func wallTime(s *trace.Summary) WallTime {
	return WallTime{
		StartTime:       s.StartTime,
		EndTime:         s.EndTime,
		DurationSeconds: s.DurationSeconds,
	}
}

func buildDiffSemantics(diff patch.Summary) DiffSemantics {
	return DiffSemantics{
		Summary: diff,
		PublicAPIChanges: PublicAPIChanges{
			Added:    []string{},
			Modified: []string{},
			Removed:  []string{},
		},
	}
}

func buildTestExecution(pre, post testlog.Summary) TestExecution {
	hasTests := pre.TotalTests > 0
	testType := "manual_visual"
	if hasTests {
		testType = "automated"
	}
	return TestExecution{
		HasAutomatedTests:    hasTests,
		TestType:             testType,
		PreTestStatus:        pre,
		PostPatchStatus:      post,
		FlakyTests:           []string{},
		TopFailingTracebacks: []string{},
	}
}

func buildNavigationMetrics(ideal, failed *trace.Summary, analysis *trace.FailureAnalysis) NavigationMetrics {
	nav := NavigationMetrics{
		Ideal: trajectoryNavigation(ideal),
		Failed: FailedTrajectoryNavigation{
			TrajectoryNavigation: trajectoryNavigation(failed),
			MissedFiles:          []string{},
		},
	}
	if analysis != nil {
		nav.Failed.UnnecessaryFileModifications = analysis.UnnecessaryFiles
		nav.Failed.MissedFiles = analysis.MissedFiles
	}
	return nav
}

func trajectoryNavigation(s *trace.Summary) TrajectoryNavigation {
	return TrajectoryNavigation{
		FilesOpened:                  len(s.FilesOpened),
		FilesEdited:                  len(s.FilesEdited),
		EditPrecision:                s.EditPrecision,
		FilesOpenedList:              s.FilesOpened,
		FilesEditedList:              s.FilesEdited,
		UnnecessaryFileModifications: []string{},
	}
}

func buildPlanSignals(ideal, failed *trace.Summary) PlanAndMemorySignals {
	return PlanAndMemorySignals{
		Ideal: PlanSignals{
			ThoughtActionsCount:        len(ideal.Thoughts),
			PlanAdherence:              idealPlanAdherence,
			VerificationStepsCompleted: true,
		},
		Failed: PlanSignals{
			ThoughtActionsCount:        len(failed.Thoughts),
			PlanAdherence:              failedPlanAdherence,
			VerificationStepsCompleted: false,
		},
	}
}

func traceTags(ideal *trace.Trace) map[string]interface{} {
	if ideal != nil && ideal.Tags != nil {
		return ideal.Tags
	}
	return map[string]interface{}{}
}

// emptyTraceSummary stands in for an absent trajectory so section building
// stays nil-free and collections marshal as [] / {} rather than null.
func emptyTraceSummary() *trace.Summary {
	return &trace.Summary{
		ToolCalls:   map[string]int{},
		FilesOpened: []string{},
		FilesEdited: []string{},
		FilesRead:   []string{},
		Thoughts:    []trace.Thought{},
		Searches:    []trace.Search{},
		Commands:    []string{},
	}
}

func numberValue(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	}
	return 0
}
