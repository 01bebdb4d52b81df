package enrich

import (
	"github.com/couloir/tasklens/internal/patch"
	"github.com/couloir/tasklens/internal/testlog"
)

// TaskGoal is the engine's default goal section, used only when the base
// record does not already carry one.
type TaskGoal struct {
	Summary          string `json:"summary"`
	ProblemStatement string `json:"problemStatement"`
	ExpectedOutcome  string `json:"expectedOutcome"`
}

// FailureMode collects the failure signals attached to the failed trajectory
// and the base record. FailureDescription and RootCause are fixed slots in
// the document layout; no extractor fills them.
type FailureMode struct {
	FailureType        string   `json:"failureType"`
	FailureCategory    string   `json:"failureCategory"`
	FailureDescription string   `json:"failureDescription"`
	RootCause          string   `json:"rootCause"`
	Consequence        string   `json:"consequence"`
	IssuesMissed       []string `json:"issuesMissed"`
}

// TrajectoryCounts pairs one integer metric across both trajectories.
type TrajectoryCounts struct {
	Ideal  int `json:"idealTrajectory"`
	Failed int `json:"failedTrajectory"`
}

// TrajectoryBreakdown pairs the per-category tool-call counts across both
// trajectories. The key sets are open: categories appear as produced.
type TrajectoryBreakdown struct {
	Ideal  map[string]int `json:"idealTrajectory"`
	Failed map[string]int `json:"failedTrajectory"`
}

// WallTime is the raw timing envelope of one trajectory.
type WallTime struct {
	StartTime       *string  `json:"startTime"`
	EndTime         *string  `json:"endTime"`
	DurationSeconds *float64 `json:"durationSeconds"`
}

// WallTimePair holds both trajectories' timing envelopes.
type WallTimePair struct {
	Ideal  WallTime `json:"idealTrajectory"`
	Failed WallTime `json:"failedTrajectory"`
}

// TokenCounts carries the base record's token accounting forward.
type TokenCounts struct {
	InputTokens  float64 `json:"inputTokens"`
	OutputTokens float64 `json:"outputTokens"`
	TotalTokens  float64 `json:"totalTokens"`
}

// StepLevelMetrics is the per-step metrics section.
type StepLevelMetrics struct {
	TotalSteps        TrajectoryCounts    `json:"totalSteps"`
	ToolCallBreakdown TrajectoryBreakdown `json:"toolCallBreakdown"`
	WallTime          WallTimePair        `json:"wallTime"`
	TokenCounts       TokenCounts         `json:"tokenCounts"`
}

// PublicAPIChanges is the symbol-level API change slot of the diff section.
// All three lists marshal empty: the regex symbol heuristic reports under
// KeyChanges only and is never promoted into an API change claim.
type PublicAPIChanges struct {
	Added    []string `json:"added"`
	Modified []string `json:"modified"`
	Removed  []string `json:"removed"`
}

// DiffSemantics is the patch section: the analyzer's summary plus the
// heuristic tag.
type DiffSemantics struct {
	patch.Summary
	PublicAPIChanges PublicAPIChanges `json:"publicAPIChanges"`
}

// TestExecution is the test-run section built from the pre-test and
// post-patch logs.
type TestExecution struct {
	HasAutomatedTests    bool            `json:"hasAutomatedTests"`
	TestType             string          `json:"testType"`
	PreTestStatus        testlog.Summary `json:"preTestStatus"`
	PostPatchStatus      testlog.Summary `json:"postPatchStatus"`
	CoverageDelta        *float64        `json:"coverageDelta"`
	FlakyTests           []string        `json:"flakyTests"`
	TopFailingTracebacks []string        `json:"topFailingTracebacks"`
}

// TrajectoryNavigation is one trajectory's file-navigation profile. On the
// ideal side UnnecessaryFileModifications is always empty; the failed side
// carries the comparison's unnecessary set.
type TrajectoryNavigation struct {
	FilesOpened                  int      `json:"filesOpened"`
	FilesEdited                  int      `json:"filesEdited"`
	EditPrecision                float64  `json:"editPrecision"`
	FilesOpenedList              []string `json:"filesOpenedList"`
	FilesEditedList              []string `json:"filesEditedList"`
	UnnecessaryFileModifications []string `json:"unnecessaryFileModifications"`
}

// FailedTrajectoryNavigation extends the navigation profile with the files
// the ideal trajectory edited but the failed one never touched.
type FailedTrajectoryNavigation struct {
	TrajectoryNavigation
	MissedFiles []string `json:"missedFiles"`
}

// NavigationMetrics is the navigation section.
type NavigationMetrics struct {
	Ideal  TrajectoryNavigation       `json:"idealTrajectory"`
	Failed FailedTrajectoryNavigation `json:"failedTrajectory"`
}

// PlanSignals is one trajectory's planning profile.
type PlanSignals struct {
	ThoughtActionsCount        int     `json:"thoughtActionsCount"`
	PlanAdherence              float64 `json:"planAdherence"`
	VerificationStepsCompleted bool    `json:"verificationStepsCompleted"`
}

// PlanAndMemorySignals is the planning section.
type PlanAndMemorySignals struct {
	Ideal  PlanSignals `json:"idealTrajectory"`
	Failed PlanSignals `json:"failedTrajectory"`
}
