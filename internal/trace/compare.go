package trace

import "sort"

// CountDelta pairs the same count from both trajectories with its signed
// difference (ideal minus failed).
type CountDelta struct {
	Ideal  int `json:"ideal"`
	Failed int `json:"failed"`
	Delta  int `json:"delta"`
}

// FailureAnalysis holds the divergence signals between the ideal and failed
// trajectories of one task.
type FailureAnalysis struct {
	MissedFiles         []string   `json:"missedFiles"`
	UnnecessaryFiles    []string   `json:"unnecessaryFiles"`
	StepCountComparison CountDelta `json:"stepCountComparison"`
	ThoughtComparison   CountDelta `json:"thoughtComparison"`
}

// Compare derives set-difference and delta signals from two trace summaries.
// When either summary is missing there is nothing to compare against and nil
// is returned.
func Compare(ideal, failed *Summary) *FailureAnalysis {
	if ideal == nil || failed == nil {
		return nil
	}

	return &FailureAnalysis{
		MissedFiles:      difference(ideal.FilesEdited, failed.FilesEdited),
		UnnecessaryFiles: difference(failed.FilesEdited, ideal.FilesEdited),
		StepCountComparison: CountDelta{
			Ideal:  ideal.TotalSteps,
			Failed: failed.TotalSteps,
			Delta:  ideal.TotalSteps - failed.TotalSteps,
		},
		ThoughtComparison: CountDelta{
			Ideal:  len(ideal.Thoughts),
			Failed: len(failed.Thoughts),
			Delta:  len(ideal.Thoughts) - len(failed.Thoughts),
		},
	}
}

// difference returns the members of a not present in b, sorted.
func difference(a, b []string) []string {
	inB := make(map[string]bool, len(b))
	for _, s := range b {
		inB[s] = true
	}
	out := []string{}
	for _, s := range a {
		if !inB[s] {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}
