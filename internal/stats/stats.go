// Package stats summarizes metric distributions across a corpus of enriched
// documents.
package stats

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Series describes one metric's distribution.
type Series struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stdDev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Describe computes the summary of one sample set. An empty set yields a
// zero series, and a single observation reports zero spread rather than the
// undefined sample deviation.
func Describe(values []float64) Series {
	if len(values) == 0 {
		return Series{}
	}
	s := Series{
		Count: len(values),
		Mean:  stat.Mean(values, nil),
		Min:   floats.Min(values),
		Max:   floats.Max(values),
	}
	if len(values) > 1 {
		s.StdDev = stat.StdDev(values, nil)
	}
	return s
}

// Corpus aggregates the headline metrics across enriched documents.
type Corpus struct {
	Documents     int    `json:"documents"`
	IdealSteps    Series `json:"idealSteps"`
	FailedSteps   Series `json:"failedSteps"`
	EditPrecision Series `json:"editPrecision"`
	FilesChanged  Series `json:"filesChanged"`
	LinesAdded    Series `json:"linesAdded"`
	TestsPassed   Series `json:"testsPassed"`
}

// Collect describes each tracked metric over the given documents. A document
// missing a section contributes no observation for that metric.
func Collect(docs []map[string]interface{}) Corpus {
	var idealSteps, failedSteps, precision, filesChanged, linesAdded, testsPassed []float64

	for _, doc := range docs {
		if v, ok := dig(doc, "stepLevelMetrics", "totalSteps", "idealTrajectory"); ok {
			idealSteps = append(idealSteps, v)
		}
		if v, ok := dig(doc, "stepLevelMetrics", "totalSteps", "failedTrajectory"); ok {
			failedSteps = append(failedSteps, v)
		}
		if v, ok := dig(doc, "navigationMetrics", "idealTrajectory", "editPrecision"); ok {
			precision = append(precision, v)
		}
		if v, ok := dig(doc, "diffSemantics", "filesChanged"); ok {
			filesChanged = append(filesChanged, v)
		}
		if v, ok := dig(doc, "diffSemantics", "linesAdded"); ok {
			linesAdded = append(linesAdded, v)
		}
		if v, ok := dig(doc, "testExecution", "preTestStatus", "passed"); ok {
			testsPassed = append(testsPassed, v)
		}
	}

	return Corpus{
		Documents:     len(docs),
		IdealSteps:    Describe(idealSteps),
		FailedSteps:   Describe(failedSteps),
		EditPrecision: Describe(precision),
		FilesChanged:  Describe(filesChanged),
		LinesAdded:    Describe(linesAdded),
		TestsPassed:   Describe(testsPassed),
	}
}

// dig walks nested objects to a numeric leaf.
func dig(doc map[string]interface{}, path ...string) (float64, bool) {
	var current interface{} = doc
	for _, key := range path {
		obj, ok := current.(map[string]interface{})
		if !ok {
			return 0, false
		}
		current, ok = obj[key]
		if !ok {
			return 0, false
		}
	}
	switch n := current.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}
