// Package task locates and loads the artifact set recorded under one
// benchmark task directory: the base record, both trajectory files, the
// patches, and the captured test-runner logs.
package task

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/couloir/tasklens/internal/enrich"
	"github.com/couloir/tasklens/internal/trace"
)

// Standard artifact file names inside a task directory.
const (
	BaseRecordFile   = "metadata.json"
	IdealTraceFile   = "ideal_trajectory.json"
	FailedTraceFile  = "failed_trajectory.json"
	FixPatchFile     = "fix.patch"
	TestsPatchFile   = "tests.patch"
	PreTestsLogFile  = "PASS_pre_tests.log"
	PrePatchLogFile  = "FAIL_pre_patch.log"
	PostPatchLogFile = "PASS_post_patch.log"
)

// ErrBadBaseRecord reports a base record whose top level is not a JSON
// object. This is the one artifact defect the loader refuses to paper over:
// enriching a non-object would silently discard the producer's data.
var ErrBadBaseRecord = errors.New("base record is not a JSON object")

// Layout names the artifact files the loader looks for inside a task
// directory.
type Layout struct {
	BaseRecord   string
	IdealTrace   string
	FailedTrace  string
	FixPatch     string
	TestsPatch   string
	PreTestsLog  string
	PrePatchLog  string
	PostPatchLog string
}

// DefaultLayout returns the standard artifact names.
func DefaultLayout() Layout {
	return Layout{
		BaseRecord:   BaseRecordFile,
		IdealTrace:   IdealTraceFile,
		FailedTrace:  FailedTraceFile,
		FixPatch:     FixPatchFile,
		TestsPatch:   TestsPatchFile,
		PreTestsLog:  PreTestsLogFile,
		PrePatchLog:  PrePatchLogFile,
		PostPatchLog: PostPatchLogFile,
	}
}

// Artifacts is one task directory's loaded artifact set.
type Artifacts struct {
	Dir        string
	Base       map[string]interface{}
	Ideal      *trace.Trace
	Failed     *trace.Trace
	FixPatch   string
	TestsPatch string
	Logs       enrich.Logs
}

// Load reads a task directory's artifacts. Missing artifacts load as their
// empty defaults and malformed trajectories are dropped with a warning; only
// a base record that exists but cannot be used stops the load.
func (l Layout) Load(dir string) (*Artifacts, error) {
	base, err := l.loadBaseRecord(dir)
	if err != nil {
		return nil, err
	}

	return &Artifacts{
		Dir:        dir,
		Base:       base,
		Ideal:      l.loadTrace(dir, l.IdealTrace),
		Failed:     l.loadTrace(dir, l.FailedTrace),
		FixPatch:   readOptional(dir, l.FixPatch),
		TestsPatch: readOptional(dir, l.TestsPatch),
		Logs: enrich.Logs{
			PreTests:     readOptional(dir, l.PreTestsLog),
			PrePatchFail: readOptional(dir, l.PrePatchLog),
			PostPatch:    readOptional(dir, l.PostPatchLog),
		},
	}, nil
}

// HasBaseRecord reports whether dir contains a base record, which marks it
// as a task directory worth enriching.
func (l Layout) HasBaseRecord(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, l.BaseRecord))
	return err == nil && !info.IsDir()
}

func (l Layout) loadBaseRecord(dir string) (map[string]interface{}, error) {
	path := filepath.Join(dir, l.BaseRecord)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		// No base record yet: enrichment starts from an empty document.
		return map[string]interface{}{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading base record: %w", err)
	}

	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing base record %s: %w", path, err)
	}
	base, ok := raw.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, ErrBadBaseRecord)
	}
	return base, nil
}

func (l Layout) loadTrace(dir, name string) *trace.Trace {
	path := filepath.Join(dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Warn("skipping unreadable trajectory", "path", path, "error", err)
		}
		return nil
	}
	t, err := trace.Decode(data)
	if err != nil {
		slog.Warn("skipping malformed trajectory", "path", path, "error", err)
		return nil
	}
	return t
}

func readOptional(dir, name string) string {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return ""
	}
	return string(data)
}
