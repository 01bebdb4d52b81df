package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.SamplesDir != "samples" {
		t.Errorf("SamplesDir = %q, want samples", cfg.SamplesDir)
	}
	if cfg.TaskPrefix != "task-" {
		t.Errorf("TaskPrefix = %q, want task-", cfg.TaskPrefix)
	}
	if cfg.BaseRecord != "metadata.json" {
		t.Errorf("BaseRecord = %q, want metadata.json", cfg.BaseRecord)
	}
	if cfg.IndexPath != filepath.Join(".tasklens", "index.db") {
		t.Errorf("IndexPath = %q", cfg.IndexPath)
	}
}

func TestLoadOverlay(t *testing.T) {
	root := t.TempDir()
	content := "samplesDir: corpus\ntaskPrefix: run-\n"
	if err := os.WriteFile(filepath.Join(root, ".tasklens.yaml"), []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.SamplesDir != "corpus" {
		t.Errorf("SamplesDir = %q, want corpus", cfg.SamplesDir)
	}
	if cfg.TaskPrefix != "run-" {
		t.Errorf("TaskPrefix = %q, want run-", cfg.TaskPrefix)
	}
	// Keys the file omits keep their defaults.
	if cfg.BaseRecord != "metadata.json" {
		t.Errorf("BaseRecord = %q, want default preserved", cfg.BaseRecord)
	}
}

func TestLoadPrefersHiddenFile(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, ".tasklens.yaml"), []byte("taskPrefix: hidden-\n"), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "tasklens.yaml"), []byte("taskPrefix: visible-\n"), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.TaskPrefix != "hidden-" {
		t.Errorf("TaskPrefix = %q, want value from .tasklens.yaml", cfg.TaskPrefix)
	}
}

func TestLoadBadYAML(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, ".tasklens.yaml"), []byte("samplesDir: [unclosed"), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	if _, err := Load(root); err == nil {
		t.Fatal("Load() error = nil, want parse failure")
	}
}

func TestLayoutAppliesBaseRecord(t *testing.T) {
	cfg := Default()
	cfg.BaseRecord = "record.json"

	l := cfg.Layout()
	if l.BaseRecord != "record.json" {
		t.Errorf("BaseRecord = %q, want override applied", l.BaseRecord)
	}
	if l.IdealTrace != "ideal_trajectory.json" {
		t.Errorf("IdealTrace = %q, want standard name", l.IdealTrace)
	}
}

func TestLayoutAppliesArtifactOverrides(t *testing.T) {
	root := t.TempDir()
	content := "artifacts:\n  idealTrace: golden.json\n  preTestsLog: before.log\n"
	if err := os.WriteFile(filepath.Join(root, ".tasklens.yaml"), []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	l := cfg.Layout()
	if l.IdealTrace != "golden.json" {
		t.Errorf("IdealTrace = %q, want override applied", l.IdealTrace)
	}
	if l.PreTestsLog != "before.log" {
		t.Errorf("PreTestsLog = %q, want override applied", l.PreTestsLog)
	}
	if l.FailedTrace != "failed_trajectory.json" {
		t.Errorf("FailedTrace = %q, want standard name kept", l.FailedTrace)
	}
}

func TestResolvePaths(t *testing.T) {
	cfg := Default()

	if got := cfg.ResolveSamplesDir("/corpus"); got != filepath.Join("/corpus", "samples") {
		t.Errorf("ResolveSamplesDir = %q", got)
	}

	cfg.SamplesDir = "/absolute/samples"
	if got := cfg.ResolveSamplesDir("/corpus"); got != "/absolute/samples" {
		t.Errorf("ResolveSamplesDir = %q, want absolute path untouched", got)
	}

	if got := cfg.ResolveIndexPath("/corpus"); got != filepath.Join("/corpus", ".tasklens", "index.db") {
		t.Errorf("ResolveIndexPath = %q", got)
	}
}
