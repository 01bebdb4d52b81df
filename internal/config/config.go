// Package config resolves corpus-level settings from an optional YAML file
// at the corpus root, overlaid onto built-in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/couloir/tasklens/internal/task"
	"gopkg.in/yaml.v3"
)

// candidateFiles are tried in order under the corpus root; the first one
// found wins.
var candidateFiles = []string{".tasklens.yaml", "tasklens.yaml"}

// Config holds the corpus-level settings.
type Config struct {
	// SamplesDir is the directory holding task directories, relative to the
	// corpus root unless absolute.
	SamplesDir string `yaml:"samplesDir"`
	// TaskPrefix filters which directory names count as tasks.
	TaskPrefix string `yaml:"taskPrefix"`
	// BaseRecord overrides the base record file name inside each task.
	BaseRecord string `yaml:"baseRecord"`
	// IndexPath is the run index database, relative to the corpus root
	// unless absolute.
	IndexPath string `yaml:"indexPath"`
	// Artifacts overrides individual artifact file names inside each task.
	Artifacts ArtifactNames `yaml:"artifacts"`
}

// ArtifactNames renames artifacts for corpora that use a different file
// convention. Empty fields keep the standard names.
type ArtifactNames struct {
	IdealTrace   string `yaml:"idealTrace"`
	FailedTrace  string `yaml:"failedTrace"`
	FixPatch     string `yaml:"fixPatch"`
	TestsPatch   string `yaml:"testsPatch"`
	PreTestsLog  string `yaml:"preTestsLog"`
	PrePatchLog  string `yaml:"prePatchLog"`
	PostPatchLog string `yaml:"postPatchLog"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		SamplesDir: "samples",
		TaskPrefix: "task-",
		BaseRecord: task.BaseRecordFile,
		IndexPath:  filepath.Join(".tasklens", "index.db"),
	}
}

// Load reads the config file under root, if present, overlaying it onto the
// defaults. A missing file is not an error; a file that exists but does not
// parse is.
func Load(root string) (Config, error) {
	cfg := Default()
	for _, name := range candidateFiles {
		path := filepath.Join(root, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing %s: %w", path, err)
		}
		break
	}
	return cfg, nil
}

// Layout returns the artifact layout with the configured name overrides
// applied.
func (c Config) Layout() task.Layout {
	l := task.DefaultLayout()
	override(&l.BaseRecord, c.BaseRecord)
	override(&l.IdealTrace, c.Artifacts.IdealTrace)
	override(&l.FailedTrace, c.Artifacts.FailedTrace)
	override(&l.FixPatch, c.Artifacts.FixPatch)
	override(&l.TestsPatch, c.Artifacts.TestsPatch)
	override(&l.PreTestsLog, c.Artifacts.PreTestsLog)
	override(&l.PrePatchLog, c.Artifacts.PrePatchLog)
	override(&l.PostPatchLog, c.Artifacts.PostPatchLog)
	return l
}

func override(dst *string, name string) {
	if name != "" {
		*dst = name
	}
}

// ResolveSamplesDir returns the samples directory anchored at root.
func (c Config) ResolveSamplesDir(root string) string {
	return resolve(root, c.SamplesDir)
}

// ResolveIndexPath returns the index database path anchored at root.
func (c Config) ResolveIndexPath(root string) string {
	return resolve(root, c.IndexPath)
}

func resolve(root, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}
