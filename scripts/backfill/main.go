// scripts/backfill/main.go
//
// One-time rebuild of the enrichment run index from a corpus on disk.
// - Deletes the existing index database
// - Discovers task directories under the samples directory
// - Re-runs the extractors over each task's artifacts (task directories
//   themselves are never written)
// - Records one run per task in the fresh index
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/couloir/tasklens/internal/config"
	"github.com/couloir/tasklens/internal/enrich"
	"github.com/couloir/tasklens/internal/index"
	"github.com/couloir/tasklens/internal/task"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "backfill failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	root, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}
	if len(os.Args) > 1 {
		root = os.Args[1]
	}

	cfg, err := config.Load(root)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	layout := cfg.Layout()
	samplesDir := cfg.ResolveSamplesDir(root)
	indexPath := cfg.ResolveIndexPath(root)

	fmt.Printf("=== Rebuilding run index (%s) ===\n", indexPath)

	// Delete the existing index so the rebuild starts clean
	if err := os.Remove(indexPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove old index: %w", err)
	}
	fmt.Printf("  Removed old index\n")

	idx, err := index.Open(indexPath)
	if err != nil {
		return fmt.Errorf("open index: %w", err)
	}
	defer idx.Close()

	// Step 1: Discover task directories
	dirs, err := task.Discover(samplesDir, cfg.TaskPrefix)
	if err != nil {
		return fmt.Errorf("discover tasks: %w", err)
	}
	fmt.Printf("  Found %d task directories\n", len(dirs))

	// Step 2: Re-extract and record each task
	recorded := 0
	skipped := 0
	for _, dir := range dirs {
		name := filepath.Base(dir)
		if !layout.HasBaseRecord(dir) {
			skipped++
			continue
		}
		arts, err := layout.Load(dir)
		if err != nil {
			fmt.Printf("  WARNING: skipping %s: %v\n", name, err)
			skipped++
			continue
		}
		res := enrich.Enrich(arts.Base, arts.Ideal, arts.Failed, arts.FixPatch, arts.Logs)
		if _, err := idx.Record(index.FromResult(name, res)); err != nil {
			return fmt.Errorf("record %s: %w", name, err)
		}
		recorded++
	}
	fmt.Printf("  Recorded %d runs (%d skipped)\n", recorded, skipped)

	fmt.Println("\nBackfill complete!")
	return nil
}
