package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/couloir/tasklens/internal/config"
	"github.com/couloir/tasklens/internal/stats"
	"github.com/couloir/tasklens/internal/task"
	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize metric distributions across enriched documents",
		Long: `Read every enriched metadata document under the samples directory and
report the distribution of the headline metrics.

Documents that have not been enriched yet contribute only to the document
count.

Examples:
  tasklens stats
  tasklens stats --samples ./corpus --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, _ := cmd.Flags().GetString("root")
			jsonOut, _ := cmd.Flags().GetBool("json")
			samplesFlag, _ := cmd.Flags().GetString("samples")

			cfg, err := config.Load(root)
			if err != nil {
				return err
			}
			layout := cfg.Layout()
			samplesDir := samplesFlag
			if samplesDir == "" {
				samplesDir = cfg.ResolveSamplesDir(root)
			}

			dirs, err := task.Discover(samplesDir, cfg.TaskPrefix)
			if err != nil {
				return err
			}

			var docs []map[string]interface{}
			for _, dir := range dirs {
				if !layout.HasBaseRecord(dir) {
					continue
				}
				data, err := os.ReadFile(filepath.Join(dir, layout.BaseRecord))
				if err != nil {
					slog.Warn("skipping unreadable document", "task", filepath.Base(dir), "error", err)
					continue
				}
				var doc map[string]interface{}
				if err := json.Unmarshal(data, &doc); err != nil {
					slog.Warn("skipping unparsable document", "task", filepath.Base(dir), "error", err)
					continue
				}
				docs = append(docs, doc)
			}

			corpus := stats.Collect(docs)

			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(corpus)
			}

			fmt.Printf("Documents: %d\n", corpus.Documents)
			printSeries("Ideal steps", corpus.IdealSteps)
			printSeries("Failed steps", corpus.FailedSteps)
			printSeries("Edit precision", corpus.EditPrecision)
			printSeries("Files changed", corpus.FilesChanged)
			printSeries("Lines added", corpus.LinesAdded)
			printSeries("Tests passed", corpus.TestsPassed)
			return nil
		},
	}

	cmd.Flags().String("samples", "", "Samples directory (overrides config)")

	return cmd
}

func printSeries(label string, s stats.Series) {
	if s.Count == 0 {
		fmt.Printf("  %-15s no samples\n", label)
		return
	}
	fmt.Printf("  %-15s mean %.2f  stddev %.2f  min %.2f  max %.2f  (n=%d)\n",
		label, s.Mean, s.StdDev, s.Min, s.Max, s.Count)
}
