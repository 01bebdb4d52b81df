package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/couloir/tasklens/internal/config"
	"github.com/couloir/tasklens/internal/enrich"
	"github.com/couloir/tasklens/internal/index"
	"github.com/couloir/tasklens/internal/task"
	"github.com/spf13/cobra"
)

func newEnrichCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "enrich <task-dir>",
		Short: "Enrich one task directory's metadata from its artifacts",
		Long: `Run the extractors over one task directory and fold the computed metric
sections into its metadata document.

The directory is expected to hold the recorded artifacts (trajectories,
fix patch, test logs); whatever is missing degrades to empty metrics.

Examples:
  tasklens enrich samples/task-001
  tasklens enrich samples/task-001 --dry-run
  tasklens enrich samples/task-001 --output /tmp/enriched.json
  tasklens enrich samples/task-001 --index`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			root, _ := cmd.Flags().GetString("root")
			jsonOut, _ := cmd.Flags().GetBool("json")
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			output, _ := cmd.Flags().GetString("output")
			record, _ := cmd.Flags().GetBool("index")

			cfg, err := config.Load(root)
			if err != nil {
				return err
			}
			layout := cfg.Layout()

			if _, err := os.Stat(dir); err != nil {
				return fmt.Errorf("task directory: %w", err)
			}
			arts, err := layout.Load(dir)
			if err != nil {
				return err
			}
			res := enrich.Enrich(arts.Base, arts.Ideal, arts.Failed, arts.FixPatch, arts.Logs)

			if dryRun {
				enc := json.NewEncoder(os.Stdout)
				enc.SetEscapeHTML(false)
				enc.SetIndent("", "  ")
				return enc.Encode(res.Document)
			}

			out := output
			if out == "" {
				out = filepath.Join(dir, layout.BaseRecord)
			}
			if err := task.WriteEnriched(out, res.Document); err != nil {
				return err
			}

			if record {
				idx, err := index.Open(cfg.ResolveIndexPath(root))
				if err != nil {
					return err
				}
				defer idx.Close()
				if _, err := idx.Record(index.FromResult(filepath.Base(dir), res)); err != nil {
					return err
				}
			}

			if jsonOut {
				json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
					"status": "enriched",
					"task":   filepath.Base(dir),
					"output": out,
				})
			} else {
				fmt.Printf("Enriched %s\n", filepath.Base(dir))
				fmt.Printf("  Output: %s\n", out)
				if res.Ideal != nil {
					fmt.Printf("  Ideal steps:  %d\n", res.Ideal.TotalSteps)
				}
				if res.Failed != nil {
					fmt.Printf("  Failed steps: %d\n", res.Failed.TotalSteps)
				}
				fmt.Printf("  Diff: %d files (+%d/-%d)\n",
					res.Patch.FilesChanged, res.Patch.LinesAdded, res.Patch.LinesRemoved)
			}

			return nil
		},
	}

	cmd.Flags().String("output", "", "Write the document to this path instead of the base record")
	cmd.Flags().Bool("dry-run", false, "Print the document without writing anything")
	cmd.Flags().Bool("index", false, "Record the run in the corpus index")

	return cmd
}
