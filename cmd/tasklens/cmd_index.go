package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/couloir/tasklens/internal/config"
	"github.com/couloir/tasklens/internal/enrich"
	"github.com/couloir/tasklens/internal/index"
	"github.com/spf13/cobra"
)

func newIndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Inspect the enrichment run index",
		Long: `The run index is a local SQLite database that records one row per
enrichment, written by 'enrich --index', 'batch --index', and
'index record'.

Examples:
  tasklens index list
  tasklens index list --task task-001 --limit 5
  tasklens index record samples/task-001`,
	}

	cmd.AddCommand(
		newIndexRecordCmd(),
		newIndexListCmd(),
	)

	return cmd
}

func newIndexRecordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "record <task-dir>",
		Short: "Record one task's current metrics without writing its document",
		Long: `Run the extractors over a task directory and record the resulting run
in the index. The task's metadata document is left untouched; use
'enrich --index' to write and record in one step.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			root, _ := cmd.Flags().GetString("root")
			jsonOut, _ := cmd.Flags().GetBool("json")

			cfg, err := config.Load(root)
			if err != nil {
				return err
			}
			if _, err := os.Stat(dir); err != nil {
				return fmt.Errorf("task directory: %w", err)
			}
			arts, err := cfg.Layout().Load(dir)
			if err != nil {
				return err
			}
			res := enrich.Enrich(arts.Base, arts.Ideal, arts.Failed, arts.FixPatch, arts.Logs)

			idx, err := index.Open(cfg.ResolveIndexPath(root))
			if err != nil {
				return err
			}
			defer idx.Close()

			name := filepath.Base(dir)
			id, err := idx.Record(index.FromResult(name, res))
			if err != nil {
				return err
			}

			if jsonOut {
				json.NewEncoder(os.Stdout).Encode(map[string]string{
					"status": "recorded",
					"task":   name,
					"id":     id,
				})
			} else {
				fmt.Printf("Recorded run %s for %s\n", id, name)
			}
			return nil
		},
	}
}

func newIndexListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded enrichment runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			root, _ := cmd.Flags().GetString("root")
			jsonOut, _ := cmd.Flags().GetBool("json")
			taskName, _ := cmd.Flags().GetString("task")
			limit, _ := cmd.Flags().GetInt("limit")

			cfg, err := config.Load(root)
			if err != nil {
				return err
			}

			idx, err := index.Open(cfg.ResolveIndexPath(root))
			if err != nil {
				return err
			}
			defer idx.Close()

			runs, err := idx.List(taskName, limit)
			if err != nil {
				return err
			}

			if jsonOut {
				if runs == nil {
					runs = []index.Run{}
				}
				return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
					"runs":  runs,
					"count": len(runs),
				})
			}

			if len(runs) == 0 {
				fmt.Println("No runs recorded yet.")
				fmt.Println("\nUse 'tasklens enrich <dir> --index' or 'tasklens batch --index' to record runs.")
				return nil
			}
			fmt.Printf("Recorded runs (%d):\n\n", len(runs))
			for _, run := range runs {
				fmt.Printf("%s  %s\n", run.EnrichedAt.Format(time.RFC3339), run.Task)
				fmt.Printf("   steps: ideal=%d failed=%d  precision=%.2f\n",
					run.IdealSteps, run.FailedSteps, run.EditPrecision)
				fmt.Printf("   diff: %d files (+%d/-%d)  tests: %d/%d",
					run.FilesChanged, run.LinesAdded, run.LinesRemoved,
					run.TestsPassed, run.TestsTotal)
				if run.Coverage != nil {
					fmt.Printf("  coverage: %.1f%%", *run.Coverage)
				}
				fmt.Println()
				fmt.Println()
			}
			return nil
		},
	}

	cmd.Flags().String("task", "", "Filter to one task")
	cmd.Flags().Int("limit", 0, "Maximum number of runs to show")

	return cmd
}
