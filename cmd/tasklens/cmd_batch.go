package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/couloir/tasklens/internal/config"
	"github.com/couloir/tasklens/internal/enrich"
	"github.com/couloir/tasklens/internal/index"
	"github.com/couloir/tasklens/internal/task"
	"github.com/spf13/cobra"
)

func newBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Enrich every task directory under the samples directory",
		Long: `Discover task directories under the samples directory and enrich each
one in place. Directories without a base record are skipped, and one bad
task never stops the rest of the corpus.

Examples:
  tasklens batch
  tasklens batch --samples ./corpus --dry-run
  tasklens batch --tasks task-001,task-017 --index`,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, _ := cmd.Flags().GetString("root")
			jsonOut, _ := cmd.Flags().GetBool("json")
			samplesFlag, _ := cmd.Flags().GetString("samples")
			names, _ := cmd.Flags().GetStringSlice("tasks")
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			record, _ := cmd.Flags().GetBool("index")

			cfg, err := config.Load(root)
			if err != nil {
				return err
			}
			layout := cfg.Layout()
			samplesDir := samplesFlag
			if samplesDir == "" {
				samplesDir = cfg.ResolveSamplesDir(root)
			}

			var dirs []string
			if len(names) > 0 {
				for _, name := range names {
					dirs = append(dirs, filepath.Join(samplesDir, name))
				}
			} else {
				dirs, err = task.Discover(samplesDir, cfg.TaskPrefix)
				if err != nil {
					return err
				}
			}

			var idx *index.Store
			if record && !dryRun {
				idx, err = index.Open(cfg.ResolveIndexPath(root))
				if err != nil {
					return err
				}
				defer idx.Close()
			}

			var enriched, skipped, failed int
			for _, dir := range dirs {
				name := filepath.Base(dir)
				if !layout.HasBaseRecord(dir) {
					slog.Warn("skipping directory without base record", "task", name)
					skipped++
					continue
				}
				arts, err := layout.Load(dir)
				if err != nil {
					slog.Warn("skipping task", "task", name, "error", err)
					failed++
					continue
				}
				res := enrich.Enrich(arts.Base, arts.Ideal, arts.Failed, arts.FixPatch, arts.Logs)

				if dryRun {
					enriched++
					continue
				}
				if err := task.WriteEnriched(filepath.Join(dir, layout.BaseRecord), res.Document); err != nil {
					slog.Warn("writing document failed", "task", name, "error", err)
					failed++
					continue
				}
				if idx != nil {
					if _, err := idx.Record(index.FromResult(name, res)); err != nil {
						slog.Warn("recording run failed", "task", name, "error", err)
					}
				}
				enriched++
			}

			if jsonOut {
				json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
					"discovered": len(dirs),
					"enriched":   enriched,
					"skipped":    skipped,
					"failed":     failed,
					"dry_run":    dryRun,
				})
			} else {
				verb := "Enriched"
				if dryRun {
					verb = "Would enrich"
				}
				fmt.Printf("%s %d of %d task directories", verb, enriched, len(dirs))
				if skipped > 0 {
					fmt.Printf(" (%d skipped)", skipped)
				}
				fmt.Println()
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d tasks failed", failed, len(dirs))
			}
			return nil
		},
	}

	cmd.Flags().String("samples", "", "Samples directory (overrides config)")
	cmd.Flags().StringSlice("tasks", nil, "Enrich only these task names")
	cmd.Flags().Bool("dry-run", false, "Compute metrics without writing anything")
	cmd.Flags().Bool("index", false, "Record each run in the corpus index")

	return cmd
}
