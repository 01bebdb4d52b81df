package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "tasklens",
		Short: "Tasklens - metrics enrichment for agent task corpora",
		Long: `tasklens derives step, diff, test, and navigation metrics from the raw
artifacts recorded for agentic coding benchmark tasks.

It reads each task's trajectory logs, fix patch, and test-runner output,
and folds the extracted metrics into the task's metadata document.`,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON (for agent consumption)")
	rootCmd.PersistentFlags().String("root", ".", "Corpus root directory")

	// Add subcommands
	rootCmd.AddCommand(
		newVersionCmd(),
		newEnrichCmd(),
		newBatchCmd(),
		newStatsCmd(),
		newIndexCmd(),
		newMCPServerCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				json.NewEncoder(os.Stdout).Encode(map[string]string{"version": version})
			} else {
				fmt.Printf("tasklens version %s\n", version)
			}
		},
	}
}
