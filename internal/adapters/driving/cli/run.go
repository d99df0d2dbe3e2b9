package cli

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/fresq/internal/core/domain"
	"github.com/custodia-labs/fresq/internal/core/ports/driving"
)

// progressInterval is how often run progress is redrawn.
var progressInterval = 500 * time.Millisecond

// showProgress reports whether progress should be drawn on stderr.
var showProgress = func() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

var runCmd = &cobra.Command{
	Use:   "run <suffix>",
	Short: "Transform the raw records of a harvest",
	Long: `Runs the full rebuild for a harvest suffix: reads fresq_raw_<suffix>.json.gz,
groups rows by program, resolves establishments, enriches and formats every
program, then writes fresq_formatted_<suffix>.jsonl and its fault log.

Record-level problems are written to the fault log and never stop the run.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	if pipelineRunner == nil {
		return fmt.Errorf("pipeline: %w", errNotConfigured)
	}

	suffix := args[0]
	cmd.Printf("Running pipeline for %s...\n", suffix)

	run, err := runWithProgress(cmd.Context(), cmd, pipelineRunner, suffix)
	if run != nil {
		printRun(cmd, run)
	}
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}
	return nil
}

// runWithProgress runs the pipeline while redrawing a progress line on
// terminals.
func runWithProgress(ctx context.Context, cmd *cobra.Command, runner driving.PipelineRunner, suffix string) (*domain.Run, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	type result struct {
		run *domain.Run
		err error
	}
	resCh := make(chan result, 1)
	go func() {
		run, err := runner.Run(ctx, suffix)
		resCh <- result{run, err}
	}()

	interactive := showProgress()
	ticker := time.NewTicker(progressInterval)
	defer ticker.Stop()

	lastDone := -1
	for {
		select {
		case res := <-resCh:
			if interactive && lastDone >= 0 {
				fmt.Fprintln(cmd.ErrOrStderr())
			}
			return res.run, res.err
		case <-ticker.C:
			done, total := runner.Progress()
			if interactive && total > 0 && done != lastDone {
				fmt.Fprintf(cmd.ErrOrStderr(), "\rFormatting... %d/%d programs", done, total)
				lastDone = done
			}
		}
	}
}

func printRun(cmd *cobra.Command, run *domain.Run) {
	cmd.Println()
	cmd.Printf("Run:        %s (%s)\n", run.ID, run.Status)
	cmd.Printf("Duration:   %s\n", run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond))
	cmd.Printf("Records:    %d\n", run.Records)
	cmd.Printf("Programs:   %d\n", run.Programs)
	cmd.Printf("Documents:  %d\n", run.Documents)
	cmd.Printf("Faults:     %d\n", run.Faults)
	for _, k := range sortedKeys(run.FaultsByCategory) {
		cmd.Printf("  %-22s %d\n", k, run.FaultsByCategory[k])
	}
	if len(run.Resolutions) > 0 {
		cmd.Println("Resolutions:")
		for _, k := range sortedKeys(run.Resolutions) {
			cmd.Printf("  %-22s %d\n", k, run.Resolutions[k])
		}
	}
	if run.DocumentsPath != "" {
		cmd.Printf("Documents:  %s\n", run.DocumentsPath)
		cmd.Printf("Fault log:  %s\n", run.FaultsPath)
	}
	if run.Error != "" {
		cmd.Printf("Error:      %s\n", run.Error)
	}
}

func sortedKeys[K ~string, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
