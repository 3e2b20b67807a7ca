package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/eptalign/internal/core/domain"
	"github.com/custodia-labs/eptalign/internal/core/ports/driving"
)

// progressInterval is how often the progress line is refreshed.
const progressInterval = 500 * time.Millisecond

var alignWorkers int

// isTerminal reports whether stdout is a terminal. Replaced in tests.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

var alignCmd = &cobra.Command{
	Use:   "align <input> <output-dir>",
	Short: "Align every cohort pair of the corpus",
	Long: `Reads the corpus table (.xlsx or .csv), aligns every pair of cohorts
recorded for the same event and writes one alignment file per pair into
the output directory, which is created if absent.

Pairs that cannot be aligned are listed at the end of the run; they never
stop the run. The report (alignments.xlsx by default) is always written.`,
	Args: cobra.ExactArgs(2),
	RunE: runAlign,
}

func init() {
	alignCmd.Flags().IntVarP(&alignWorkers, "workers", "w", 0, "group pairs aligned concurrently (overrides run.workers)")
	rootCmd.AddCommand(alignCmd)
}

func runAlign(cmd *cobra.Command, args []string) error {
	if services == nil || services.Pipeline == nil {
		return errors.New("alignment pipeline not configured")
	}

	settings, err := loadSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	if alignWorkers > 0 {
		settings.Run.Workers = alignWorkers
	}

	ctx := commandContext(cmd)
	pipeline, cleanup, err := services.Pipeline(ctx, settings)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer cleanup()

	var stop func()
	if isTerminal() {
		stop = startProgress(ctx, cmd.ErrOrStderr(), pipeline)
	}
	summary, err := pipeline.Run(ctx, driving.RunRequest{InputPath: args[0], OutputDir: args[1]})
	if stop != nil {
		stop()
	}
	if err != nil {
		return fmt.Errorf("alignment failed: %w", err)
	}

	printSummary(cmd, summary)
	return nil
}

// startProgress refreshes a one-line progress indicator until the returned
// stop function is called.
func startProgress(ctx context.Context, w io.Writer, pipeline driving.AlignmentPipeline) func() {
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()
		ticker := time.NewTicker(progressInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				fmt.Fprint(w, "\r\033[K")
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				status, err := pipeline.Status(ctx)
				if err != nil || status == nil || !status.Running {
					continue
				}
				fmt.Fprintf(w, "\r\033[KAligning: %d/%d pairs, %d attempts, %d failed",
					status.PairsDone, status.PairsTotal, status.Attempts, status.Failures)
			}
		}
	}()

	return func() {
		close(done)
		wg.Wait()
	}
}

func printSummary(cmd *cobra.Command, summary *driving.RunSummary) {
	cmd.Printf("Run %s\n", summary.RunID)
	cmd.Printf("  Documents:     %d\n", summary.Documents)
	cmd.Printf("  Group pairs:   %d\n", summary.GroupPairs)
	cmd.Printf("  Attempts:      %d\n", summary.Attempts)
	cmd.Printf("  Succeeded:     %d\n", summary.Successes())
	cmd.Printf("  Failed:        %d\n", len(summary.Failures))
	cmd.Printf("  Files written: %d\n", len(summary.FilesWritten))
	if summary.WriteErrors > 0 {
		cmd.Printf("  Write errors:  %d\n", summary.WriteErrors)
	}
	cmd.Printf("  Report:        %s (%d rows)\n", summary.ReportPath, summary.ReportRows)

	if len(summary.Failures) == 0 {
		return
	}

	cmd.Println()
	cmd.Printf("Warning: %d document pairs could not be aligned:\n", len(summary.Failures))
	cmd.Println(failureTable(summary.Failures))
}

func failureTable(failures []domain.DocumentPairResult) string {
	rows := make([][]string, 0, len(failures))
	for i, f := range failures {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			f.SourceDocID,
			f.TargetDocID,
			f.PairName.String(),
			string(f.Reason),
		})
	}
	return renderTable(
		[]string{"#", "Source", "Target", "Pair", "Reason"},
		rows,
		[]columnAlignment{alignRight},
	)
}
