package cli

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/eptalign/internal/core/domain"
	"github.com/custodia-labs/eptalign/internal/core/ports/driving"
)

const timeLayout = "2006-01-02 15:04:05"

var runsCmd = &cobra.Command{
	Use:   "runs <output-dir>",
	Short: "List past runs of an output directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runRuns,
}

func init() {
	rootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := openReports(args[0])
	if err != nil {
		return err
	}
	defer cleanup()

	runs, err := svc.ListRuns(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		cmd.Println("No runs recorded.")
		return nil
	}
	cmd.Println(runsTable(runs))
	return nil
}

// openReports opens the report service of dir.
func openReports(dir string) (driving.ReportService, func(), error) {
	if services == nil || services.Reports == nil {
		return nil, nil, errors.New("report service not configured")
	}
	settings, err := loadSettings()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load settings: %w", err)
	}
	svc, cleanup, err := services.Reports(settings, dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open run ledger: %w", err)
	}
	return svc, cleanup, nil
}

func runsTable(runs []domain.Run) string {
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		finished := "running"
		if r.Finished() {
			finished = formatTime(*r.FinishedAt)
		}
		rows = append(rows, []string{
			r.ID,
			formatTime(r.StartedAt),
			finished,
			strconv.Itoa(r.Attempts),
			strconv.Itoa(r.Failures),
			r.InputPath,
		})
	}
	return renderTable(
		[]string{"Run", "Started", "Finished", "Attempts", "Failures", "Input"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight},
	)
}

func formatTime(t time.Time) string {
	return t.Local().Format(timeLayout)
}
