package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var reportRunID string

var reportCmd = &cobra.Command{
	Use:   "report <output-dir>",
	Short: "Regenerate the report of a past run",
	Long: `Rebuilds the report of a run from the run ledger and the alignment
files currently in the output directory, without aligning again.
The latest run is used unless --run is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportRunID, "run", "", "run ID (default: latest run)")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := openReports(args[0])
	if err != nil {
		return err
	}
	defer cleanup()

	res, err := svc.Regenerate(commandContext(cmd), reportRunID)
	if err != nil {
		return fmt.Errorf("failed to regenerate report: %w", err)
	}

	cmd.Printf("Report for run %s written to %s (%d rows)\n", res.Run.ID, res.ReportPath, res.Rows)
	return nil
}
