// Package cli provides the cobra command tree of eptalign.
// Commands reach the core only through the factories in Services, which
// cmd/eptalign wires before Execute.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/eptalign/internal/core/domain"
	"github.com/custodia-labs/eptalign/internal/core/ports/driving"
	"github.com/custodia-labs/eptalign/internal/logger"
)

// Services holds the factories the commands use.
type Services struct {
	// LoadSettings reads settings from configPath, or from the default
	// location when configPath is empty.
	LoadSettings func(configPath string) (domain.AppSettings, error)

	// Pipeline builds an alignment pipeline for settings.
	// The returned cleanup releases the aligner and must always be called.
	Pipeline func(ctx context.Context, settings domain.AppSettings) (driving.AlignmentPipeline, func(), error)

	// Reports opens the report service of an existing output directory.
	// The returned cleanup closes the ledger and must always be called.
	Reports func(settings domain.AppSettings, outputDir string) (driving.ReportService, func(), error)
}

var (
	services   *Services
	verbose    bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "eptalign",
	Short: "Pairwise sentence alignment for interpreting corpora",
	Long: `eptalign aligns every pair of texts recorded for the same event
(source and target, spoken and written, across languages) and writes one
linkGrp alignment file per pair of cohorts plus a report of all alignments.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "configuration file path")
}

// SetServices sets the factories used by the commands.
func SetServices(s *Services) {
	services = s
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// loadSettings returns the effective settings, or the defaults when no
// loader is wired.
func loadSettings() (domain.AppSettings, error) {
	if services == nil || services.LoadSettings == nil {
		return domain.DefaultAppSettings(), nil
	}
	return services.LoadSettings(configPath)
}

// commandContext returns the context of cmd, falling back to Background
// when the command was executed without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
