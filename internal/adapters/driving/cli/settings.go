package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/eptalign/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show effective settings",
	Long: `Show the settings a run would use: the configuration file merged over
the built-in defaults. Use --config to inspect another file.`,
	Args: cobra.NoArgs,
	RunE: runSettingsShow,
}

func init() {
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Run]")
	cmd.Printf("  Namespace: %s\n", settings.Run.Namespace)
	cmd.Printf("  Workers: %d\n", settings.Run.Workers)
	cmd.Printf("  Report: %s\n", settings.Run.ReportFormat.FileName())
	cmd.Println()

	cmd.Println("[Aligner]")
	cmd.Printf("  Provider: %s\n", settings.Aligner.Provider.Description())
	if settings.Aligner.Timeout > 0 {
		cmd.Printf("  Timeout: %s\n", settings.Aligner.Timeout)
	} else {
		cmd.Printf("  Timeout: none\n")
	}
	if settings.Aligner.MaxConsecutiveFaults > 0 {
		cmd.Printf("  Abort after faults: %d\n", settings.Aligner.MaxConsecutiveFaults)
	} else {
		cmd.Printf("  Abort after faults: never\n")
	}
	cmd.Println()

	if settings.Aligner.Provider.RequiresEmbedding() {
		printEmbeddingSettings(cmd, settings.Embedding)
	}

	cmd.Println("[Filter]")
	if len(settings.Filter.Processors) == 0 {
		cmd.Printf("  Processors: none (all links kept)\n")
	} else {
		cmd.Printf("  Processors: %s\n", strings.Join(settings.Filter.Processors, ", "))
	}
	if len(settings.Filter.Retain) > 0 {
		cmd.Printf("  Retain: %s\n", strings.Join(settings.Filter.Retain, ", "))
	}

	return nil
}

func printEmbeddingSettings(cmd *cobra.Command, e domain.EmbeddingSettings) {
	cmd.Println("[Embedding]")
	cmd.Printf("  Provider: %s\n", e.Provider)
	cmd.Printf("  Model: %s\n", e.Model)
	if e.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", e.BaseURL)
	}
	if e.Provider.RequiresAPIKey() {
		if e.APIKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(e.APIKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
	}
	if e.RequestsPerSecond > 0 {
		cmd.Printf("  Rate limit: %g req/s\n", e.RequestsPerSecond)
	}
	status := "configured"
	if !e.IsConfigured() {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
