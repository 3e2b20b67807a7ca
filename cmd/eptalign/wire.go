package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/eptalign/internal/adapters/driven/ai"
	"github.com/custodia-labs/eptalign/internal/adapters/driven/config/file"
	"github.com/custodia-labs/eptalign/internal/adapters/driven/corpus"
	"github.com/custodia-labs/eptalign/internal/adapters/driven/report"
	"github.com/custodia-labs/eptalign/internal/adapters/driven/storage/filesystem"
	"github.com/custodia-labs/eptalign/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/eptalign/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/eptalign/internal/adapters/driving/cli"
	"github.com/custodia-labs/eptalign/internal/core/domain"
	"github.com/custodia-labs/eptalign/internal/core/ports/driven"
	"github.com/custodia-labs/eptalign/internal/core/ports/driving"
	"github.com/custodia-labs/eptalign/internal/core/services"
	"github.com/custodia-labs/eptalign/internal/logger"
	"github.com/custodia-labs/eptalign/internal/postprocessors"
)

func newServices() *cli.Services {
	return &cli.Services{
		LoadSettings: loadSettings,
		Pipeline:     newPipeline,
		Reports:      openReports,
	}
}

// loadSettings reads configPath, or ~/.eptalign/config.toml when empty.
// Without a readable user config the built-in defaults apply; an invalid
// one is an error.
func loadSettings(configPath string) (domain.AppSettings, error) {
	var store driven.ConfigStore
	if configPath != "" {
		s, err := file.OpenConfigFile(configPath)
		if err != nil {
			return domain.AppSettings{}, fmt.Errorf("open config %s: %w", configPath, err)
		}
		store = s
	} else {
		s, err := file.NewConfigStore("")
		switch {
		case err == nil:
			store = s
		case errors.Is(err, domain.ErrInvalidInput):
			return domain.AppSettings{}, err
		default:
			logger.Debug("No user config (%v), using defaults", err)
			store = memory.NewConfigStore()
		}
	}
	logger.Debug("Settings from %s", store.Path())
	return store.Settings()
}

// newPipeline wires the driven adapters into an alignment pipeline.
func newPipeline(ctx context.Context, settings domain.AppSettings) (driving.AlignmentPipeline, func(), error) {
	links, err := postprocessors.FromSettings(settings.Filter)
	if err != nil {
		return nil, nil, fmt.Errorf("filter: %w", err)
	}
	writer, err := report.NewWriter(settings.Run.ReportFormat)
	if err != nil {
		return nil, nil, err
	}
	aligner, err := ai.CreateAligner(ctx, settings)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("Aligner %s, filters %v", aligner.Name(), links.Names())

	deps := services.PipelineDeps{
		Loader:           services.NewDocumentLoader(corpus.NewReader),
		NewDocumentStore: func() driven.DocumentStore { return memory.NewDocumentStore() },
		Aligner:          aligner,
		Links:            links,
		OpenFiles: func(dir string) (driven.AlignmentFileStore, error) {
			return filesystem.NewAlignmentFileStore(dir)
		},
		OpenLedger: func(dir string) (driven.RunLedger, error) {
			return sqlite.NewStore(dir)
		},
		Report: writer,
	}

	cleanup := func() {
		if err := aligner.Close(); err != nil {
			logger.Warn("Close aligner: %v", err)
		}
	}
	return services.NewPipeline(deps, settings), cleanup, nil
}

// openReports opens the ledger of an output directory written by a previous run.
func openReports(settings domain.AppSettings, dir string) (driving.ReportService, func(), error) {
	if _, err := os.Stat(filepath.Join(dir, sqlite.LedgerFileName)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, fmt.Errorf("%w: no run ledger in %s", domain.ErrNotFound, dir)
		}
		return nil, nil, err
	}

	ledger, err := sqlite.NewStore(dir)
	if err != nil {
		return nil, nil, err
	}
	files, err := filesystem.NewAlignmentFileStore(dir)
	if err != nil {
		ledger.Close()
		return nil, nil, err
	}
	writer, err := report.NewWriter(settings.Run.ReportFormat)
	if err != nil {
		ledger.Close()
		return nil, nil, err
	}

	cleanup := func() {
		if err := ledger.Close(); err != nil {
			logger.Warn("Close run ledger: %v", err)
		}
	}
	return services.NewReportService(ledger, files, writer, dir), cleanup, nil
}
