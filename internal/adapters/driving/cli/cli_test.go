package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/custodia-labs/eptalign/internal/core/domain"
	"github.com/custodia-labs/eptalign/internal/core/ports/driving"
)

// mockPipeline implements driving.AlignmentPipeline for testing.
type mockPipeline struct {
	summary *driving.RunSummary
	err     error
	req     driving.RunRequest
}

func (m *mockPipeline) Run(_ context.Context, req driving.RunRequest) (*driving.RunSummary, error) {
	m.req = req
	return m.summary, m.err
}

func (m *mockPipeline) Status(_ context.Context) (*driving.RunStatus, error) {
	return &driving.RunStatus{Running: true, PairsTotal: 3, PairsDone: 1}, nil
}

// mockReportService implements driving.ReportService for testing.
type mockReportService struct {
	runs     []domain.Run
	regenID  string
	regenErr error
}

func (m *mockReportService) ListRuns(_ context.Context) ([]domain.Run, error) {
	return m.runs, nil
}

func (m *mockReportService) Regenerate(_ context.Context, runID string) (*driving.RegenerateResult, error) {
	m.regenID = runID
	if m.regenErr != nil {
		return nil, m.regenErr
	}
	id := runID
	if id == "" {
		id = "latest-run"
	}
	return &driving.RegenerateResult{
		Run:        domain.Run{ID: id},
		ReportPath: "/out/alignments.xlsx",
		Rows:       7,
	}, nil
}

// testServices records what the commands asked for.
type testServices struct {
	pipeline      *mockPipeline
	reports       *mockReportService
	settings      domain.AppSettings
	gotSettings   domain.AppSettings
	gotConfig     string
	gotOutputDir  string
	cleanupCalled int
}

func setupTestServices(t *testing.T) *testServices {
	t.Helper()
	ts := &testServices{
		pipeline: &mockPipeline{summary: &driving.RunSummary{
			RunID:        "run-1",
			Documents:    2,
			GroupPairs:   1,
			Attempts:     1,
			FilesWritten: []domain.PairName{"EPTIC.en_written_source.es_written_target"},
			ReportPath:   "/out/alignments.xlsx",
			ReportRows:   1,
		}},
		reports:  &mockReportService{},
		settings: domain.DefaultAppSettings(),
	}

	old := services
	oldTerminal := isTerminal
	isTerminal = func() bool { return false }

	SetServices(&Services{
		LoadSettings: func(path string) (domain.AppSettings, error) {
			ts.gotConfig = path
			return ts.settings, nil
		},
		Pipeline: func(_ context.Context, s domain.AppSettings) (driving.AlignmentPipeline, func(), error) {
			ts.gotSettings = s
			return ts.pipeline, func() { ts.cleanupCalled++ }, nil
		},
		Reports: func(_ domain.AppSettings, dir string) (driving.ReportService, func(), error) {
			ts.gotOutputDir = dir
			return ts.reports, func() { ts.cleanupCalled++ }, nil
		},
	})

	t.Cleanup(func() {
		services = old
		isTerminal = oldTerminal
		alignWorkers = 0
		reportRunID = ""
		configPath = ""
		verbose = false
	})
	return ts
}

// execute runs rootCmd with args and returns its combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	tm, err := time.ParseInLocation(timeLayout, s, time.Local)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return tm
}
