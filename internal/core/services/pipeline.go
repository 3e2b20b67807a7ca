package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/eptalign/internal/core/domain"
	"github.com/custodia-labs/eptalign/internal/core/ports/driven"
	"github.com/custodia-labs/eptalign/internal/core/ports/driving"
	"github.com/custodia-labs/eptalign/internal/linkgrp"
	"github.com/custodia-labs/eptalign/internal/logger"
)

// Ensure Pipeline implements the interface.
var _ driving.AlignmentPipeline = (*Pipeline)(nil)

// outputDirPerm is used when creating the output directory.
const outputDirPerm = 0o755

// PipelineDeps wires the ports a Pipeline needs.
// Stores that live in the output directory are opened per run.
type PipelineDeps struct {
	// Loader reads the corpus. Required.
	Loader *DocumentLoader

	// NewDocumentStore returns an empty store for one run. Required.
	NewDocumentStore func() driven.DocumentStore

	// Aligner aligns document pairs. Required.
	Aligner driven.SentenceAligner

	// Links filters links before serialization. Nil keeps every link.
	Links driven.LinkPipeline

	// OpenFiles opens the alignment file store of an output directory. Required.
	OpenFiles func(dir string) (driven.AlignmentFileStore, error)

	// OpenLedger opens the run ledger of an output directory.
	// Nil disables the ledger; an open failure is logged and the run continues.
	OpenLedger func(dir string) (driven.RunLedger, error)

	// Report encodes the final report. Required.
	Report driven.ReportWriter
}

// Pipeline runs the load, enumerate, align, serialize and report sequence.
type Pipeline struct {
	deps     PipelineDeps
	settings domain.AppSettings

	// Status tracking
	mu     sync.RWMutex
	status *driving.RunStatus
}

// NewPipeline creates a new alignment pipeline.
func NewPipeline(deps PipelineDeps, settings domain.AppSettings) *Pipeline {
	if settings.Run.Workers < 1 {
		settings.Run.Workers = 1
	}
	return &Pipeline{
		deps:     deps,
		settings: settings,
	}
}

// Run executes one pipeline run.
//
//nolint:gocyclo // Orchestration function with necessary sequential steps
func (p *Pipeline) Run(ctx context.Context, req driving.RunRequest) (*driving.RunSummary, error) {
	if req.InputPath == "" || req.OutputDir == "" {
		return nil, fmt.Errorf("%w: input path and output directory are required", domain.ErrInvalidInput)
	}
	if err := p.checkDeps(); err != nil {
		return nil, err
	}

	// 1. Claim the status slot
	if !p.begin() {
		return nil, domain.ErrRunInProgress
	}
	defer p.end()

	// 2. Prepare the output directory and its stores
	if err := os.MkdirAll(req.OutputDir, outputDirPerm); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	files, err := p.deps.OpenFiles(req.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("open alignment files: %w", err)
	}
	ledger := p.openLedger(req.OutputDir)
	if ledger != nil {
		defer ledger.Close()
	}

	run := domain.Run{
		ID:        uuid.NewString(),
		InputPath: req.InputPath,
		OutputDir: req.OutputDir,
		StartedAt: time.Now(),
	}
	if ledger != nil {
		if err := ledger.StartRun(ctx, run); err != nil {
			logger.Warn("Run ledger unavailable: %v", err)
			ledger = nil
		}
	}
	logger.Section("Run " + run.ID)

	// 3. Load documents
	docs, err := p.deps.Loader.Load(ctx, req.InputPath, p.deps.NewDocumentStore())
	if err != nil {
		p.finish(ctx, ledger, run, &driving.RunSummary{})
		return nil, fmt.Errorf("load corpus: %w", err)
	}

	// 4. Enumerate group pairs
	plans := EnumeratePairs(docs, p.settings.Run.Namespace)
	p.updateStatus(func(s *driving.RunStatus) { s.PairsTotal = len(plans) })
	logger.Info("Enumerated %d group pairs", len(plans))

	// 5. Align every pair
	outcomes, alignErr := p.alignAll(ctx, plans)

	var results []domain.DocumentPairResult
	for _, o := range outcomes {
		if o != nil {
			results = append(results, o.Results...)
		}
	}
	p.record(ctx, ledger, run.ID, results)

	summary := &driving.RunSummary{
		RunID:      run.ID,
		Documents:  len(docs),
		GroupPairs: len(plans),
		Attempts:   len(results),
	}
	for _, r := range results {
		if !r.Succeeded() {
			summary.Failures = append(summary.Failures, r)
		}
	}

	if alignErr != nil {
		p.finish(ctx, ledger, run, summary)
		return nil, alignErr
	}

	// 6. Serialize and persist, once per pair name
	written := p.persist(ctx, files, outcomes, summary)

	// 7. Report
	exportable := make([]domain.DocumentPairResult, 0, len(results))
	for _, r := range results {
		if r.Succeeded() && written[r.PairName] {
			exportable = append(exportable, r)
		}
	}
	summary.ReportPath = filepath.Join(req.OutputDir, p.deps.Report.Format().FileName())
	rows, err := NewExporter(files, p.deps.Report).Export(ctx, summary.ReportPath, exportable)
	if err != nil {
		p.finish(ctx, ledger, run, summary)
		return nil, err
	}
	summary.ReportRows = rows

	p.finish(ctx, ledger, run, summary)
	logFailures(summary.Failures)
	logger.Info("Run complete: %d attempts, %d failed, %d files written",
		summary.Attempts, len(summary.Failures), len(summary.FilesWritten))
	return summary, nil
}

// Status returns progress of the run in flight.
func (p *Pipeline) Status(_ context.Context) (*driving.RunStatus, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.status == nil {
		return &driving.RunStatus{Running: false}, nil
	}
	// Return a copy to avoid race conditions
	s := *p.status
	return &s, nil
}

func (p *Pipeline) checkDeps() error {
	switch {
	case p.deps.Loader == nil:
		return fmt.Errorf("pipeline: loader not configured")
	case p.deps.NewDocumentStore == nil:
		return fmt.Errorf("pipeline: document store not configured")
	case p.deps.Aligner == nil:
		return fmt.Errorf("pipeline: aligner not configured")
	case p.deps.OpenFiles == nil:
		return fmt.Errorf("pipeline: alignment file store not configured")
	case p.deps.Report == nil:
		return fmt.Errorf("pipeline: report writer not configured")
	}
	return nil
}

// alignAll processes plans on a bounded worker pool. Outcomes are indexed by
// plan so downstream ordering does not depend on scheduling.
func (p *Pipeline) alignAll(ctx context.Context, plans []domain.PairPlan) ([]*PairOutcome, error) {
	adapter := NewAlignmentAdapter(p.deps.Aligner, p.settings.Aligner.Timeout)
	aggregator := NewAggregator(adapter, p.settings.Aligner.MaxConsecutiveFaults)

	onResult := func(r domain.DocumentPairResult) {
		p.updateStatus(func(s *driving.RunStatus) {
			s.Attempts++
			if !r.Succeeded() {
				s.Failures++
			}
		})
	}

	outcomes := make([]*PairOutcome, len(plans))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.settings.Run.Workers)
	for i, plan := range plans {
		g.Go(func() error {
			logger.Debug("Aligning %s (event %s): %d attempts", plan.Pair.Name, plan.Pair.EventID, plan.Attempts())
			outcome, err := aggregator.Process(gctx, plan, onResult)
			outcomes[i] = outcome
			if err != nil {
				return fmt.Errorf("pair %s (event %s): %w", plan.Pair.Name, plan.Pair.EventID, err)
			}
			p.updateStatus(func(s *driving.RunStatus) { s.PairsDone++ })
			return nil
		})
	}
	return outcomes, g.Wait()
}

// persist filters each outcome's links, merges them by pair name in plan
// order and writes one file per non-empty pair name. A failure affects only
// its own pair name. Returns the set of pair names written.
func (p *Pipeline) persist(
	ctx context.Context,
	files driven.AlignmentFileStore,
	outcomes []*PairOutcome,
	summary *driving.RunSummary,
) map[domain.PairName]bool {
	var order []domain.PairName
	merged := make(map[domain.PairName][]domain.AlignmentLink)
	broken := make(map[domain.PairName]bool)

	for _, o := range outcomes {
		name := o.Plan.Pair.Name
		if _, seen := merged[name]; !seen {
			order = append(order, name)
			merged[name] = nil
		}
		links := o.Links
		if p.deps.Links != nil && len(links) > 0 {
			filtered, err := p.deps.Links.Process(ctx, o.Plan.Pair, links)
			if err != nil {
				logger.Error("Filter links of %s (event %s): %v", name, o.Plan.Pair.EventID, err)
				broken[name] = true
				continue
			}
			links = filtered
		}
		merged[name] = append(merged[name], links...)
	}

	written := make(map[domain.PairName]bool)
	for _, name := range order {
		if broken[name] {
			summary.WriteErrors++
			continue
		}
		links := merged[name]
		if len(links) == 0 {
			logger.Debug("No links left for %s, no file written", name)
			continue
		}
		if err := files.Write(ctx, name, linkgrp.Serialize(links)); err != nil {
			logger.Error("Write %s: %v", files.Path(name), err)
			summary.WriteErrors++
			continue
		}
		written[name] = true
		summary.FilesWritten = append(summary.FilesWritten, name)
	}
	return written
}

func (p *Pipeline) openLedger(dir string) driven.RunLedger {
	if p.deps.OpenLedger == nil {
		return nil
	}
	ledger, err := p.deps.OpenLedger(dir)
	if err != nil {
		logger.Warn("Run ledger unavailable: %v", err)
		return nil
	}
	return ledger
}

func (p *Pipeline) record(ctx context.Context, ledger driven.RunLedger, runID string, results []domain.DocumentPairResult) {
	if ledger == nil || len(results) == 0 {
		return
	}
	if err := ledger.RecordResults(context.WithoutCancel(ctx), runID, results); err != nil {
		logger.Warn("Record results in ledger: %v", err)
	}
}

func (p *Pipeline) finish(ctx context.Context, ledger driven.RunLedger, run domain.Run, summary *driving.RunSummary) {
	if ledger == nil {
		return
	}
	now := time.Now()
	run.FinishedAt = &now
	run.Attempts = summary.Attempts
	run.Failures = len(summary.Failures)
	// The ledger is still updated when the run was cancelled.
	if err := ledger.FinishRun(context.WithoutCancel(ctx), run); err != nil {
		logger.Warn("Finish run in ledger: %v", err)
	}
}

func (p *Pipeline) begin() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.status != nil {
		return false
	}
	p.status = &driving.RunStatus{Running: true}
	return true
}

func (p *Pipeline) end() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status = nil
}

func (p *Pipeline) updateStatus(fn func(s *driving.RunStatus)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.status != nil {
		fn(p.status)
	}
}

// logFailures reports every failed document pair as one warning batch.
func logFailures(failures []domain.DocumentPairResult) {
	if len(failures) == 0 {
		return
	}
	logger.Warn("%d document pairs could not be aligned:", len(failures))
	for _, f := range failures {
		logger.Warn("  %s / %s in %s (%s)", f.SourceDocID, f.TargetDocID, f.PairName, f.Reason)
	}
}
