package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/eptalign/internal/core/domain"
	"github.com/custodia-labs/eptalign/internal/core/ports/driven"
)

// --- Corpus ---

// mockReader implements driven.CorpusReader over fixed rows.
type mockReader struct {
	columns []string
	records []driven.CorpusRecord
	err     error
}

func (m *mockReader) Extensions() []string { return []string{".mock"} }

func (m *mockReader) Read(_ context.Context, _ string) ([]string, []driven.CorpusRecord, error) {
	if m.err != nil {
		return nil, nil, m.err
	}
	return m.columns, m.records, nil
}

func readerFor(r *mockReader) ReaderFunc {
	return func(string) (driven.CorpusReader, error) { return r, nil }
}

// corpusRow builds a record with every required column.
func corpusRow(row int, id, event, lang, side, register, text string) driven.CorpusRecord {
	return driven.CorpusRecord{
		Row: row,
		Fields: map[string]string{
			driven.ColumnID:       id,
			driven.ColumnEventID:  event,
			driven.ColumnLanguage: lang,
			driven.ColumnSide:     side,
			driven.ColumnRegister: register,
			driven.ColumnText:     text,
		},
	}
}

func newCorpus(records ...driven.CorpusRecord) *mockReader {
	return &mockReader{columns: driven.RequiredColumns, records: records}
}

// --- Aligners ---

// diagonalAligner pairs sentence i with sentence i, then leaves the longer
// side's remainder unaligned.
type diagonalAligner struct {
	mu    sync.Mutex
	calls int
}

func (a *diagonalAligner) Align(_ context.Context, source, target []string, _, _ string) ([]driven.IndexGroup, error) {
	a.mu.Lock()
	a.calls++
	a.mu.Unlock()

	var groups []driven.IndexGroup
	for i := 0; i < len(source) || i < len(target); i++ {
		var g driven.IndexGroup
		if i < len(source) {
			g.Source = []int{i}
		}
		if i < len(target) {
			g.Target = []int{i}
		}
		groups = append(groups, g)
	}
	return groups, nil
}

func (a *diagonalAligner) Name() string { return "diagonal" }
func (a *diagonalAligner) Close() error { return nil }

func (a *diagonalAligner) Calls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls
}

// funcAligner delegates to fn.
type funcAligner struct {
	fn func(ctx context.Context, source, target []string) ([]driven.IndexGroup, error)
}

func (a *funcAligner) Align(ctx context.Context, source, target []string, _, _ string) ([]driven.IndexGroup, error) {
	return a.fn(ctx, source, target)
}

func (a *funcAligner) Name() string { return "func" }
func (a *funcAligner) Close() error { return nil }

// --- Link pipeline ---

type funcLinkPipeline struct {
	fn func(pair domain.GroupPair, links []domain.AlignmentLink) ([]domain.AlignmentLink, error)
}

func (p *funcLinkPipeline) Process(
	_ context.Context, pair domain.GroupPair, links []domain.AlignmentLink,
) ([]domain.AlignmentLink, error) {
	return p.fn(pair, links)
}

// --- Alignment files ---

// mockFileStore implements driven.AlignmentFileStore in memory.
type mockFileStore struct {
	mu     sync.Mutex
	files  map[domain.PairName][]byte
	writes map[domain.PairName]int
	fail   map[domain.PairName]bool
}

func newMockFileStore() *mockFileStore {
	return &mockFileStore{
		files:  make(map[domain.PairName][]byte),
		writes: make(map[domain.PairName]int),
		fail:   make(map[domain.PairName]bool),
	}
}

func (s *mockFileStore) Write(_ context.Context, name domain.PairName, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail[name] {
		return fmt.Errorf("disk full")
	}
	s.files[name] = append([]byte(nil), data...)
	s.writes[name]++
	return nil
}

func (s *mockFileStore) Read(_ context.Context, name domain.PairName) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, name)
	}
	return data, nil
}

func (s *mockFileStore) Path(name domain.PairName) string { return "/mock/" + string(name) + ".xml" }

// --- Report ---

// mockReportWriter captures the last report written.
type mockReportWriter struct {
	path   string
	rows   []domain.ReportRow
	writes int
	err    error
}

func (w *mockReportWriter) Write(_ context.Context, path string, rows []domain.ReportRow) error {
	if w.err != nil {
		return w.err
	}
	w.path = path
	w.rows = rows
	w.writes++
	return nil
}

func (w *mockReportWriter) Format() domain.ReportFormat { return domain.ReportFormatXLSX }

// --- Ledger ---

// mockLedger implements driven.RunLedger in memory.
type mockLedger struct {
	mu      sync.Mutex
	runs    map[string]*domain.Run
	order   []string
	results map[string][]domain.DocumentPairResult
	closed  bool
}

func newMockLedger() *mockLedger {
	return &mockLedger{
		runs:    make(map[string]*domain.Run),
		results: make(map[string][]domain.DocumentPairResult),
	}
}

func (l *mockLedger) StartRun(_ context.Context, run domain.Run) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.runs[run.ID] = &run
	l.order = append(l.order, run.ID)
	return nil
}

func (l *mockLedger) RecordResults(_ context.Context, runID string, results []domain.DocumentPairResult) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.runs[runID]; !ok {
		return domain.ErrNotFound
	}
	for _, r := range results {
		r.Links = nil
		l.results[runID] = append(l.results[runID], r)
	}
	return nil
}

func (l *mockLedger) FinishRun(_ context.Context, run domain.Run) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.runs[run.ID]; !ok {
		return domain.ErrNotFound
	}
	l.runs[run.ID] = &run
	return nil
}

func (l *mockLedger) GetRun(_ context.Context, runID string) (*domain.Run, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	run, ok := l.runs[runID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	r := *run
	return &r, nil
}

func (l *mockLedger) LatestRun(ctx context.Context) (*domain.Run, error) {
	l.mu.Lock()
	n := len(l.order)
	l.mu.Unlock()
	if n == 0 {
		return nil, domain.ErrNotFound
	}
	return l.GetRun(ctx, l.order[n-1])
}

func (l *mockLedger) ListRuns(_ context.Context) ([]domain.Run, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	runs := make([]domain.Run, 0, len(l.order))
	for i := len(l.order) - 1; i >= 0; i-- {
		runs = append(runs, *l.runs[l.order[i]])
	}
	return runs, nil
}

func (l *mockLedger) Results(_ context.Context, runID string) ([]domain.DocumentPairResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.runs[runID]; !ok {
		return nil, domain.ErrNotFound
	}
	return append([]domain.DocumentPairResult(nil), l.results[runID]...), nil
}

func (l *mockLedger) Close() error {
	l.closed = true
	return nil
}

// sortedNames returns the pair names written to s, sorted.
func (s *mockFileStore) sortedNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.files))
	for n := range s.files {
		names = append(names, string(n))
	}
	sort.Strings(names)
	return names
}
