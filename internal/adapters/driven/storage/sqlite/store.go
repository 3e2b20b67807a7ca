package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/eptalign/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/eptalign/internal/core/domain"
	"github.com/custodia-labs/eptalign/internal/core/ports/driven"
)

// LedgerFileName is the database file created inside the output directory.
const LedgerFileName = "ledger.db"

// Ensure Store implements the interface.
var _ driven.RunLedger = (*Store)(nil)

// Store is the SQLite run ledger.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (or creates) the ledger in dataDir.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("%w: ledger directory is empty", domain.ErrInvalidInput)
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, LedgerFileName)

	// WAL mode for concurrent readers; pragmas in the DSN apply to every pooled connection
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate applies every embedded NNN_name.up.sql newer than the recorded version.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// StartRun stores a new run.
func (s *Store) StartRun(ctx context.Context, run domain.Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, input_path, output_dir, started_at)
		VALUES (?, ?, ?, ?)
	`, run.ID, run.InputPath, run.OutputDir, run.StartedAt.UTC())
	if err != nil {
		return fmt.Errorf("saving run: %w", err)
	}
	return nil
}

// RecordResults appends results for a run after any already recorded.
func (s *Store) RecordResults(ctx context.Context, runID string, results []domain.DocumentPairResult) error {
	if len(results) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var next int
	row := tx.QueryRowContext(ctx, "SELECT COALESCE(MAX(seq), -1) + 1 FROM pair_results WHERE run_id = ?", runID)
	if err := row.Scan(&next); err != nil {
		return fmt.Errorf("reading result sequence: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO pair_results (run_id, seq, src_id, tgt_id, pair_name, outcome, reason, link_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing result insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range results {
		_, err := stmt.ExecContext(ctx,
			runID, next+i, r.SourceDocID, r.TargetDocID,
			string(r.PairName), string(r.Outcome), string(r.Reason), len(r.Links),
		)
		if err != nil {
			return fmt.Errorf("saving result %s/%s: %w", r.SourceDocID, r.TargetDocID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing results: %w", err)
	}
	return nil
}

// FinishRun marks the run finished with its totals.
func (s *Store) FinishRun(ctx context.Context, run domain.Run) error {
	if run.FinishedAt == nil {
		return fmt.Errorf("%w: run %s has no finish time", domain.ErrInvalidInput, run.ID)
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE runs SET finished_at = ?, attempts = ?, failures = ?
		WHERE id = ?
	`, run.FinishedAt.UTC(), run.Attempts, run.Failures, run.ID)
	if err != nil {
		return fmt.Errorf("finishing run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

const runColumns = "id, input_path, output_dir, started_at, finished_at, attempts, failures"

// GetRun retrieves a run by ID.
func (s *Store) GetRun(ctx context.Context, runID string) (*domain.Run, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+runColumns+" FROM runs WHERE id = ?", runID)
	return scanRun(row)
}

// LatestRun returns the most recently started run.
func (s *Store) LatestRun(ctx context.Context) (*domain.Run, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+runColumns+" FROM runs ORDER BY rowid DESC LIMIT 1")
	return scanRun(row)
}

// ListRuns returns runs, most recent first.
func (s *Store) ListRuns(ctx context.Context) ([]domain.Run, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+runColumns+" FROM runs ORDER BY rowid DESC")
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// Results returns the recorded results of a run in recording order.
func (s *Store) Results(ctx context.Context, runID string) ([]domain.DocumentPairResult, error) {
	if _, err := s.GetRun(ctx, runID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT src_id, tgt_id, pair_name, outcome, reason
		FROM pair_results WHERE run_id = ? ORDER BY seq
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("listing results: %w", err)
	}
	defer rows.Close()

	var results []domain.DocumentPairResult
	for rows.Next() {
		var r domain.DocumentPairResult
		var pairName, outcome, reason string
		if err := rows.Scan(&r.SourceDocID, &r.TargetDocID, &pairName, &outcome, &reason); err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}
		r.PairName = domain.PairName(pairName)
		r.Outcome = domain.Outcome(outcome)
		r.Reason = domain.FailureReason(reason)
		results = append(results, r)
	}
	return results, rows.Err()
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*domain.Run, error) {
	var run domain.Run
	var finishedAt sql.NullTime
	err := row.Scan(&run.ID, &run.InputPath, &run.OutputDir, &run.StartedAt,
		&finishedAt, &run.Attempts, &run.Failures)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning run: %w", err)
	}
	if finishedAt.Valid {
		t := finishedAt.Time
		run.FinishedAt = &t
	}
	return &run, nil
}
