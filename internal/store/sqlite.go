package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// DBFile is the run database file name inside the state directory.
const DBFile = "runs.db"

// timeLayout is fixed width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteRunStore implements RunStore on a SQLite database at
// <root>/.hopfield/runs.db.
type SQLiteRunStore struct {
	mu       sync.RWMutex
	db       *sql.DB
	stateDir string
	dbPath   string
}

// NewSQLiteRunStore opens (creating if needed) the run database under projectRoot.
func NewSQLiteRunStore(projectRoot string) (*SQLiteRunStore, error) {
	stateDir, err := EnsureStateDir(projectRoot)
	if err != nil {
		return nil, err
	}
	dbPath := filepath.Join(stateDir, DBFile)

	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite works best with single writer

	if err := InitSchema(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteRunStore{db: db, stateDir: stateDir, dbPath: dbPath}, nil
}

// Path returns the database file path.
func (s *SQLiteRunStore) Path() string {
	return s.dbPath
}

// SaveRun inserts the run and its trials in one transaction.
func (s *SQLiteRunStore) SaveRun(ctx context.Context, run Run) (string, error) {
	run = prepareRun(run)

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, created_at, side, noise_fraction, iterations, early_stop, seed, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt.UTC().Format(timeLayout), run.Side, run.NoiseFraction,
		run.Iterations, boolToInt(run.EarlyStop), run.Seed, run.DurationMs)
	if err != nil {
		return "", fmt.Errorf("failed to insert run %s: %w", run.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO trials (run_id, idx, seed, flipped, noisy_distance, recalled_distance,
			sweeps, energy, recovered, found, centroid_row, centroid_col)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare trial insert: %w", err)
	}
	defer stmt.Close()

	for _, tr := range run.Trials {
		var row, col sql.NullInt64
		if tr.Found {
			row = sql.NullInt64{Int64: int64(tr.Row), Valid: true}
			col = sql.NullInt64{Int64: int64(tr.Col), Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, run.ID, tr.Index, tr.Seed, tr.Flipped,
			tr.NoisyDistance, tr.RecalledDistance, tr.Sweeps, tr.Energy,
			boolToInt(tr.Recovered), boolToInt(tr.Found), row, col); err != nil {
			return "", fmt.Errorf("failed to insert trial %d of run %s: %w", tr.Index, run.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit run %s: %w", run.ID, err)
	}
	return run.ID, nil
}

// GetRun loads a run and its trials.
func (s *SQLiteRunStore) GetRun(ctx context.Context, id string) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, side, noise_fraction, iterations, early_stop, seed, duration_ms
		FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run %s: %w", id, err)
	}

	trials, err := s.loadTrials(ctx, id)
	if err != nil {
		return nil, err
	}
	run.Trials = trials
	return &run, nil
}

// ListRuns returns runs newest first, trials included.
func (s *SQLiteRunStore) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT id, created_at, side, noise_fraction, iterations, early_stop, seed, duration_ms
		FROM runs ORDER BY created_at DESC, id`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	rows.Close()

	// Single connection: trials are loaded after the runs cursor is released.
	for i := range runs {
		trials, err := s.loadTrials(ctx, runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Trials = trials
	}
	return runs, nil
}

// Close closes the database.
func (s *SQLiteRunStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

func (s *SQLiteRunStore) loadTrials(ctx context.Context, runID string) ([]TrialRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT idx, seed, flipped, noisy_distance, recalled_distance, sweeps, energy,
			recovered, found, centroid_row, centroid_col
		FROM trials WHERE run_id = ? ORDER BY idx`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load trials for %s: %w", runID, err)
	}
	defer rows.Close()

	trials := []TrialRecord{}
	for rows.Next() {
		var tr TrialRecord
		var recovered, found int
		var row, col sql.NullInt64
		if err := rows.Scan(&tr.Index, &tr.Seed, &tr.Flipped, &tr.NoisyDistance,
			&tr.RecalledDistance, &tr.Sweeps, &tr.Energy, &recovered, &found, &row, &col); err != nil {
			return nil, fmt.Errorf("failed to scan trial: %w", err)
		}
		tr.Recovered = recovered != 0
		tr.Found = found != 0
		if row.Valid {
			tr.Row = int(row.Int64)
		}
		if col.Valid {
			tr.Col = int(col.Int64)
		}
		trials = append(trials, tr)
	}
	return trials, rows.Err()
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(r rowScanner) (Run, error) {
	var run Run
	var createdAt string
	var earlyStop int
	if err := r.Scan(&run.ID, &createdAt, &run.Side, &run.NoiseFraction, &run.Iterations,
		&earlyStop, &run.Seed, &run.DurationMs); err != nil {
		return Run{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return Run{}, fmt.Errorf("invalid created_at %q: %w", createdAt, err)
	}
	run.CreatedAt = t
	run.EarlyStop = earlyStop != 0
	return run, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
