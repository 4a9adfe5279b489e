// Package store persists runs, findings and silence signals to SQLite so that
// repeated detections over the same app can be compared across time. The
// judgment pipeline itself never touches this package; persistence happens at
// the command layer after a run completes.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"deadclick/internal/logging"
	"deadclick/internal/pipeline"
	"deadclick/internal/types"
)

// Store is a SQLite-backed findings archive.
type Store struct {
	db *sql.DB
}

// Open opens (and migrates) the database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open findings db: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logging.StoreError("Failed to set sqlite busy_timeout: %v", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		logging.StoreError("Failed to set sqlite journal_mode=WAL: %v", err)
	}
	if _, err := db.Exec("PRAGMA synchronous = NORMAL"); err != nil {
		logging.StoreError("Failed to set sqlite synchronous=NORMAL: %v", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	started_at INTEGER NOT NULL,
	determinism TEXT NOT NULL,
	package_complete INTEGER NOT NULL,
	emitted INTEGER NOT NULL,
	dropped INTEGER NOT NULL,
	collapsed INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS findings (
	run_id TEXT NOT NULL REFERENCES runs(id),
	finding_id TEXT NOT NULL,
	type TEXT NOT NULL,
	status TEXT NOT NULL,
	severity TEXT NOT NULL,
	confidence REAL NOT NULL,
	level TEXT NOT NULL,
	summary TEXT,
	payload TEXT NOT NULL,
	PRIMARY KEY (run_id, finding_id)
);

CREATE TABLE IF NOT EXISTS silence_signals (
	run_id TEXT NOT NULL REFERENCES runs(id),
	observation_id TEXT NOT NULL,
	detector TEXT NOT NULL,
	code TEXT NOT NULL,
	message TEXT
);

CREATE INDEX IF NOT EXISTS idx_findings_type ON findings(type);
CREATE INDEX IF NOT EXISTS idx_findings_status ON findings(status);
CREATE INDEX IF NOT EXISTS idx_silences_run ON silence_signals(run_id);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("migrate findings db: %w", err)
	}
	return nil
}

// SaveRun persists one pipeline result under the given run id.
func (s *Store) SaveRun(ctx context.Context, runID string, run types.RunInputs, res pipeline.Result) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save run: %w", err)
	}
	defer tx.Rollback()

	complete := 0
	if run.EvidencePackage.IsComplete {
		complete = 1
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, determinism, package_complete, emitted, dropped, collapsed)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, time.Now().Unix(), string(run.DeterminismVerdict), complete,
		res.Summary.Emitted, len(res.Summary.DroppedIDs), len(res.Summary.CollapsedIDs))
	if err != nil {
		return fmt.Errorf("insert run %s: %w", runID, err)
	}

	for _, f := range res.Findings {
		payload, err := json.Marshal(f)
		if err != nil {
			return fmt.Errorf("marshal finding %s: %w", f.ID, err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO findings (run_id, finding_id, type, status, severity, confidence, level, summary, payload)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, f.ID, string(f.Type), string(f.Status), string(f.Severity),
			f.Confidence, string(f.Scoring.Level), f.Summary, string(payload))
		if err != nil {
			return fmt.Errorf("insert finding %s: %w", f.ID, err)
		}
	}

	for _, o := range res.Observations {
		for _, sig := range o.Silences {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO silence_signals (run_id, observation_id, detector, code, message)
				 VALUES (?, ?, ?, ?, ?)`,
				runID, o.ID, sig.Detector, sig.Code, sig.Message)
			if err != nil {
				return fmt.Errorf("insert silence for %s: %w", o.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run %s: %w", runID, err)
	}
	logging.Store("run %s saved: %d findings, %d dropped", runID, res.Summary.Emitted, len(res.Summary.DroppedIDs))
	return nil
}

// Findings loads the findings of a run in insertion order.
func (s *Store) Findings(ctx context.Context, runID string) ([]types.Finding, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM findings WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("query findings for %s: %w", runID, err)
	}
	defer rows.Close()

	var out []types.Finding
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan finding: %w", err)
		}
		var f types.Finding
		if err := json.Unmarshal([]byte(payload), &f); err != nil {
			return nil, fmt.Errorf("decode finding: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// RunSummary is one persisted run's header row.
type RunSummary struct {
	ID          string
	StartedAt   time.Time
	Determinism string
	Emitted     int
	Dropped     int
	Collapsed   int
}

// Runs lists persisted runs, newest first.
func (s *Store) Runs(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, determinism, emitted, dropped, collapsed
		 FROM runs ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var r RunSummary
		var ts int64
		if err := rows.Scan(&r.ID, &ts, &r.Determinism, &r.Emitted, &r.Dropped, &r.Collapsed); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.StartedAt = time.Unix(ts, 0)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Silences loads the silence signals recorded for a run.
func (s *Store) Silences(ctx context.Context, runID string) (map[string][]types.SilenceSignal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT observation_id, detector, code, message FROM silence_signals WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("query silences for %s: %w", runID, err)
	}
	defer rows.Close()

	out := make(map[string][]types.SilenceSignal)
	for rows.Next() {
		var obsID string
		var sig types.SilenceSignal
		if err := rows.Scan(&obsID, &sig.Detector, &sig.Code, &sig.Message); err != nil {
			return nil, fmt.Errorf("scan silence: %w", err)
		}
		out[obsID] = append(out[obsID], sig)
	}
	return out, rows.Err()
}
