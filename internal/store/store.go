package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ventureboard/risklab/internal/domain"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a run id is not in the store.
var ErrNotFound = errors.New("run not found")

// timeLayout is fixed-width so created_at sorts chronologically as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// RunSummary is the listing view of a stored run.
type RunSummary struct {
	RunID          string                `json:"run_id"`
	StartupID      string                `json:"startup_id"`
	Scenario       string                `json:"scenario"`
	Iterations     int                   `json:"iterations"`
	Median         float64               `json:"median"`
	SuccessRate    float64               `json:"success_rate"`
	Recommendation domain.Recommendation `json:"recommendation"`
	CreatedAt      time.Time             `json:"created_at"`
}

// RunStore persists analyzed runs in SQLite. Trial trajectories are never stored.
type RunStore struct {
	db     *sql.DB
	dbPath string
}

// NewRunStore opens (and creates if needed) the SQLite database at path.
func NewRunStore(path string) (*RunStore, error) {
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one connection keeps :memory: databases shared and serializes writers
	db.SetMaxOpenConns(1)

	s := &RunStore{db: db, dbPath: path}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *RunStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		startup_id TEXT NOT NULL,
		startup_name TEXT,
		scenario TEXT NOT NULL,
		iterations INTEGER NOT NULL,
		horizon INTEGER NOT NULL,
		seed INTEGER NOT NULL,
		baseline REAL NOT NULL,
		params_json TEXT NOT NULL,
		metrics_json TEXT NOT NULL,
		advice_json TEXT NOT NULL,
		band_json TEXT,
		narrative TEXT,
		duration_ns INTEGER,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_startup ON runs(startup_id, created_at);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create runs table: %w", err)
	}
	return nil
}

// Path returns the database file path.
func (s *RunStore) Path() string { return s.dbPath }

// Close closes the database.
func (s *RunStore) Close() error {
	return s.db.Close()
}

// SaveRun inserts or replaces a run.
func (s *RunStore) SaveRun(ctx context.Context, r *domain.RiskReport) error {
	if r == nil || r.RunID == "" {
		return fmt.Errorf("%w: run id is required", domain.ErrInvalidArgument)
	}
	params, err := json.Marshal(r.Params)
	if err != nil {
		return fmt.Errorf("failed to encode params: %w", err)
	}
	metrics, err := json.Marshal(r.Metrics)
	if err != nil {
		return fmt.Errorf("failed to encode metrics: %w", err)
	}
	advice, err := json.Marshal(r.Advice)
	if err != nil {
		return fmt.Errorf("failed to encode advice: %w", err)
	}
	band, err := json.Marshal(r.Band)
	if err != nil {
		return fmt.Errorf("failed to encode band: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO runs (run_id, startup_id, startup_name, scenario, iterations, horizon, seed,
			baseline, params_json, metrics_json, advice_json, band_json, narrative, duration_ns, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.StartupID, r.StartupName, r.Scenario, r.Iterations, r.Horizon, r.Seed,
		r.Baseline, string(params), string(metrics), string(advice), string(band), r.Narrative,
		int64(r.Duration), r.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("failed to save run %s: %w", r.RunID, err)
	}
	return nil
}

// GetRun loads a stored run. The returned report has no trials.
func (s *RunStore) GetRun(ctx context.Context, id string) (*domain.RiskReport, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT run_id, startup_id, startup_name, scenario, iterations, horizon, seed, baseline,
			params_json, metrics_json, advice_json, band_json, narrative, duration_ns, created_at
		FROM runs WHERE run_id = ?`, id)

	var (
		r                             domain.RiskReport
		params, metrics, advice, band string
		narrative                     sql.NullString
		durationNS                    sql.NullInt64
		createdAt                     string
	)
	err := row.Scan(&r.RunID, &r.StartupID, &r.StartupName, &r.Scenario, &r.Iterations, &r.Horizon, &r.Seed,
		&r.Baseline, &params, &metrics, &advice, &band, &narrative, &durationNS, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load run %s: %w", id, err)
	}

	if err := json.Unmarshal([]byte(params), &r.Params); err != nil {
		return nil, fmt.Errorf("failed to decode params: %w", err)
	}
	if err := json.Unmarshal([]byte(metrics), &r.Metrics); err != nil {
		return nil, fmt.Errorf("failed to decode metrics: %w", err)
	}
	if err := json.Unmarshal([]byte(advice), &r.Advice); err != nil {
		return nil, fmt.Errorf("failed to decode advice: %w", err)
	}
	if band != "" && band != "null" {
		if err := json.Unmarshal([]byte(band), &r.Band); err != nil {
			return nil, fmt.Errorf("failed to decode band: %w", err)
		}
	}
	r.Narrative = narrative.String
	r.Duration = time.Duration(durationNS.Int64)
	if r.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return nil, fmt.Errorf("failed to decode created_at: %w", err)
	}
	return &r, nil
}

// ListRuns returns stored runs newest first. An empty startupID lists every startup;
// limit <= 0 means no limit.
func (s *RunStore) ListRuns(ctx context.Context, startupID string, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, startup_id, scenario, iterations, metrics_json, advice_json, created_at
		FROM runs
		WHERE (? = '' OR startup_id = ?)
		ORDER BY created_at DESC, run_id
		LIMIT ?`, startupID, startupID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	runs := []RunSummary{}
	for rows.Next() {
		var (
			sum                         RunSummary
			metricsJSON, adviceJSON, at string
			metrics                     domain.RiskMetrics
			advice                      domain.InvestmentAdvice
		)
		if err := rows.Scan(&sum.RunID, &sum.StartupID, &sum.Scenario, &sum.Iterations, &metricsJSON, &adviceJSON, &at); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if err := json.Unmarshal([]byte(metricsJSON), &metrics); err != nil {
			return nil, fmt.Errorf("failed to decode metrics: %w", err)
		}
		if err := json.Unmarshal([]byte(adviceJSON), &advice); err != nil {
			return nil, fmt.Errorf("failed to decode advice: %w", err)
		}
		sum.Median = metrics.Median
		sum.SuccessRate = metrics.SuccessRate
		sum.Recommendation = advice.Recommendation
		if sum.CreatedAt, err = time.Parse(timeLayout, at); err != nil {
			return nil, fmt.Errorf("failed to decode created_at: %w", err)
		}
		runs = append(runs, sum)
	}
	return runs, rows.Err()
}

// DeleteRun removes a run.
func (s *RunStore) DeleteRun(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE run_id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete run %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete run %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}
