// Package database provides the local sqlite-backed trial store: one row per
// segmented trial plus its detected segments. One store file per study keeps
// batch runs self-contained and portable between machines.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/jmontp/LocoHub-sub016/internal/segmentation"
)

const schema = `
CREATE TABLE IF NOT EXISTS trials (
	id TEXT PRIMARY KEY,
	subject TEXT NOT NULL,
	task TEXT NOT NULL,
	archetype TEXT NOT NULL,
	source_file TEXT NOT NULL,
	sample_rate REAL NOT NULL,
	created_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS segments (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	trial_id TEXT NOT NULL REFERENCES trials(id) ON DELETE CASCADE,
	kind TEXT NOT NULL,
	start_index INTEGER NOT NULL,
	end_index INTEGER NOT NULL,
	start_time REAL NOT NULL,
	end_time REAL NOT NULL,
	duration REAL NOT NULL,
	flight_duration REAL NOT NULL DEFAULT 0,
	mid_time REAL NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_segments_trial ON segments(trial_id);
`

// Client holds the connection to a trial store.
type Client struct {
	db     *sql.DB
	logger *zap.SugaredLogger
}

// NewClient opens (creating if needed) the trial store at path and applies
// the schema. Use ":memory:" for an ephemeral store.
func NewClient(path string, logger *zap.SugaredLogger) (*Client, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening trial store %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying trial store schema: %w", err)
	}
	return &Client{db: db, logger: logger}, nil
}

// Close closes the underlying database.
func (c *Client) Close() error {
	return c.db.Close()
}

// SaveTrial stores a trial and its segments atomically and returns the
// assigned trial ID.
func (c *Client) SaveTrial(ctx context.Context, trial Trial, segments []segmentation.Segment) (string, error) {
	if trial.ID == "" {
		trial.ID = uuid.NewString()
	}
	if trial.CreatedAt.IsZero() {
		trial.CreatedAt = time.Now().UTC()
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO trials (id, subject, task, archetype, source_file, sample_rate, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		trial.ID, trial.Subject, trial.Task, trial.Archetype, trial.SourceFile,
		trial.SampleRate, trial.CreatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert trial: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO segments (trial_id, kind, start_index, end_index, start_time, end_time, duration, flight_duration, mid_time)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return "", fmt.Errorf("failed to prepare segment insert: %w", err)
	}
	defer stmt.Close()

	for _, s := range segments {
		_, err = stmt.ExecContext(ctx, trial.ID, string(s.Kind), s.StartIndex, s.EndIndex,
			s.StartTime, s.EndTime, s.Duration, s.FlightDuration, s.MidTime)
		if err != nil {
			return "", fmt.Errorf("failed to insert segment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit trial: %w", err)
	}

	if c.logger != nil {
		c.logger.Debugf("Stored trial %s with %d segments", trial.ID, len(segments))
	}
	return trial.ID, nil
}

// ListTrials returns all stored trials, newest first.
func (c *Client) ListTrials(ctx context.Context) ([]Trial, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT id, subject, task, archetype, source_file, sample_rate, created_at
		 FROM trials ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying trials: %w", err)
	}
	defer rows.Close()

	var trials []Trial
	for rows.Next() {
		var t Trial
		if err := rows.Scan(&t.ID, &t.Subject, &t.Task, &t.Archetype,
			&t.SourceFile, &t.SampleRate, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning trial: %w", err)
		}
		trials = append(trials, t)
	}
	return trials, rows.Err()
}

// GetTrial fetches one trial by ID. The second return is false when the
// trial does not exist.
func (c *Client) GetTrial(ctx context.Context, id string) (Trial, bool, error) {
	var t Trial
	err := c.db.QueryRowContext(ctx,
		`SELECT id, subject, task, archetype, source_file, sample_rate, created_at
		 FROM trials WHERE id = ?`, id).
		Scan(&t.ID, &t.Subject, &t.Task, &t.Archetype, &t.SourceFile, &t.SampleRate, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return Trial{}, false, nil
	}
	if err != nil {
		return Trial{}, false, fmt.Errorf("querying trial %s: %w", id, err)
	}
	return t, true, nil
}

// GetSegments returns a trial's segments ordered by start time.
func (c *Client) GetSegments(ctx context.Context, trialID string) ([]SegmentRecord, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT id, trial_id, kind, start_index, end_index, start_time, end_time, duration, flight_duration, mid_time
		 FROM segments WHERE trial_id = ? ORDER BY start_time`, trialID)
	if err != nil {
		return nil, fmt.Errorf("querying segments for %s: %w", trialID, err)
	}
	defer rows.Close()

	var segments []SegmentRecord
	for rows.Next() {
		var s SegmentRecord
		if err := rows.Scan(&s.ID, &s.TrialID, &s.Kind, &s.StartIndex, &s.EndIndex,
			&s.StartTime, &s.EndTime, &s.Duration, &s.FlightDuration, &s.MidTime); err != nil {
			return nil, fmt.Errorf("scanning segment: %w", err)
		}
		segments = append(segments, s)
	}
	return segments, rows.Err()
}

// CountsByKind tallies a trial's segments per kind.
func (c *Client) CountsByKind(ctx context.Context, trialID string) ([]KindCount, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT kind, COUNT(*) FROM segments WHERE trial_id = ? GROUP BY kind ORDER BY kind`, trialID)
	if err != nil {
		return nil, fmt.Errorf("counting segments for %s: %w", trialID, err)
	}
	defer rows.Close()

	var counts []KindCount
	for rows.Next() {
		var kc KindCount
		if err := rows.Scan(&kc.Kind, &kc.Count); err != nil {
			return nil, fmt.Errorf("scanning count: %w", err)
		}
		counts = append(counts, kc)
	}
	return counts, rows.Err()
}
