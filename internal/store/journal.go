package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Step outcome values recorded in setup_steps.
const (
	StepOK      = "ok"
	StepFailed  = "failed"
	StepSkipped = "skipped"
)

// Run is one recorded provisioning session.
type Run struct {
	ID          string
	StartedAt   time.Time
	FinishedAt  time.Time
	Succeeded   bool
	ToolVersion string
	Steps       []StepResult
}

// StepResult is one pipeline step outcome inside a run.
type StepResult struct {
	Name     string
	Status   string
	Detail   string
	Duration time.Duration
}

// BeginRun records the start of a provisioning session.
func (s *Store) BeginRun(ctx context.Context, id, toolVersion string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO setup_runs (id, started_at, tool_version) VALUES (?, ?, ?)`,
		id, time.Now().UTC().Format(time.RFC3339Nano), toolVersion,
	)
	if err != nil {
		return fmt.Errorf("insert setup run: %w", err)
	}
	return nil
}

// RecordStep appends a step outcome to a run.
func (s *Store) RecordStep(ctx context.Context, runID string, step StepResult) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO setup_steps (run_id, name, status, detail, duration_ms) VALUES (?, ?, ?, ?, ?)`,
		runID, step.Name, step.Status, step.Detail, step.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("insert setup step: %w", err)
	}
	return nil
}

// FinishRun marks a run complete.
func (s *Store) FinishRun(ctx context.Context, runID string, succeeded bool) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE setup_runs SET finished_at = ?, succeeded = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339Nano), boolToInt(succeeded), runID,
	)
	if err != nil {
		return fmt.Errorf("finish setup run: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish setup run: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("setup run %s not found", runID)
	}
	return nil
}

// ListRuns returns the most recent provisioning sessions, newest first, with
// their step outcomes attached.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, finished_at, succeeded, tool_version
		 FROM setup_runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query setup runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var started string
		var finished sql.NullString
		var succeeded int
		var version sql.NullString
		if err := rows.Scan(&run.ID, &started, &finished, &succeeded, &version); err != nil {
			return nil, fmt.Errorf("scan setup run: %w", err)
		}
		run.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		if finished.Valid {
			run.FinishedAt, _ = time.Parse(time.RFC3339Nano, finished.String)
		}
		run.Succeeded = succeeded != 0
		run.ToolVersion = version.String
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate setup runs: %w", err)
	}

	for i := range runs {
		steps, err := s.runSteps(ctx, runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Steps = steps
	}
	return runs, nil
}

func (s *Store) runSteps(ctx context.Context, runID string) ([]StepResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, status, detail, duration_ms FROM setup_steps WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query setup steps: %w", err)
	}
	defer rows.Close()

	var steps []StepResult
	for rows.Next() {
		var step StepResult
		var detail sql.NullString
		var durationMS int64
		if err := rows.Scan(&step.Name, &step.Status, &detail, &durationMS); err != nil {
			return nil, fmt.Errorf("scan setup step: %w", err)
		}
		step.Detail = detail.String
		step.Duration = time.Duration(durationMS) * time.Millisecond
		steps = append(steps, step)
	}
	return steps, rows.Err()
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
