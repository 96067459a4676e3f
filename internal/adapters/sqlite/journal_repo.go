// Package sqlite contains the SQLite implementation of the run journal.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/enderlabs/octoeb/internal/ports/secondary"
)

// JournalRepository implements secondary.RunJournal with SQLite.
type JournalRepository struct {
	db *sql.DB
}

var _ secondary.RunJournal = (*JournalRepository)(nil)

// NewJournalRepository creates a new SQLite run journal.
func NewJournalRepository(db *sql.DB) *JournalRepository {
	return &JournalRepository{db: db}
}

// Record persists a run and its step outcomes in one transaction.
func (r *JournalRepository) Record(ctx context.Context, run *secondary.RunRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var branch sql.NullString
	if run.Branch != "" {
		branch = sql.NullString{String: run.Branch, Valid: true}
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (action, version, branch, outcome, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.Action, run.Version, branch, run.Outcome, run.StartedAt, run.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get run id: %w", err)
	}

	for _, step := range run.Steps {
		var detail sql.NullString
		if step.Detail != "" {
			detail = sql.NullString{String: step.Detail, Valid: true}
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_steps (run_id, seq, description, status, detail)
			 VALUES (?, ?, ?, ?, ?)`,
			id, step.Seq, step.Description, step.Status, detail,
		); err != nil {
			return fmt.Errorf("failed to record run step %d: %w", step.Seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	run.ID = id
	return nil
}

// List returns the most recent runs, newest first, with their steps.
func (r *JournalRepository) List(ctx context.Context, limit int) ([]*secondary.RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, action, version, branch, outcome, started_at, finished_at
		 FROM runs ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*secondary.RunRecord
	for rows.Next() {
		var branch sql.NullString
		run := &secondary.RunRecord{}
		if err := rows.Scan(&run.ID, &run.Action, &run.Version, &branch, &run.Outcome, &run.StartedAt, &run.FinishedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.Branch = branch.String
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}

	for _, run := range runs {
		if err := r.loadSteps(ctx, run); err != nil {
			return nil, err
		}
	}
	return runs, nil
}

func (r *JournalRepository) loadSteps(ctx context.Context, run *secondary.RunRecord) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT seq, description, status, detail
		 FROM run_steps WHERE run_id = ? ORDER BY seq`,
		run.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to load steps for run %d: %w", run.ID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var detail sql.NullString
		var step secondary.RunStep
		if err := rows.Scan(&step.Seq, &step.Description, &step.Status, &detail); err != nil {
			return fmt.Errorf("failed to scan run step: %w", err)
		}
		step.Detail = detail.String
		run.Steps = append(run.Steps, step)
	}
	return rows.Err()
}
