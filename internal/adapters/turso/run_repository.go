package turso

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/emiliopalmerini/stresschart/internal/domain"
)

// createdAtLayout is fixed-width so that created_at sorts chronologically as text.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

type RunRepository struct {
	db *sql.DB
}

func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Save stores the run, its subject records and their summary statistics in one transaction.
func (r *RunRepository) Save(ctx context.Context, run *domain.Run) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, seed, population_size, cohort_size, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, run.ID, run.Seed, run.PopulationSize, run.CohortSize, run.CreatedAt.UTC().Format(createdAtLayout))
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for _, ds := range []*domain.Dataset{run.Population, run.Cohort} {
		if ds == nil {
			continue
		}
		if err := insertDataset(ctx, tx, run.ID, ds); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

func insertDataset(ctx context.Context, tx *sql.Tx, runID string, ds *domain.Dataset) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO subjects (
			run_id, kind, subject_id,
			ef_rest, ef_stress,
			heart_rate_rest, heart_rate_stress,
			systolic_bp_rest, systolic_bp_stress
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare subject insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range ds.Records {
		_, err := stmt.ExecContext(ctx, runID, string(ds.Kind), rec.ID,
			rec.EF.Rest, rec.EF.Stress,
			rec.HeartRate.Rest, rec.HeartRate.Stress,
			rec.SystolicBP.Rest, rec.SystolicBP.Stress)
		if err != nil {
			return fmt.Errorf("failed to insert %s subject %d: %w", ds.Kind, rec.ID, err)
		}
	}

	if ds.Len() == 0 {
		return nil
	}
	rows, err := ds.SummaryTable()
	if err != nil {
		return err
	}
	for _, row := range rows {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO summaries (run_id, kind, metric, phase, n, mean, sd)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, runID, string(row.Kind), row.Metric.String(), row.Phase.String(), row.N, row.Mean, row.SD)
		if err != nil {
			return fmt.Errorf("failed to insert summary: %w", err)
		}
	}
	return nil
}

// Get loads a run with both datasets, ordered by subject identifier.
func (r *RunRepository) Get(ctx context.Context, id string) (*domain.Run, error) {
	return withRetry(ctx, readRetries, func() (*domain.Run, error) {
		return r.get(ctx, id)
	})
}

func (r *RunRepository) get(ctx context.Context, id string) (*domain.Run, error) {
	run, err := scanRun(r.db.QueryRowContext(ctx, `
		SELECT id, seed, population_size, cohort_size, created_at FROM runs WHERE id = ?
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", id, domain.ErrRunNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	run.Population = &domain.Dataset{Kind: domain.KindPopulation}
	run.Cohort = &domain.Dataset{Kind: domain.KindCohort}

	rows, err := r.db.QueryContext(ctx, `
		SELECT kind, subject_id,
			ef_rest, ef_stress,
			heart_rate_rest, heart_rate_stress,
			systolic_bp_rest, systolic_bp_stress
		FROM subjects WHERE run_id = ? ORDER BY kind, subject_id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load subjects: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var kind string
		var rec domain.SubjectRecord
		if err := rows.Scan(&kind, &rec.ID,
			&rec.EF.Rest, &rec.EF.Stress,
			&rec.HeartRate.Rest, &rec.HeartRate.Stress,
			&rec.SystolicBP.Rest, &rec.SystolicBP.Stress); err != nil {
			return nil, fmt.Errorf("failed to scan subject: %w", err)
		}
		switch domain.DatasetKind(kind) {
		case domain.KindPopulation:
			run.Population.Records = append(run.Population.Records, rec)
		case domain.KindCohort:
			run.Cohort.Records = append(run.Cohort.Records, rec)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load subjects: %w", err)
	}

	return run, nil
}

func (r *RunRepository) List(ctx context.Context, limit int) ([]*domain.Run, error) {
	if limit <= 0 {
		limit = 50
	}
	return withRetry(ctx, readRetries, func() ([]*domain.Run, error) {
		return r.list(ctx, limit)
	})
}

func (r *RunRepository) list(ctx context.Context, limit int) ([]*domain.Run, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, seed, population_size, cohort_size, created_at
		FROM runs ORDER BY created_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*domain.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Delete removes the run with its subjects and summaries.
func (r *RunRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"summaries", "subjects"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE run_id = ?", id); err != nil {
			return fmt.Errorf("failed to delete %s: %w", table, err)
		}
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: %w", id, domain.ErrRunNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*domain.Run, error) {
	var run domain.Run
	var createdAt string
	if err := row.Scan(&run.ID, &run.Seed, &run.PopulationSize, &run.CohortSize, &createdAt); err != nil {
		return nil, err
	}
	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	run.CreatedAt = t
	return &run, nil
}

// Summaries returns the statistics stored when the run was saved.
func (r *RunRepository) Summaries(ctx context.Context, id string) ([]domain.SummaryRow, error) {
	return withRetry(ctx, readRetries, func() ([]domain.SummaryRow, error) {
		return r.summaries(ctx, id)
	})
}

func (r *RunRepository) summaries(ctx context.Context, id string) ([]domain.SummaryRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT kind, metric, phase, n, mean, sd FROM summaries WHERE run_id = ?
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load summaries: %w", err)
	}
	defer rows.Close()

	var out []domain.SummaryRow
	for rows.Next() {
		var kind, metric, phase string
		var row domain.SummaryRow
		if err := rows.Scan(&kind, &metric, &phase, &row.N, &row.Mean, &row.SD); err != nil {
			return nil, fmt.Errorf("failed to scan summary: %w", err)
		}
		if row.Kind, err = domain.ParseDatasetKind(kind); err != nil {
			return nil, err
		}
		if row.Metric, err = domain.ParseMetric(metric); err != nil {
			return nil, err
		}
		if row.Phase, err = domain.ParsePhase(phase); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load summaries: %w", err)
	}
	if len(out) == 0 {
		var exists int
		err := r.db.QueryRowContext(ctx, `SELECT 1 FROM runs WHERE id = ?`, id).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", id, domain.ErrRunNotFound)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get run: %w", err)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Kind != b.Kind {
			return a.Kind == domain.KindCohort
		}
		if a.Metric != b.Metric {
			return a.Metric < b.Metric
		}
		return a.Phase < b.Phase
	})
	return out, nil
}
