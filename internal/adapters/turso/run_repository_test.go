package turso_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/emiliopalmerini/stresschart/internal/adapters/turso"
	"github.com/emiliopalmerini/stresschart/internal/domain"
	"github.com/emiliopalmerini/stresschart/internal/generator"
)

func newRun(t *testing.T, seed int64, createdAt time.Time) *domain.Run {
	t.Helper()
	study, err := generator.GenerateStudy(seed, 40, 6)
	if err != nil {
		t.Fatalf("generate study: %v", err)
	}
	return &domain.Run{
		ID:             uuid.NewString(),
		Seed:           seed,
		PopulationSize: 40,
		CohortSize:     6,
		CreatedAt:      createdAt,
		Population:     study.Population,
		Cohort:         study.Cohort,
	}
}

func TestRunRepository_SaveAndGet(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := turso.NewRunRepository(db)

	run := newRun(t, 42, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	if err := repo.Save(ctx, run); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := repo.Get(ctx, run.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Seed != 42 || got.PopulationSize != 40 || got.CohortSize != 6 {
		t.Errorf("unexpected run header %+v", got)
	}
	if !got.CreatedAt.Equal(run.CreatedAt) {
		t.Errorf("expected created_at %v, got %v", run.CreatedAt, got.CreatedAt)
	}
	if got.Population.Len() != 40 || got.Cohort.Len() != 6 {
		t.Fatalf("expected 40/6 records, got %d/%d", got.Population.Len(), got.Cohort.Len())
	}
	for i, rec := range run.Cohort.Records {
		if got.Cohort.Records[i] != rec {
			t.Errorf("cohort record %d: expected %+v, got %+v", i, rec, got.Cohort.Records[i])
		}
	}
	if got.Population.Records[0].ID != 0 || got.Population.Records[39].ID != 39 {
		t.Errorf("population records out of order")
	}

	var summaries int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM summaries WHERE run_id = ?`, run.ID).Scan(&summaries); err != nil {
		t.Fatalf("count summaries: %v", err)
	}
	if summaries != 12 {
		t.Errorf("expected 12 summary rows, got %d", summaries)
	}
}

func TestRunRepository_List(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := turso.NewRunRepository(db)

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	older := newRun(t, 1, base)
	newer := newRun(t, 2, base.Add(time.Hour))
	for _, r := range []*domain.Run{older, newer} {
		if err := repo.Save(ctx, r); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	runs, err := repo.List(ctx, 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != newer.ID {
		t.Errorf("expected newest run first")
	}
	if runs[0].Cohort != nil {
		t.Errorf("expected List to omit datasets")
	}

	runs, err = repo.List(ctx, 1)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("expected limit 1 to return 1 run, got %d", len(runs))
	}
}

func TestRunRepository_ListOrdersWithinSecond(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := turso.NewRunRepository(db)

	base := time.Date(2026, 3, 1, 12, 0, 5, 0, time.UTC)
	a := newRun(t, 1, base)
	b := newRun(t, 2, base.Add(100*time.Millisecond))
	c := newRun(t, 3, base.Add(120*time.Millisecond))
	for _, r := range []*domain.Run{a, b, c} {
		if err := repo.Save(ctx, r); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	runs, err := repo.List(ctx, 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	want := []*domain.Run{c, b, a}
	if len(runs) != len(want) {
		t.Fatalf("expected %d runs, got %d", len(want), len(runs))
	}
	for i, r := range want {
		if runs[i].ID != r.ID {
			t.Errorf("position %d: expected seed %d, got seed %d", i, r.Seed, runs[i].Seed)
		}
	}
	if !runs[0].CreatedAt.Equal(c.CreatedAt) {
		t.Errorf("expected created_at %v, got %v", c.CreatedAt, runs[0].CreatedAt)
	}
}

func TestRunRepository_Summaries(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := turso.NewRunRepository(db)

	run := newRun(t, 42, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	if err := repo.Save(ctx, run); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := repo.Summaries(ctx, run.ID)
	if err != nil {
		t.Fatalf("Summaries failed: %v", err)
	}
	cohort, err := run.Cohort.SummaryTable()
	if err != nil {
		t.Fatalf("cohort summary: %v", err)
	}
	population, err := run.Population.SummaryTable()
	if err != nil {
		t.Fatalf("population summary: %v", err)
	}
	want := append(cohort, population...)
	if len(got) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}

	if _, err := repo.Summaries(ctx, "missing"); !errors.Is(err, domain.ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
}

func TestRunRepository_Delete(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := turso.NewRunRepository(db)

	run := newRun(t, 7, time.Now().UTC())
	if err := repo.Save(ctx, run); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := repo.Delete(ctx, run.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := repo.Get(ctx, run.ID); !errors.Is(err, domain.ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound after delete, got %v", err)
	}
	var subjects int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM subjects WHERE run_id = ?`, run.ID).Scan(&subjects); err != nil {
		t.Fatalf("count subjects: %v", err)
	}
	if subjects != 0 {
		t.Errorf("expected subjects to be deleted, got %d", subjects)
	}
	if err := repo.Delete(ctx, run.ID); !errors.Is(err, domain.ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound for second delete, got %v", err)
	}
}
