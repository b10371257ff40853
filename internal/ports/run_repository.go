package ports

import (
	"context"

	"github.com/emiliopalmerini/stresschart/internal/domain"
)

// RunRepository archives generated runs.
type RunRepository interface {
	Save(ctx context.Context, run *domain.Run) error
	// Get returns the run with both datasets loaded, or domain.ErrRunNotFound.
	Get(ctx context.Context, id string) (*domain.Run, error)
	// List returns runs without datasets, newest first.
	List(ctx context.Context, limit int) ([]*domain.Run, error)
	Delete(ctx context.Context, id string) error
	// Summaries returns the statistics stored with the run, cohort first, in
	// metric and phase order.
	Summaries(ctx context.Context, id string) ([]domain.SummaryRow, error)
}
