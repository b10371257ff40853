// Package report ties generation, figure building and rendering into runs.
package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/emiliopalmerini/stresschart/internal/adapters/render"
	"github.com/emiliopalmerini/stresschart/internal/chart"
	"github.com/emiliopalmerini/stresschart/internal/domain"
	"github.com/emiliopalmerini/stresschart/internal/generator"
	"github.com/emiliopalmerini/stresschart/internal/ports"
)

// ErrNoArchive is returned by archive operations when no run repository is configured.
var ErrNoArchive = errors.New("run archive is not configured")

// Service provides the generate, render and archive workflow.
type Service struct {
	builder  *chart.Builder
	exporter ports.MetricsExporter
	runs     ports.RunRepository
	logger   ports.Logger
	now      func() time.Time
}

// NewService creates a new report service. runs may be nil when no archive is used.
func NewService(exporter ports.MetricsExporter, runs ports.RunRepository, logger ports.Logger) *Service {
	return &Service{
		builder:  chart.NewBuilder(chart.DefaultOptions()),
		exporter: exporter,
		runs:     runs,
		logger:   logger,
		now:      time.Now,
	}
}

// NewRun generates both datasets for seed and assigns the run a fresh ID.
func (s *Service) NewRun(seed int64, populationSize, cohortSize int) (*domain.Run, error) {
	s.logger.Debug(fmt.Sprintf("Generating run seed=%d population=%d cohort=%d", seed, populationSize, cohortSize))

	study, err := generator.GenerateStudy(seed, populationSize, cohortSize)
	if err != nil {
		return nil, err
	}
	return &domain.Run{
		ID:             uuid.NewString(),
		Seed:           seed,
		PopulationSize: populationSize,
		CohortSize:     cohortSize,
		CreatedAt:      s.now().UTC(),
		Population:     study.Population,
		Cohort:         study.Cohort,
	}, nil
}

// Figure builds the comparison figure for run.
func (s *Service) Figure(run *domain.Run) (*chart.Figure, error) {
	return s.builder.Build(run.Cohort, run.Population)
}

// Render builds and renders the figure for run. Nothing is written to w unless
// rendering succeeds.
func (s *Service) Render(ctx context.Context, w io.Writer, run *domain.Run, format render.Format) (*chart.Figure, error) {
	renderer, err := render.New(format)
	if err != nil {
		return nil, err
	}

	fig, err := s.Figure(run)
	if err != nil {
		return nil, fmt.Errorf("build figure: %w", err)
	}

	start := s.now()
	var buf bytes.Buffer
	if err := renderer.Render(ctx, &buf, fig); err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	elapsed := s.now().Sub(start)

	if _, err := buf.WriteTo(w); err != nil {
		return nil, fmt.Errorf("write %s: %w", format, err)
	}

	s.logger.Debug(fmt.Sprintf("Rendered %d traces as %s in %s", fig.TraceCount(), format, elapsed))

	err = s.exporter.ExportRunMetrics(ctx, &ports.RunMetrics{
		RunID:          run.ID,
		Seed:           run.Seed,
		PopulationSize: run.Population.Len(),
		CohortSize:     run.Cohort.Len(),
		Format:         string(format),
		TracesRendered: fig.TraceCount(),
		RenderDuration: elapsed,
	})
	if err != nil {
		s.logger.Error(fmt.Sprintf("Failed to export run metrics: %v", err))
	}

	return fig, nil
}

// Save archives run.
func (s *Service) Save(ctx context.Context, run *domain.Run) error {
	if s.runs == nil {
		return ErrNoArchive
	}
	if err := s.runs.Save(ctx, run); err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	s.logger.Info(fmt.Sprintf("Saved run %s", run.ID))
	return nil
}

// Load returns an archived run with its datasets.
func (s *Service) Load(ctx context.Context, id string) (*domain.Run, error) {
	if s.runs == nil {
		return nil, ErrNoArchive
	}
	return s.runs.Get(ctx, id)
}

// List returns archived runs, newest first.
func (s *Service) List(ctx context.Context, limit int) ([]*domain.Run, error) {
	if s.runs == nil {
		return nil, ErrNoArchive
	}
	return s.runs.List(ctx, limit)
}

// Delete removes an archived run.
func (s *Service) Delete(ctx context.Context, id string) error {
	if s.runs == nil {
		return ErrNoArchive
	}
	return s.runs.Delete(ctx, id)
}

// Summaries returns the statistics stored with an archived run.
func (s *Service) Summaries(ctx context.Context, id string) ([]domain.SummaryRow, error) {
	if s.runs == nil {
		return nil, ErrNoArchive
	}
	return s.runs.Summaries(ctx, id)
}
