package ports

import (
	"context"
	"time"
)

// MetricsExporter exports run metrics to an external observability system.
type MetricsExporter interface {
	// ExportRunMetrics records one generate-and-render run.
	ExportRunMetrics(ctx context.Context, m *RunMetrics) error
	// Close shuts down the exporter and flushes any pending metrics.
	Close(ctx context.Context) error
}

// RunMetrics describes one run for export.
type RunMetrics struct {
	RunID          string
	Seed           int64
	PopulationSize int
	CohortSize     int

	Format         string
	TracesRendered int
	RenderDuration time.Duration
}
