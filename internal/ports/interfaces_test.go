package ports_test

import (
	"testing"

	"github.com/emiliopalmerini/stresschart/internal/adapters/otel"
	"github.com/emiliopalmerini/stresschart/internal/adapters/render"
	"github.com/emiliopalmerini/stresschart/internal/adapters/turso"
	"github.com/emiliopalmerini/stresschart/internal/cli"
	"github.com/emiliopalmerini/stresschart/internal/ports"
)

// Compile-time interface conformance checks.
// These verify that concrete adapters properly implement their port interfaces.

func TestRunRepositoryConformance(t *testing.T) {
	var _ ports.RunRepository = (*turso.RunRepository)(nil)
}

func TestMetricsExporterConformance(t *testing.T) {
	var _ ports.MetricsExporter = (*otel.Exporter)(nil)
	var _ ports.MetricsExporter = (*otel.NoOpExporter)(nil)
}

func TestRendererConformance(t *testing.T) {
	var _ ports.Renderer = (*render.PNGRenderer)(nil)
	var _ ports.Renderer = (*render.HTMLRenderer)(nil)
}

func TestLoggerConformance(t *testing.T) {
	var _ ports.Logger = (*cli.StderrLogger)(nil)
}
