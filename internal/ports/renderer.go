package ports

import (
	"context"
	"io"

	"github.com/emiliopalmerini/stresschart/internal/chart"
)

// Renderer writes a figure in a concrete output format.
type Renderer interface {
	// Render validates fig and writes it to w.
	Render(ctx context.Context, w io.Writer, fig *chart.Figure) error
	// ContentType is the MIME type of the rendered output.
	ContentType() string
}
