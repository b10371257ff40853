package render

import (
	"bytes"
	"fmt"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/emiliopalmerini/stresschart/internal/chart"
)

const (
	legendFontSize  = 10
	legendRowHeight = 18
	legendSwatch    = 28
	legendTop       = 40
	legendLeft      = 12
)

// legendTraces returns the traces flagged for the legend, in panel order.
func legendTraces(fig *chart.Figure) []chart.Trace {
	var out []chart.Trace
	for _, p := range fig.Panels {
		for _, t := range p.Traces {
			if t.ShowLegend {
				out = append(out, t)
			}
		}
	}
	return out
}

// legendHeight is the height the legend needs for n entries.
func legendHeight(n int) int {
	return legendTop + n*legendRowHeight
}

// renderLegend draws one row per legend trace: a line sample in the trace style and its name.
func renderLegend(fig *chart.Figure, width, height int, provider gochart.RendererProvider) ([]byte, error) {
	r, err := provider(width, height)
	if err != nil {
		return nil, fmt.Errorf("legend renderer: %w", err)
	}
	f, err := gochart.GetDefaultFont()
	if err != nil {
		return nil, fmt.Errorf("legend font: %w", err)
	}

	r.SetFillColor(parseColor(fig.Layout.Background, 1))
	r.MoveTo(0, 0)
	r.LineTo(width, 0)
	r.LineTo(width, height)
	r.LineTo(0, height)
	r.Close()
	r.Fill()

	y := legendTop
	for _, t := range legendTraces(fig) {
		r.SetStrokeColor(parseColor(t.Color, t.Opacity))
		r.SetStrokeWidth(t.Width)
		if t.Dashed {
			r.SetStrokeDashArray(dashPattern)
		} else {
			r.SetStrokeDashArray(nil)
		}
		r.MoveTo(legendLeft, y)
		r.LineTo(legendLeft+legendSwatch, y)
		r.Stroke()

		r.SetFont(f)
		r.SetFontSize(legendFontSize)
		r.SetFontColor(drawing.ColorBlack)
		r.Text(t.Name, legendLeft+legendSwatch+8, y+legendFontSize/2)

		y += legendRowHeight
	}

	var buf bytes.Buffer
	if err := r.Save(&buf); err != nil {
		return nil, fmt.Errorf("save legend: %w", err)
	}
	return buf.Bytes(), nil
}
