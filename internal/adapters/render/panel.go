package render

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/emiliopalmerini/stresschart/internal/chart"
)

const (
	dotWidth = 4
	// categories sit at x=0 and x=1; the range leaves room for markers.
	categoryMargin = 0.25
	yPadding       = 0.08
)

var dashPattern = []float64{6, 4}

func parseColor(hex string, opacity float64) drawing.Color {
	if hex == "" {
		return drawing.ColorTransparent
	}
	c := drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
	if opacity > 0 && opacity < 1 {
		c = c.WithAlpha(uint8(math.Round(opacity * 255)))
	}
	return c
}

// panelChart maps one panel onto a go-chart Chart of the given pixel size.
func panelChart(p *chart.Panel, background string, width, height int) gochart.Chart {
	bg := parseColor(background, 1)
	grid := gochart.Style{
		Hidden:      !p.Axes.ShowGrid,
		StrokeColor: parseColor(p.Axes.GridColor, 1),
		StrokeWidth: 1,
	}

	lo, hi := p.YRange()
	pad := (hi - lo) * yPadding
	if pad == 0 {
		pad = 1
	}

	ticks := make([]gochart.Tick, 0, 2)
	gridLines := make([]gochart.GridLine, 0, 2)
	if len(p.Traces) > 0 {
		for i, label := range p.Traces[0].X {
			ticks = append(ticks, gochart.Tick{Value: float64(i), Label: label})
			gridLines = append(gridLines, gochart.GridLine{Value: float64(i)})
		}
	}

	series := make([]gochart.Series, 0, len(p.Traces))
	for _, t := range p.Traces {
		xs := make([]float64, len(t.Y))
		for i := range xs {
			xs[i] = float64(i)
		}
		style := gochart.Style{
			StrokeColor: parseColor(t.Color, t.Opacity),
			StrokeWidth: t.Width,
			DotColor:    parseColor(t.Color, t.Opacity),
			DotWidth:    dotWidth,
		}
		if t.Dashed {
			style.StrokeDashArray = dashPattern
		}
		series = append(series, gochart.ContinuousSeries{
			Name:    t.Name,
			Style:   style,
			XValues: xs,
			YValues: t.Y,
		})
	}

	c := gochart.Chart{
		Title:      p.Title,
		TitleStyle: gochart.Style{FontSize: 12},
		Width:      width,
		Height:     height,
		Background: gochart.Style{
			FillColor: bg,
			Padding:   gochart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		Canvas: gochart.Style{FillColor: bg},
		XAxis: gochart.XAxis{
			Range:          &gochart.ContinuousRange{Min: -categoryMargin, Max: float64(len(ticks)-1) + categoryMargin},
			Ticks:          ticks,
			GridLines:      gridLines,
			GridMajorStyle: grid,
		},
		YAxis: gochart.YAxis{
			Range:          &gochart.ContinuousRange{Min: lo - pad, Max: hi + pad},
			GridMajorStyle: grid,
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f", f)
				}
				return ""
			},
		},
		Series: series,
	}
	return c
}

// renderPanel renders one panel with the given go-chart backend.
func renderPanel(p *chart.Panel, background string, width, height int, provider gochart.RendererProvider) ([]byte, error) {
	c := panelChart(p, background, width, height)
	var buf bytes.Buffer
	if err := c.Render(provider, &buf); err != nil {
		return nil, fmt.Errorf("render panel %q: %w", p.Title, err)
	}
	return buf.Bytes(), nil
}
