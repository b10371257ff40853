package render

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
	gochart "github.com/wcharczuk/go-chart/v2"

	"github.com/emiliopalmerini/stresschart/internal/chart"
	"github.com/emiliopalmerini/stresschart/internal/domain"
)

// HTMLRenderer writes a standalone page with one inline SVG per panel, the
// shared legend and a summary-statistics table.
type HTMLRenderer struct{}

func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{}
}

func (r *HTMLRenderer) ContentType() string { return "text/html; charset=utf-8" }

func (r *HTMLRenderer) Render(ctx context.Context, w io.Writer, fig *chart.Figure) error {
	if err := fig.Validate(); err != nil {
		return err
	}

	layout := layoutFigure(fig)
	svgs := make([]string, len(fig.Panels))
	for i := range fig.Panels {
		if err := ctx.Err(); err != nil {
			return err
		}
		box := layout.Panels[i]
		raw, err := renderPanel(&fig.Panels[i], fig.Layout.Background, box.Dx(), box.Dy(), gochart.SVG)
		if err != nil {
			return err
		}
		svgs[i] = string(raw)
	}

	legend, err := renderLegend(fig, layout.Legend.Dx(), layout.Legend.Dy(), gochart.SVG)
	if err != nil {
		return err
	}

	return figurePage(fig, svgs, string(legend)).Render(ctx, w)
}

func figurePage(fig *chart.Figure, svgs []string, legend string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		title := templ.EscapeString(fig.Layout.Title)
		if _, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: sans-serif; background: %s; margin: 1rem; }
.panels { display: flex; flex-direction: row; width: %dpx; }
.panel, .legend { flex: none; }
table { border-collapse: collapse; margin-top: 1rem; }
th, td { border: 1px solid %s; padding: 0.25rem 0.75rem; text-align: right; }
th:first-child, td:first-child, td:nth-child(2) { text-align: left; }
</style>
</head>
<body>
<h1>%s</h1>
<div class="panels">
`, title, templ.EscapeString(fig.Layout.Background), fig.Layout.Width, chart.ColorLightGray, title); err != nil {
			return err
		}

		for i, svg := range svgs {
			if _, err := fmt.Fprintf(w, "<div class=\"panel\" data-metric=\"%s\">", templ.EscapeString(fig.Panels[i].Metric.String())); err != nil {
				return err
			}
			if err := templ.Raw(svg).Render(ctx, w); err != nil {
				return err
			}
			if _, err := io.WriteString(w, "</div>\n"); err != nil {
				return err
			}
		}

		if _, err := io.WriteString(w, `<div class="legend">`); err != nil {
			return err
		}
		if err := templ.Raw(legend).Render(ctx, w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "</div>\n"); err != nil {
			return err
		}

		if err := summaryTable(fig).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</body>\n</html>\n")
		return err
	})
}

func summaryTable(fig *chart.Figure) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `</div>
<table>
<thead><tr><th>Metric</th><th>Group</th><th>Rest mean</th><th>Rest SD</th><th>Stress mean</th><th>Stress SD</th></tr></thead>
<tbody>
`); err != nil {
			return err
		}
		for _, p := range fig.Panels {
			rows := []struct {
				group string
				band  domain.Band
			}{
				{domain.KindCohort.Label(), p.Cohort},
				{domain.KindPopulation.Label(), p.Reference},
			}
			for _, row := range rows {
				if _, err := fmt.Fprintf(w, "<tr><td>%s</td><td>%s</td><td>%.2f</td><td>%.2f</td><td>%.2f</td><td>%.2f</td></tr>\n",
					templ.EscapeString(p.Title), templ.EscapeString(row.group),
					row.band.Rest.Mean, row.band.Rest.SD, row.band.Stress.Mean, row.band.Stress.SD); err != nil {
					return err
				}
			}
		}
		_, err := io.WriteString(w, "</tbody>\n</table>\n")
		return err
	})
}
