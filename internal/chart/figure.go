// Package chart composes the rest-vs-stress comparison figure independently of any
// rendering backend.
package chart

import (
	"fmt"

	"github.com/emiliopalmerini/stresschart/internal/domain"
)

// TraceGroup tells renderers what a trace represents.
type TraceGroup string

const (
	GroupSubject   TraceGroup = "subject"
	GroupCohort    TraceGroup = "cohort"
	GroupReference TraceGroup = "reference"
)

// Trace is a single lines+markers series within a panel.
type Trace struct {
	Name       string
	Group      TraceGroup
	X          []string
	Y          []float64
	Color      string
	Width      float64
	Dashed     bool
	Opacity    float64
	ShowLegend bool
}

// Axes styles a panel's independent x/y axes.
type Axes struct {
	ShowGrid  bool
	GridColor string
}

// Panel is one metric's subplot.
type Panel struct {
	Index     int
	Metric    domain.Metric
	Title     string
	Axes      Axes
	Traces    []Trace
	Cohort    domain.Band
	Reference domain.Band
}

// Layout holds figure-level settings.
type Layout struct {
	Title      string
	Width      int
	Height     int
	Background string
}

// Figure is a row of panels under one title.
type Figure struct {
	Layout Layout
	Panels []Panel
}

// Validate reports the first trace whose X and Y lengths differ.
func (f *Figure) Validate() error {
	if len(f.Panels) == 0 {
		return fmt.Errorf("figure has no panels: %w", domain.ErrEmptyDataset)
	}
	for _, p := range f.Panels {
		for _, t := range p.Traces {
			if len(t.X) != len(t.Y) {
				return fmt.Errorf("panel %q trace %q: %d x values, %d y values: %w",
					p.Title, t.Name, len(t.X), len(t.Y), domain.ErrMismatchedSeries)
			}
		}
	}
	return nil
}

// TraceCount returns the total number of traces across panels.
func (f *Figure) TraceCount() int {
	n := 0
	for _, p := range f.Panels {
		n += len(p.Traces)
	}
	return n
}

// LegendEntries returns the names of traces shown in the legend, in drawing order.
func (f *Figure) LegendEntries() []string {
	var names []string
	for _, p := range f.Panels {
		for _, t := range p.Traces {
			if t.ShowLegend {
				names = append(names, t.Name)
			}
		}
	}
	return names
}

// YRange returns the smallest and largest y value in the panel.
func (p *Panel) YRange() (lo, hi float64) {
	first := true
	for _, t := range p.Traces {
		for _, y := range t.Y {
			if first || y < lo {
				lo = y
			}
			if first || y > hi {
				hi = y
			}
			first = false
		}
	}
	return lo, hi
}
