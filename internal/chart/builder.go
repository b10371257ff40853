package chart

import (
	"fmt"

	"github.com/emiliopalmerini/stresschart/internal/domain"
)

const (
	subjectWidth = 2
	meanWidth    = 4
	sdWidth      = 3
	// SubjectOpacity is applied to per-subject traces.
	SubjectOpacity = 0.6
)

// Options configures the figure.
type Options struct {
	Title          string
	Width          int
	Height         int
	Palette        []string
	CohortColor    string
	ReferenceColor string
	Metrics        []domain.Metric
}

// DefaultOptions reproduces the reference 1400x700 "Rest vs. Stress" figure.
func DefaultOptions() Options {
	return Options{
		Title:          "Rest vs. Stress",
		Width:          1400,
		Height:         700,
		Palette:        Dense,
		CohortColor:    ColorBlack,
		ReferenceColor: ColorGreen,
		Metrics:        domain.Metrics,
	}
}

// Builder turns a cohort and a reference population into a Figure.
type Builder struct {
	opts Options
}

// NewBuilder creates a Builder. Zero-valued options fall back to DefaultOptions.
func NewBuilder(opts Options) *Builder {
	def := DefaultOptions()
	if opts.Title == "" {
		opts.Title = def.Title
	}
	if opts.Width <= 0 {
		opts.Width = def.Width
	}
	if opts.Height <= 0 {
		opts.Height = def.Height
	}
	if len(opts.Palette) == 0 {
		opts.Palette = def.Palette
	}
	if opts.CohortColor == "" {
		opts.CohortColor = def.CohortColor
	}
	if opts.ReferenceColor == "" {
		opts.ReferenceColor = def.ReferenceColor
	}
	if len(opts.Metrics) == 0 {
		opts.Metrics = def.Metrics
	}
	return &Builder{opts: opts}
}

// Build creates one panel per metric. Legend entries are attached to the first panel only.
func (b *Builder) Build(cohort, population *domain.Dataset) (*Figure, error) {
	if cohort.Len() == 0 {
		return nil, fmt.Errorf("cohort: %w", domain.ErrEmptyDataset)
	}
	if population.Len() == 0 {
		return nil, fmt.Errorf("reference population: %w", domain.ErrEmptyDataset)
	}

	fig := &Figure{
		Layout: Layout{
			Title:      b.opts.Title,
			Width:      b.opts.Width,
			Height:     b.opts.Height,
			Background: ColorWhite,
		},
		Panels: make([]Panel, 0, len(b.opts.Metrics)),
	}

	for i, m := range b.opts.Metrics {
		panel, err := b.buildPanel(m, i, cohort, population)
		if err != nil {
			return nil, err
		}
		fig.Panels = append(fig.Panels, panel)
	}

	return fig, nil
}

func (b *Builder) buildPanel(m domain.Metric, index int, cohort, population *domain.Dataset) (Panel, error) {
	showLegend := index == 0
	x := []string{domain.Rest.Label(), domain.Stress.Label()}

	cohortBand, err := cohort.Band(m)
	if err != nil {
		return Panel{}, err
	}
	refBand, err := population.Band(m)
	if err != nil {
		return Panel{}, err
	}

	traces := make([]Trace, 0, cohort.Len()+6)
	for i, r := range cohort.Records {
		v := r.Measurement(m)
		traces = append(traces, Trace{
			Name:       fmt.Sprintf("Subject %d", r.ID),
			Group:      GroupSubject,
			X:          x,
			Y:          []float64{v.Rest, v.Stress},
			Color:      PaletteColor(b.opts.Palette, i),
			Width:      subjectWidth,
			Opacity:    SubjectOpacity,
			ShowLegend: showLegend,
		})
	}
	traces = append(traces, bandTraces(GroupCohort, cohort.Kind.Label(), cohortBand, b.opts.CohortColor, x, showLegend)...)
	traces = append(traces, bandTraces(GroupReference, population.Kind.Label(), refBand, b.opts.ReferenceColor, x, showLegend)...)

	return Panel{
		Index:     index,
		Metric:    m,
		Title:     m.Title(),
		Axes:      Axes{ShowGrid: true, GridColor: ColorLightGray},
		Traces:    traces,
		Cohort:    cohortBand,
		Reference: refBand,
	}, nil
}

// bandTraces returns the mean, +1 SD and -1 SD lines for one band.
func bandTraces(group TraceGroup, label string, band domain.Band, color string, x []string, showLegend bool) []Trace {
	line := func(name string, rest, stress, width float64) Trace {
		return Trace{
			Name:       fmt.Sprintf("%s (%s)", name, label),
			Group:      group,
			X:          x,
			Y:          []float64{rest, stress},
			Color:      color,
			Width:      width,
			Dashed:     true,
			Opacity:    1,
			ShowLegend: showLegend,
		}
	}
	return []Trace{
		line("Mean", band.Rest.Mean, band.Stress.Mean, meanWidth),
		line("+1 SD", band.Rest.Upper(), band.Stress.Upper(), sdWidth),
		line("-1 SD", band.Rest.Lower(), band.Stress.Lower(), sdWidth),
	}
}
