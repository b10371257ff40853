package chart

import (
	"errors"
	"math"
	"testing"

	"github.com/emiliopalmerini/stresschart/internal/domain"
	"github.com/emiliopalmerini/stresschart/internal/generator"
)

func defaultFigure(t *testing.T) *Figure {
	t.Helper()
	study, err := generator.GenerateStudy(generator.DefaultSeed, generator.DefaultPopulationSize, generator.DefaultCohortSize)
	if err != nil {
		t.Fatalf("generate study: %v", err)
	}
	fig, err := NewBuilder(DefaultOptions()).Build(study.Cohort, study.Population)
	if err != nil {
		t.Fatalf("build figure: %v", err)
	}
	return fig
}

func TestBuild_TracesPerPanel(t *testing.T) {
	fig := defaultFigure(t)

	if len(fig.Panels) != 3 {
		t.Fatalf("expected 3 panels, got %d", len(fig.Panels))
	}
	for _, p := range fig.Panels {
		if len(p.Traces) != 21 {
			t.Errorf("panel %q: expected 21 traces, got %d", p.Title, len(p.Traces))
		}
	}
	if fig.TraceCount() != 63 {
		t.Errorf("expected 63 traces in total, got %d", fig.TraceCount())
	}
	if err := fig.Validate(); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}
}

func TestBuild_LegendEntriesAppearOnce(t *testing.T) {
	fig := defaultFigure(t)

	entries := fig.LegendEntries()
	seen := make(map[string]int)
	for _, name := range entries {
		seen[name]++
	}
	for name, n := range seen {
		if n != 1 {
			t.Errorf("legend entry %q appears %d times", name, n)
		}
	}
	if len(entries) != 21 {
		t.Errorf("expected 21 legend entries, got %d", len(entries))
	}

	for _, want := range []string{
		"Subject 1", "Subject 15",
		"Mean (Subjects)", "+1 SD (Subjects)", "-1 SD (Subjects)",
		"Mean (Reference)", "+1 SD (Reference)", "-1 SD (Reference)",
	} {
		if seen[want] != 1 {
			t.Errorf("expected legend entry %q exactly once, got %d", want, seen[want])
		}
	}

	for _, p := range fig.Panels[1:] {
		for _, tr := range p.Traces {
			if tr.ShowLegend {
				t.Errorf("panel %q: trace %q should not show in legend", p.Title, tr.Name)
			}
		}
	}
}

func TestBuild_PanelLayout(t *testing.T) {
	fig := defaultFigure(t)

	if fig.Layout.Title != "Rest vs. Stress" || fig.Layout.Width != 1400 || fig.Layout.Height != 700 {
		t.Errorf("unexpected layout %+v", fig.Layout)
	}
	wantTitles := []string{"Ejection Fraction (EF)", "Heart Rate (HR)", "Systolic Blood Pressure (SBP)"}
	for i, p := range fig.Panels {
		if p.Title != wantTitles[i] {
			t.Errorf("panel %d: expected title %q, got %q", i, wantTitles[i], p.Title)
		}
		if !p.Axes.ShowGrid || p.Axes.GridColor != ColorLightGray {
			t.Errorf("panel %d: expected light-gray gridlines, got %+v", i, p.Axes)
		}
	}
}

func TestBuild_SubjectTraces(t *testing.T) {
	study, err := generator.GenerateStudy(generator.DefaultSeed, 50, 14)
	if err != nil {
		t.Fatalf("generate study: %v", err)
	}
	fig, err := NewBuilder(Options{}).Build(study.Cohort, study.Population)
	if err != nil {
		t.Fatalf("build figure: %v", err)
	}

	hr := fig.Panels[1]
	for i, r := range study.Cohort.Records {
		tr := hr.Traces[i]
		if tr.Group != GroupSubject {
			t.Fatalf("trace %d: expected subject group, got %s", i, tr.Group)
		}
		if tr.Y[0] != r.HeartRate.Rest || tr.Y[1] != r.HeartRate.Stress {
			t.Errorf("trace %d: expected %v, got %v", i, r.HeartRate, tr.Y)
		}
		if tr.X[0] != "Rest" || tr.X[1] != "Stress" {
			t.Errorf("trace %d: unexpected categories %v", i, tr.X)
		}
		if tr.Opacity != SubjectOpacity {
			t.Errorf("trace %d: expected opacity %.1f, got %.1f", i, SubjectOpacity, tr.Opacity)
		}
	}
	// 14 subjects on a 12-color palette wrap around.
	if hr.Traces[12].Color != Dense[0] || hr.Traces[13].Color != Dense[1] {
		t.Errorf("expected palette wrap-around, got %s %s", hr.Traces[12].Color, hr.Traces[13].Color)
	}
}

func TestBuild_BandTraces(t *testing.T) {
	cohort := constantDataset(domain.KindCohort, 3, 50)
	population := constantDataset(domain.KindPopulation, 10, 60)

	fig, err := NewBuilder(DefaultOptions()).Build(cohort, population)
	if err != nil {
		t.Fatalf("build figure: %v", err)
	}

	traces := fig.Panels[0].Traces[3:]
	want := []struct {
		name  string
		y     float64
		color string
		width float64
	}{
		{"Mean (Subjects)", 50, ColorBlack, 4},
		{"+1 SD (Subjects)", 50, ColorBlack, 3},
		{"-1 SD (Subjects)", 50, ColorBlack, 3},
		{"Mean (Reference)", 60, ColorGreen, 4},
		{"+1 SD (Reference)", 60, ColorGreen, 3},
		{"-1 SD (Reference)", 60, ColorGreen, 3},
	}
	if len(traces) != len(want) {
		t.Fatalf("expected %d band traces, got %d", len(want), len(traces))
	}
	for i, w := range want {
		tr := traces[i]
		if tr.Name != w.name {
			t.Errorf("trace %d: expected name %q, got %q", i, w.name, tr.Name)
		}
		if !tr.Dashed {
			t.Errorf("%s: expected dashed line", tr.Name)
		}
		if tr.Color != w.color || tr.Width != w.width {
			t.Errorf("%s: expected %s width %.0f, got %s width %.0f", tr.Name, w.color, w.width, tr.Color, tr.Width)
		}
		for _, y := range tr.Y {
			if math.Abs(y-w.y) > 1e-9 {
				t.Errorf("%s: expected y %.1f, got %v", tr.Name, w.y, tr.Y)
			}
		}
	}
}

func TestBuild_EmptyDatasets(t *testing.T) {
	full := constantDataset(domain.KindPopulation, 5, 10)
	empty := &domain.Dataset{Kind: domain.KindCohort}

	if _, err := NewBuilder(DefaultOptions()).Build(empty, full); !errors.Is(err, domain.ErrEmptyDataset) {
		t.Errorf("expected ErrEmptyDataset for empty cohort, got %v", err)
	}
	if _, err := NewBuilder(DefaultOptions()).Build(full, nil); !errors.Is(err, domain.ErrEmptyDataset) {
		t.Errorf("expected ErrEmptyDataset for missing population, got %v", err)
	}
}

func TestFigure_ValidateMismatchedSeries(t *testing.T) {
	fig := &Figure{Panels: []Panel{{
		Title:  "EF",
		Traces: []Trace{{Name: "broken", X: []string{"Rest", "Stress"}, Y: []float64{1}}},
	}}}
	if err := fig.Validate(); !errors.Is(err, domain.ErrMismatchedSeries) {
		t.Fatalf("expected ErrMismatchedSeries, got %v", err)
	}
}

func TestPanel_YRange(t *testing.T) {
	p := Panel{Traces: []Trace{
		{Y: []float64{10, 20}},
		{Y: []float64{-5, 15}},
	}}
	lo, hi := p.YRange()
	if lo != -5 || hi != 20 {
		t.Errorf("expected [-5, 20], got [%v, %v]", lo, hi)
	}
}

func constantDataset(kind domain.DatasetKind, n int, v float64) *domain.Dataset {
	ds := &domain.Dataset{Kind: kind}
	for i := 0; i < n; i++ {
		r := domain.SubjectRecord{ID: i + 1}
		for _, m := range domain.Metrics {
			r.SetMeasurement(m, domain.Measurement{Rest: v, Stress: v})
		}
		ds.Records = append(ds.Records, r)
	}
	return ds
}
