package domain

import (
	"fmt"

	"github.com/aclements/go-moremath/stats"
)

// Summary holds descriptive statistics for one (dataset, metric, phase) series.
type Summary struct {
	N    int
	Mean float64
	// SD is the sample standard deviation (n-1 denominator); zero for a single value.
	SD float64
}

// Upper returns mean + 1 SD.
func (s Summary) Upper() float64 { return s.Mean + s.SD }

// Lower returns mean - 1 SD.
func (s Summary) Lower() float64 { return s.Mean - s.SD }

// Summarize computes mean and sample standard deviation of values.
// An empty input yields ErrEmptyDataset instead of NaN.
func Summarize(values []float64) (Summary, error) {
	if len(values) == 0 {
		return Summary{}, ErrEmptyDataset
	}
	sample := stats.Sample{Xs: values}
	s := Summary{N: len(values), Mean: sample.Mean()}
	if s.N > 1 {
		s.SD = sample.StdDev()
	}
	return s, nil
}

// Band is the rest and stress summary of one metric.
type Band struct {
	Rest   Summary
	Stress Summary
}

// Summary returns the statistics for metric m in phase p.
func (d *Dataset) Summary(m Metric, p Phase) (Summary, error) {
	s, err := Summarize(d.Values(m, p))
	if err != nil {
		return Summary{}, fmt.Errorf("%s %s %s: %w", d.Kind, m, p, err)
	}
	return s, nil
}

// Band returns rest and stress statistics for metric m.
func (d *Dataset) Band(m Metric) (Band, error) {
	rest, err := d.Summary(m, Rest)
	if err != nil {
		return Band{}, err
	}
	stress, err := d.Summary(m, Stress)
	if err != nil {
		return Band{}, err
	}
	return Band{Rest: rest, Stress: stress}, nil
}

// SummaryRow is one line of a dataset's summary table.
type SummaryRow struct {
	Kind   DatasetKind
	Metric Metric
	Phase  Phase
	Summary
}

// SummaryTable computes statistics for every metric and phase of the dataset.
func (d *Dataset) SummaryTable() ([]SummaryRow, error) {
	rows := make([]SummaryRow, 0, len(Metrics)*len(Phases))
	for _, m := range Metrics {
		for _, p := range Phases {
			s, err := d.Summary(m, p)
			if err != nil {
				return nil, err
			}
			rows = append(rows, SummaryRow{Kind: d.Kind, Metric: m, Phase: p, Summary: s})
		}
	}
	return rows, nil
}
