package domain

import "fmt"

// Measurement is a rest/stress pair for one metric.
type Measurement struct {
	Rest   float64
	Stress float64
}

// Value returns the measurement for the given phase.
func (m Measurement) Value(p Phase) float64 {
	if p == Stress {
		return m.Stress
	}
	return m.Rest
}

// Ordered returns the pair with rest <= stress.
func (m Measurement) Ordered() Measurement {
	if m.Rest > m.Stress {
		return Measurement{Rest: m.Stress, Stress: m.Rest}
	}
	return m
}

// SubjectRecord holds all measurements for a single subject.
type SubjectRecord struct {
	ID         int
	EF         Measurement
	HeartRate  Measurement
	SystolicBP Measurement
}

// Measurement returns the rest/stress pair for metric m.
func (r *SubjectRecord) Measurement(m Metric) Measurement {
	switch m {
	case EF:
		return r.EF
	case HeartRate:
		return r.HeartRate
	case SystolicBP:
		return r.SystolicBP
	default:
		return Measurement{}
	}
}

// SetMeasurement replaces the rest/stress pair for metric m.
func (r *SubjectRecord) SetMeasurement(m Metric, v Measurement) {
	switch m {
	case EF:
		r.EF = v
	case HeartRate:
		r.HeartRate = v
	case SystolicBP:
		r.SystolicBP = v
	}
}

// DatasetKind distinguishes the reference population from the study cohort.
type DatasetKind string

const (
	KindPopulation DatasetKind = "population"
	KindCohort     DatasetKind = "cohort"
)

// ParseDatasetKind validates a kind name.
func ParseDatasetKind(s string) (DatasetKind, error) {
	switch DatasetKind(s) {
	case KindPopulation, KindCohort:
		return DatasetKind(s), nil
	}
	return "", fmt.Errorf("unknown dataset %q (use population or cohort)", s)
}

// Label is the legend suffix used for the dataset's summary band.
func (k DatasetKind) Label() string {
	if k == KindPopulation {
		return "Reference"
	}
	return "Subjects"
}

// Dataset is an ordered sequence of subject records of one kind.
// Datasets are read-only once generated.
type Dataset struct {
	Kind    DatasetKind
	Records []SubjectRecord
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}

// Values returns a fresh slice of the metric values for phase p, in record order.
func (d *Dataset) Values(m Metric, p Phase) []float64 {
	values := make([]float64, 0, d.Len())
	for i := range d.Records {
		values = append(values, d.Records[i].Measurement(m).Value(p))
	}
	return values
}
