package generator

import (
	"fmt"
	"math"

	"github.com/emiliopalmerini/stresschart/internal/domain"
)

const (
	// DefaultSeed reproduces the reference figure.
	DefaultSeed int64 = 42
	// DefaultPopulationSize is the size of the reference population.
	DefaultPopulationSize = 1000
	// DefaultCohortSize is the size of the study cohort.
	DefaultCohortSize = 15
)

// Distribution is a normal distribution.
type Distribution struct {
	Mean float64
	SD   float64
}

// Validate rejects negative or non-finite parameters.
func (d Distribution) Validate() error {
	if math.IsNaN(d.Mean) || math.IsInf(d.Mean, 0) || math.IsNaN(d.SD) || math.IsInf(d.SD, 0) {
		return domain.ErrInvalidDistribution
	}
	if d.SD < 0 {
		return domain.ErrInvalidDistribution
	}
	return nil
}

// MetricParams describes how one metric is drawn.
type MetricParams struct {
	Rest   Distribution
	Stress Distribution
	// EnforceOrder swaps each pair so rest <= stress.
	EnforceOrder bool
}

// Profile describes one dataset kind.
type Profile struct {
	Kind    domain.DatasetKind
	Size    int
	FirstID int
	Params  map[domain.Metric]MetricParams
}

// Validate checks the size and every distribution of the profile.
func (p Profile) Validate() error {
	if p.Size <= 0 {
		return fmt.Errorf("%s: size %d: %w", p.Kind, p.Size, domain.ErrInvalidSize)
	}
	for _, m := range domain.Metrics {
		params, ok := p.Params[m]
		if !ok {
			return fmt.Errorf("%s %s: missing parameters: %w", p.Kind, m, domain.ErrInvalidDistribution)
		}
		if err := params.Rest.Validate(); err != nil {
			return fmt.Errorf("%s %s rest: %w", p.Kind, m, err)
		}
		if err := params.Stress.Validate(); err != nil {
			return fmt.Errorf("%s %s stress: %w", p.Kind, m, err)
		}
	}
	return nil
}

// PopulationProfile is the normative reference sample.
// Identifiers run from 0 to size-1.
func PopulationProfile(size int) Profile {
	return Profile{
		Kind:    domain.KindPopulation,
		Size:    size,
		FirstID: 0,
		Params: map[domain.Metric]MetricParams{
			// EF pairs are not reordered: EF can drop under stress in disease states.
			domain.EF:         {Rest: Distribution{50, 5}, Stress: Distribution{55, 5}},
			domain.HeartRate:  {Rest: Distribution{70, 5}, Stress: Distribution{80, 10}, EnforceOrder: true},
			domain.SystolicBP: {Rest: Distribution{120, 10}, Stress: Distribution{130, 10}, EnforceOrder: true},
		},
	}
}

// CohortProfile is the study cohort under analysis.
// Identifiers run from 1 to size.
func CohortProfile(size int) Profile {
	return Profile{
		Kind:    domain.KindCohort,
		Size:    size,
		FirstID: 1,
		Params: map[domain.Metric]MetricParams{
			domain.EF:         {Rest: Distribution{50, 10}, Stress: Distribution{55, 10}},
			domain.HeartRate:  {Rest: Distribution{70, 10}, Stress: Distribution{80, 10}, EnforceOrder: true},
			domain.SystolicBP: {Rest: Distribution{120, 10}, Stress: Distribution{130, 10}, EnforceOrder: true},
		},
	}
}
