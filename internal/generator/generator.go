// Package generator synthesizes reproducible rest/stress measurements.
package generator

import (
	"fmt"
	"math/rand"

	"github.com/emiliopalmerini/stresschart/internal/domain"
)

// Generate draws a dataset from p using rng.
//
// All draws for a series are taken before the next series begins, in the order
// EF rest, EF stress, heart rate rest, heart rate stress, systolic rest, systolic stress.
// The profile is validated before any value is drawn, so a rejected profile does not
// advance rng.
func Generate(rng *rand.Rand, p Profile) (*domain.Dataset, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	records := make([]domain.SubjectRecord, p.Size)
	for i := range records {
		records[i].ID = p.FirstID + i
	}

	for _, m := range domain.Metrics {
		params := p.Params[m]
		rest := sample(rng, params.Rest, p.Size)
		stress := sample(rng, params.Stress, p.Size)
		for i := range records {
			v := domain.Measurement{Rest: rest[i], Stress: stress[i]}
			if params.EnforceOrder {
				v = v.Ordered()
			}
			records[i].SetMeasurement(m, v)
		}
	}

	return &domain.Dataset{Kind: p.Kind, Records: records}, nil
}

func sample(rng *rand.Rand, d Distribution, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = rng.NormFloat64()*d.SD + d.Mean
	}
	return out
}

// Study is the pair of datasets compared in a chart.
type Study struct {
	Seed       int64
	Population *domain.Dataset
	Cohort     *domain.Dataset
}

// GenerateStudy draws the reference population and then the cohort from a single
// stream seeded with seed.
func GenerateStudy(seed int64, populationSize, cohortSize int) (*Study, error) {
	return GenerateStudyWith(rand.New(rand.NewSource(seed)), seed, PopulationProfile(populationSize), CohortProfile(cohortSize))
}

// GenerateStudyWith is GenerateStudy with explicit profiles and random source.
func GenerateStudyWith(rng *rand.Rand, seed int64, population, cohort Profile) (*Study, error) {
	pop, err := Generate(rng, population)
	if err != nil {
		return nil, fmt.Errorf("generate population: %w", err)
	}
	coh, err := Generate(rng, cohort)
	if err != nil {
		return nil, fmt.Errorf("generate cohort: %w", err)
	}
	return &Study{Seed: seed, Population: pop, Cohort: coh}, nil
}
