package domain

import "time"

// Run is one generation of a study: the seed, the requested sizes and the resulting datasets.
type Run struct {
	ID             string
	Seed           int64
	PopulationSize int
	CohortSize     int
	CreatedAt      time.Time
	Population     *Dataset
	Cohort         *Dataset
}
