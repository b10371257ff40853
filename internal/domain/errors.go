package domain

import "errors"

var (
	// ErrInvalidSize is returned when a dataset is requested with a non-positive size.
	ErrInvalidSize = errors.New("dataset size must be positive")
	// ErrInvalidDistribution is returned for a negative or non-finite distribution parameter.
	ErrInvalidDistribution = errors.New("invalid distribution parameters")
	// ErrEmptyDataset is returned when summary statistics are requested for no values.
	ErrEmptyDataset = errors.New("dataset is empty")
	// ErrMismatchedSeries is returned when a trace has different X and Y lengths.
	ErrMismatchedSeries = errors.New("mismatched series lengths")
	// ErrUnsupportedFormat is returned for an unknown output format.
	ErrUnsupportedFormat = errors.New("unsupported output format")
	// ErrRunNotFound is returned when an archived run does not exist.
	ErrRunNotFound = errors.New("run not found")
)
