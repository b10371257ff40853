package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/emiliopalmerini/stresschart/internal/adapters/render"
	"github.com/emiliopalmerini/stresschart/internal/domain"
	"github.com/emiliopalmerini/stresschart/internal/infrastructure/config"
)

// maxRequestPopulation caps the population size a single request may ask for.
const maxRequestPopulation = 100_000

// maxRequestCohort caps the cohort size a single request may ask for.
const maxRequestCohort = 500

type summaryStat struct {
	Metric string  `json:"metric"`
	Phase  string  `json:"phase"`
	N      int     `json:"n"`
	Mean   float64 `json:"mean"`
	SD     float64 `json:"sd"`
}

type datasetSummary struct {
	Kind  string        `json:"kind"`
	Size  int           `json:"size"`
	Stats []summaryStat `json:"stats"`
}

type summaryResponse struct {
	Seed       int64          `json:"seed"`
	Cohort     datasetSummary `json:"cohort"`
	Population datasetSummary `json:"population"`
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	format, err := render.ResolveFormat("", r.URL.Path)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	gen, err := s.generationParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	run, err := s.reports.NewRun(gen.Seed, gen.PopulationSize, gen.CohortSize)
	if err != nil {
		s.writeError(w, err)
		return
	}

	renderer, err := render.New(format)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", renderer.ContentType())

	if _, err := s.reports.Render(r.Context(), w, run, format); err != nil {
		s.writeError(w, err)
	}
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	gen, err := s.generationParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	run, err := s.reports.NewRun(gen.Seed, gen.PopulationSize, gen.CohortSize)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := summaryResponse{Seed: run.Seed}
	if resp.Cohort, err = summarizeDataset(run.Cohort); err != nil {
		s.writeError(w, err)
		return
	}
	if resp.Population, err = summarizeDataset(run.Population); err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error(fmt.Sprintf("Failed to encode summary: %v", err))
	}
}

func summarizeDataset(d *domain.Dataset) (datasetSummary, error) {
	rows, err := d.SummaryTable()
	if err != nil {
		return datasetSummary{}, err
	}
	out := datasetSummary{Kind: string(d.Kind), Size: d.Len(), Stats: make([]summaryStat, 0, len(rows))}
	for _, row := range rows {
		out.Stats = append(out.Stats, summaryStat{
			Metric: row.Metric.String(),
			Phase:  row.Phase.String(),
			N:      row.N,
			Mean:   row.Mean,
			SD:     row.SD,
		})
	}
	return out, nil
}

// generationParams reads seed, cohort and population from the query string,
// falling back to the server defaults.
func (s *Server) generationParams(r *http.Request) (config.Generation, error) {
	gen := s.defaults
	q := r.URL.Query()

	if v := strings.TrimSpace(q.Get("seed")); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return gen, fmt.Errorf("invalid seed %q", v)
		}
		gen.Seed = seed
	}

	var err error
	if gen.CohortSize, err = sizeParam(q.Get("cohort"), gen.CohortSize, maxRequestCohort); err != nil {
		return gen, fmt.Errorf("cohort: %w", err)
	}
	if gen.PopulationSize, err = sizeParam(q.Get("population"), gen.PopulationSize, maxRequestPopulation); err != nil {
		return gen, fmt.Errorf("population: %w", err)
	}
	return gen, nil
}

func sizeParam(raw string, fallback, limit int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q", raw)
	}
	if n <= 0 || n > limit {
		return 0, fmt.Errorf("size %d outside 1..%d: %w", n, limit, domain.ErrInvalidSize)
	}
	return n, nil
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidSize),
		errors.Is(err, domain.ErrInvalidDistribution),
		errors.Is(err, domain.ErrEmptyDataset):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrUnsupportedFormat):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		s.logger.Error(err.Error())
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
