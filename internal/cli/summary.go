package cli

import (
	"context"
	"fmt"
	"io"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/stresschart/internal/domain"
	"github.com/emiliopalmerini/stresschart/internal/util"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print mean and standard deviation for both datasets",
	Long: `Generate a run and print the mean and sample standard deviation of every
metric at rest and under stress, for the cohort and the reference population.

Examples:
  stresschart summary
  stresschart summary --seed 7 --cohort-size 30
  stresschart summary --metric heart_rate`,
	RunE: runSummary,
}

var (
	summaryGen    generationFlags
	summaryMetric string
)

func init() {
	rootCmd.AddCommand(summaryCmd)
	summaryGen.register(summaryCmd)
	summaryCmd.Flags().StringVarP(&summaryMetric, "metric", "m", "", "Only show one metric: ef, heart_rate, systolic_bp")
}

func runSummary(cmd *cobra.Command, args []string) error {
	metrics, err := metricFilter(summaryMetric)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	app, err := NewAppContext(ctx, cfg, logger, false)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close(ctx) }()

	gen := summaryGen.resolve(cmd, cfg.Generation)
	run, err := app.Reports.NewRun(gen.Seed, gen.PopulationSize, gen.CohortSize)
	if err != nil {
		return fmt.Errorf("failed to generate run: %w", err)
	}

	var rows []domain.SummaryRow
	for _, d := range []*domain.Dataset{run.Cohort, run.Population} {
		r, err := d.SummaryTable()
		if err != nil {
			return err
		}
		rows = append(rows, r...)
	}

	return printSummary(cmd.OutOrStdout(), run, filterRows(rows, metrics))
}

// metricFilter parses a --metric value; empty selects every metric.
func metricFilter(name string) ([]domain.Metric, error) {
	if name == "" {
		return domain.Metrics, nil
	}
	m, err := domain.ParseMetric(name)
	if err != nil {
		return nil, err
	}
	return []domain.Metric{m}, nil
}

func filterRows(rows []domain.SummaryRow, metrics []domain.Metric) []domain.SummaryRow {
	out := rows[:0:0]
	for _, r := range rows {
		if slices.Contains(metrics, r.Metric) {
			out = append(out, r)
		}
	}
	return out
}

func printSummary(out io.Writer, run *domain.Run, rows []domain.SummaryRow) error {
	fmt.Fprintf(out, "Seed %d, cohort %d, population %d\n\n", run.Seed, run.CohortSize, run.PopulationSize)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATASET\tMETRIC\tPHASE\tN\tMEAN ± SD")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			r.Kind.Label(), r.Metric.Title(), r.Phase.Label(), r.Summary.N,
			util.FormatMeanSD(r.Summary.Mean, r.Summary.SD))
	}
	return w.Flush()
}
