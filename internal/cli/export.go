package cli

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/stresschart/internal/domain"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a generated dataset to CSV or JSON",
	Long: `Generate a run and export one of its datasets for external analysis.

Examples:
  stresschart export --dataset cohort --format csv --output cohort.csv
  stresschart export --dataset population --format json --seed 7`,
	RunE: runExport,
}

var (
	exportGen     generationFlags
	exportDataset string
	exportFormat  string
	exportOutput  string
)

func init() {
	rootCmd.AddCommand(exportCmd)
	exportGen.register(exportCmd)
	exportCmd.Flags().StringVarP(&exportDataset, "dataset", "d", "cohort", "Dataset: cohort, population")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "csv", "Output format: csv, json")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: stdout)")
}

// ExportRecord is the JSON shape of one exported subject.
type ExportRecord struct {
	SubjectID        int     `json:"subject_id"`
	EFRest           float64 `json:"ef_rest"`
	EFStress         float64 `json:"ef_stress"`
	HeartRateRest    float64 `json:"heart_rate_rest"`
	HeartRateStress  float64 `json:"heart_rate_stress"`
	SystolicBPRest   float64 `json:"systolic_bp_rest"`
	SystolicBPStress float64 `json:"systolic_bp_stress"`
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	kind, err := domain.ParseDatasetKind(exportDataset)
	if err != nil {
		return err
	}
	if exportFormat != "csv" && exportFormat != "json" {
		return fmt.Errorf("%q (use csv or json): %w", exportFormat, domain.ErrUnsupportedFormat)
	}

	app, err := NewAppContext(ctx, cfg, logger, false)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close(ctx) }()

	gen := exportGen.resolve(cmd, cfg.Generation)
	run, err := app.Reports.NewRun(gen.Seed, gen.PopulationSize, gen.CohortSize)
	if err != nil {
		return fmt.Errorf("failed to generate run: %w", err)
	}

	dataset := run.Cohort
	if kind == domain.KindPopulation {
		dataset = run.Population
	}

	if err := writeExport(cmd.OutOrStdout(), exportOutput, dataset, exportFormat); err != nil {
		return err
	}

	if exportOutput != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d %s records to %s\n", dataset.Len(), kind, exportOutput)
	}
	return nil
}

// writeExport encodes the whole dataset before touching output, so a failed
// export never leaves a partial file behind. An empty output means stdout.
func writeExport(stdout io.Writer, output string, d *domain.Dataset, format string) error {
	var buf bytes.Buffer
	var err error
	if format == "json" {
		err = writeDatasetJSON(&buf, d)
	} else {
		err = writeDatasetCSV(&buf, d)
	}
	if err != nil {
		return err
	}

	if output == "" {
		if _, err := buf.WriteTo(stdout); err != nil {
			return fmt.Errorf("failed to write export: %w", err)
		}
		return nil
	}
	if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}
	return nil
}

func writeDatasetJSON(w io.Writer, d *domain.Dataset) error {
	records := make([]ExportRecord, 0, d.Len())
	for _, r := range d.Records {
		records = append(records, ExportRecord{
			SubjectID:        r.ID,
			EFRest:           r.EF.Rest,
			EFStress:         r.EF.Stress,
			HeartRateRest:    r.HeartRate.Rest,
			HeartRateStress:  r.HeartRate.Stress,
			SystolicBPRest:   r.SystolicBP.Rest,
			SystolicBPStress: r.SystolicBP.Stress,
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(records); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

func writeDatasetCSV(w io.Writer, d *domain.Dataset) error {
	writer := csv.NewWriter(w)

	header := []string{"Subject"}
	for _, m := range domain.Metrics {
		for _, p := range domain.Phases {
			header = append(header, m.Column(p))
		}
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, r := range d.Records {
		row := []string{strconv.Itoa(r.ID)}
		for _, m := range domain.Metrics {
			v := r.Measurement(m)
			for _, p := range domain.Phases {
				row = append(row, strconv.FormatFloat(v.Value(p), 'f', 4, 64))
			}
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}
