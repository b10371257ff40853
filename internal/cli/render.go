package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/stresschart/internal/adapters/render"
	"github.com/emiliopalmerini/stresschart/internal/domain"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Generate a run and render the comparison chart",
	Long: `Generate a cohort and a reference population and render the three-panel
Rest vs. Stress chart.

The format is taken from --format, or from the output file extension.

Examples:
  stresschart render                              # chart.png, seed 42
  stresschart render --seed 7 --output chart.html
  stresschart render --cohort-size 30 --save      # also archive the run
  stresschart render --output - --format png > chart.png`,
	RunE: runRender,
}

var (
	renderGen    generationFlags
	renderOutput string
	renderFormat string
	renderSave   bool
)

func init() {
	rootCmd.AddCommand(renderCmd)
	renderGen.register(renderCmd)
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "chart.png", "Output file, - for stdout")
	renderCmd.Flags().StringVarP(&renderFormat, "format", "f", "", "Output format: png, html (default: from output extension)")
	renderCmd.Flags().BoolVar(&renderSave, "save", false, "Archive the run in the database")
}

func runRender(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	format, err := render.ResolveFormat(renderFormat, renderOutput)
	if err != nil {
		return err
	}

	app, err := NewAppContext(ctx, cfg, logger, renderSave)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close(ctx) }()

	gen := renderGen.resolve(cmd, cfg.Generation)
	run, err := app.Reports.NewRun(gen.Seed, gen.PopulationSize, gen.CohortSize)
	if err != nil {
		return fmt.Errorf("failed to generate run: %w", err)
	}

	traces, err := writeChart(ctx, app, cmd.OutOrStdout(), run, format, renderOutput)
	if err != nil {
		return err
	}

	if renderOutput != "-" {
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%s, %d traces, seed %d)\n", renderOutput, format, traces, run.Seed)
	}

	if renderSave {
		if err := app.Reports.Save(ctx, run); err != nil {
			return err
		}
	}

	return nil
}

// writeChart renders run to output, or to stdout when output is "-". The file
// is only created once rendering succeeded.
func writeChart(ctx context.Context, app *AppContext, stdout io.Writer, run *domain.Run, format render.Format, output string) (int, error) {
	var buf bytes.Buffer
	fig, err := app.Reports.Render(ctx, &buf, run, format)
	if err != nil {
		return 0, err
	}

	if output == "-" {
		if _, err := buf.WriteTo(stdout); err != nil {
			return 0, fmt.Errorf("failed to write chart: %w", err)
		}
		return fig.TraceCount(), nil
	}

	if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", output, err)
	}
	return fig.TraceCount(), nil
}
