package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/stresschart/internal/adapters/render"
	"github.com/emiliopalmerini/stresschart/internal/domain"
	"github.com/emiliopalmerini/stresschart/internal/util"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Browse archived runs",
	Long:  `List, inspect, re-render and delete runs saved with "render --save".`,
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived runs, newest first",
	RunE:  runRunsList,
}

var runsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a run and its summary statistics",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

var runsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an archived run",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsDelete,
}

var runsRenderCmd = &cobra.Command{
	Use:   "render <id>",
	Short: "Render the chart of an archived run",
	Long: `Render the chart of an archived run from its stored records.

Examples:
  stresschart runs render 3f2a9c1e-... --output old.html`,
	Args: cobra.ExactArgs(1),
	RunE: runRunsRender,
}

// prefixSearchLimit bounds how many recent runs are scanned when resolving an ID prefix.
const prefixSearchLimit = 1000

var (
	runsLimit        int
	runsRenderOutput string
	runsRenderFormat string
)

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.AddCommand(runsDeleteCmd)
	runsCmd.AddCommand(runsRenderCmd)

	runsListCmd.Flags().IntVarP(&runsLimit, "limit", "n", 20, "Maximum runs to list")
	runsRenderCmd.Flags().StringVarP(&runsRenderOutput, "output", "o", "chart.png", "Output file, - for stdout")
	runsRenderCmd.Flags().StringVarP(&runsRenderFormat, "format", "f", "", "Output format: png, html (default: from output extension)")
}

func openArchive(cmd *cobra.Command) (context.Context, *AppContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	app, err := NewAppContext(ctx, cfg, logger, true)
	if err != nil {
		return nil, nil, err
	}
	return ctx, app, nil
}

func runRunsList(cmd *cobra.Command, args []string) error {
	ctx, app, err := openArchive(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close(ctx) }()

	runs, err := app.Reports.List(ctx, runsLimit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No archived runs. Use 'stresschart render --save' to archive one.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSEED\tPOPULATION\tCOHORT\tCREATED")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%s\n",
			util.TruncateID(r.ID), r.Seed, r.PopulationSize, r.CohortSize, util.FormatDateTime(r.CreatedAt))
	}
	return w.Flush()
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	ctx, app, err := openArchive(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close(ctx) }()

	run, err := loadRun(ctx, app, args[0])
	if err != nil {
		return err
	}

	rows, err := app.Reports.Summaries(ctx, run.ID)
	if err != nil {
		return fmt.Errorf("failed to load summaries: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run %s\n", run.ID)
	fmt.Fprintf(out, "Created: %s\n", util.FormatDateTime(run.CreatedAt))
	return printSummary(out, run, rows)
}

func runRunsDelete(cmd *cobra.Command, args []string) error {
	ctx, app, err := openArchive(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close(ctx) }()

	run, err := loadRun(ctx, app, args[0])
	if err != nil {
		return err
	}
	if err := app.Reports.Delete(ctx, run.ID); err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted run %s\n", run.ID)
	return nil
}

func runRunsRender(cmd *cobra.Command, args []string) error {
	format, err := render.ResolveFormat(runsRenderFormat, runsRenderOutput)
	if err != nil {
		return err
	}

	ctx, app, err := openArchive(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close(ctx) }()

	run, err := loadRun(ctx, app, args[0])
	if err != nil {
		return err
	}

	traces, err := writeChart(ctx, app, cmd.OutOrStdout(), run, format, runsRenderOutput)
	if err != nil {
		return err
	}
	if runsRenderOutput != "-" {
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%s, %d traces, seed %d)\n", runsRenderOutput, format, traces, run.Seed)
	}
	return nil
}

// loadRun resolves a full run ID or an unambiguous prefix as printed by "runs list".
func loadRun(ctx context.Context, app *AppContext, id string) (*domain.Run, error) {
	run, err := app.Reports.Load(ctx, id)
	if err == nil {
		return run, nil
	}
	if !errors.Is(err, domain.ErrRunNotFound) {
		return nil, fmt.Errorf("failed to load run: %w", err)
	}

	runs, listErr := app.Reports.List(ctx, prefixSearchLimit)
	if listErr != nil {
		return nil, fmt.Errorf("failed to list runs: %w", listErr)
	}
	var match string
	for _, r := range runs {
		if len(id) >= 4 && strings.HasPrefix(r.ID, id) {
			if match != "" {
				return nil, fmt.Errorf("run prefix %q is ambiguous", id)
			}
			match = r.ID
		}
	}
	if match == "" {
		return nil, err
	}
	return app.Reports.Load(ctx, match)
}
