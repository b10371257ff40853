package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Show the configuration resolved from STRESSCHART_* environment variables.

Command-line flags override these values per invocation.`,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	dbURL, err := cfg.DatabaseURL()
	if err != nil {
		return err
	}

	otelState := "disabled"
	if cfg.OTel.Enabled {
		otelState = fmt.Sprintf("enabled (%s)", cfg.OTel.Endpoint)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Seed:\t%d\n", cfg.Generation.Seed)
	fmt.Fprintf(w, "Population size:\t%d\n", cfg.Generation.PopulationSize)
	fmt.Fprintf(w, "Cohort size:\t%d\n", cfg.Generation.CohortSize)
	fmt.Fprintf(w, "Database:\t%s\n", dbURL)
	fmt.Fprintf(w, "OTel metrics:\t%s\n", otelState)
	return w.Flush()
}
