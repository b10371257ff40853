package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/stresschart/internal/infrastructure/config"
	"github.com/emiliopalmerini/stresschart/internal/ports"
)

var rootCmd = &cobra.Command{
	Use:   "stresschart",
	Short: "Synthetic rest vs. stress cardiac charts",
	Long: `stresschart generates synthetic ejection fraction, heart rate and systolic
blood pressure measurements for a study cohort and a reference population,
and charts them side by side at rest and under stress.

Runs can be archived in a local database and browsed later.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

var (
	verbose bool

	cfg    *config.Config
	logger ports.Logger
)

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print debug output to stderr")
}

func loadConfig(cmd *cobra.Command, args []string) error {
	logger = NewStderrLogger(cmd.ErrOrStderr(), verbose)

	c, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg = c
	return nil
}
