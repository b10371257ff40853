package cli

import (
	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/stresschart/internal/infrastructure/config"
)

// generationFlags are the --seed/--population-size/--cohort-size flags shared by
// every command that generates a run. Unset flags fall back to configuration.
type generationFlags struct {
	seed           int64
	populationSize int
	cohortSize     int
}

func (g *generationFlags) register(cmd *cobra.Command) {
	cmd.Flags().Int64VarP(&g.seed, "seed", "s", 42, "Random seed")
	cmd.Flags().IntVarP(&g.populationSize, "population-size", "p", 1000, "Reference population size")
	cmd.Flags().IntVarP(&g.cohortSize, "cohort-size", "c", 15, "Study cohort size")
}

func (g *generationFlags) resolve(cmd *cobra.Command, c config.Generation) config.Generation {
	out := c
	if cmd.Flags().Changed("seed") {
		out.Seed = g.seed
	}
	if cmd.Flags().Changed("population-size") {
		out.PopulationSize = g.populationSize
	}
	if cmd.Flags().Changed("cohort-size") {
		out.CohortSize = g.cohortSize
	}
	return out
}
