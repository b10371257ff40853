package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/stresschart/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve charts and statistics over HTTP",
	Long: `Start an HTTP server that generates a run per request.

Endpoints:
  GET /chart.png      PNG chart
  GET /chart.html     HTML chart with summary table
  GET /summary.json   summary statistics
  GET /health

Each endpoint accepts seed, cohort and population query parameters.

Examples:
  stresschart serve              # Start on default port 8080
  stresschart serve --port 3000  # Start on port 3000`,
	RunE: runServe,
}

var servePort int

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
}

func runServe(cmd *cobra.Command, args []string) error {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := NewAppContext(ctx, cfg, logger, false)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close(context.Background()) }()

	server := web.NewServer(app.Reports, logger, cfg.Generation, servePort)
	return server.Start(ctx)
}
