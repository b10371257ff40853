package cli

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/emiliopalmerini/stresschart/internal/adapters/otel"
	"github.com/emiliopalmerini/stresschart/internal/adapters/turso"
	"github.com/emiliopalmerini/stresschart/internal/infrastructure/config"
	"github.com/emiliopalmerini/stresschart/internal/ports"
	"github.com/emiliopalmerini/stresschart/internal/report"
)

// testDBOverride allows tests to inject a database connection.
var testDBOverride *sql.DB

// AppContext holds the shared dependencies for CLI commands.
type AppContext struct {
	Config  *config.Config
	Logger  ports.Logger
	DB      *turso.DB
	Runs    ports.RunRepository
	Metrics ports.MetricsExporter
	Reports *report.Service
}

// NewAppContext wires the report service. The run archive is only opened when
// withArchive is set, so plain rendering never touches the database.
func NewAppContext(ctx context.Context, c *config.Config, log ports.Logger, withArchive bool) (*AppContext, error) {
	metrics, err := otel.New(ctx, c.OTel)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize metrics exporter: %w", err)
	}

	app := &AppContext{Config: c, Logger: log, Metrics: metrics}

	if withArchive {
		switch {
		case testDBOverride != nil:
			app.Runs = turso.NewRunRepository(testDBOverride)
		default:
			url, err := c.DatabaseURL()
			if err != nil {
				_ = metrics.Close(ctx)
				return nil, err
			}
			log.Debug(fmt.Sprintf("Opening run archive %s", url))
			db, err := turso.NewDB(ctx, url, c.Database.AuthToken)
			if err != nil {
				_ = metrics.Close(ctx)
				return nil, fmt.Errorf("failed to connect to database: %w", err)
			}
			app.DB = db
			app.Runs = turso.NewRunRepository(db.DB)
		}
	}

	app.Reports = report.NewService(metrics, app.Runs, log)
	return app, nil
}

// Close releases all resources held by the AppContext.
func (a *AppContext) Close(ctx context.Context) error {
	var firstErr error
	if a.Metrics != nil {
		if err := a.Metrics.Close(ctx); err != nil {
			firstErr = fmt.Errorf("failed to close metrics exporter: %w", err)
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close database: %w", err)
		}
	}
	return firstErr
}
