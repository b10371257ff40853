package cli

import (
	"bytes"
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	_ "github.com/tursodatabase/go-libsql"

	"github.com/emiliopalmerini/stresschart/internal/migrate"
)

// testDB creates an in-memory database with all migrations applied and
// installs it as the command database for the duration of the test.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("libsql", "file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	db.SetMaxOpenConns(1)

	if err := migrate.RunAll(context.Background(), db); err != nil {
		db.Close()
		t.Fatalf("Failed to run migrations: %v", err)
	}

	testDBOverride = db
	t.Cleanup(func() {
		testDBOverride = nil
		for _, table := range []string{"summaries", "subjects", "runs", "schema_migrations"} {
			_, _ = db.Exec("DROP TABLE IF EXISTS " + table)
		}
		db.Close()
	})
	return db
}

// executeCommand runs the root command with args and returns stdout and stderr.
// Flag values are reset first since commands keep them in package variables.
func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// clearEnv unsets the STRESSCHART_* variables and points XDG_DATA_HOME at a
// temporary directory for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"STRESSCHART_SEED", "STRESSCHART_POPULATION_SIZE", "STRESSCHART_COHORT_SIZE",
		"STRESSCHART_DATABASE_URL", "STRESSCHART_OTEL_ENABLED", "STRESSCHART_OTEL_ENDPOINT",
	} {
		t.Setenv(key, "")
		_ = os.Unsetenv(key)
	}
	t.Setenv("XDG_DATA_HOME", t.TempDir())
}
