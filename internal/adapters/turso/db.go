package turso

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/tursodatabase/go-libsql"

	"github.com/emiliopalmerini/stresschart/internal/migrate"
)

// DB wraps the libsql connection used by the run archive.
type DB struct {
	*sql.DB
}

// Open connects to url with the libsql driver without touching the schema.
// Remote databases take an auth token; local "file:" URLs ignore it.
func Open(ctx context.Context, url, authToken string) (*DB, error) {
	connStr := url
	if authToken != "" && !strings.HasPrefix(url, "file:") {
		connStr = url + "?authToken=" + authToken
	}

	db, err := sql.Open("libsql", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &DB{DB: db}, nil
}

// NewDB opens url and applies pending migrations.
func NewDB(ctx context.Context, url, authToken string) (*DB, error) {
	db, err := Open(ctx, url, authToken)
	if err != nil {
		return nil, err
	}

	if err := migrate.RunAll(ctx, db.DB); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}
