package postgres

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	_ "github.com/jackc/pgx/v4/stdlib"
)

// Config holds configuration for the database connection.
type Config struct {
	// URL is the postgres connection url. Empty keeps receipts in memory.
	URL string `mapstructure:"url" default:""`
	// MaxOpenConns caps the connection pool.
	MaxOpenConns int `mapstructure:"max_open_conns" default:"10"`
}

func (c Config) Enabled() bool {
	return c.URL != ""
}

// Open opens a pgx-backed database handle and verifies the connection.
func Open(ctx context.Context, cfg Config) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to connect to database")
	}
	return db, nil
}
