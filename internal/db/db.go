package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Database holds the Postgres connection pool.
type Database struct {
	*pgxpool.Pool
}

// New creates and verifies a pgx connection pool. It returns an error if
// parsing the DSN or pinging the database fails.
func New(ctx context.Context, dsn string) (*Database, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &Database{pool}, nil
}
