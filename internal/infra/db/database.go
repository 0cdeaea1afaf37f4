package db

import (
	"context"
	"time"

	"parkbridge/internal/pkg/config"
	"parkbridge/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS owned_reservations (
	entry_id        text PRIMARY KEY,
	reservation_ids bigint[] NOT NULL DEFAULT '{}',
	updated_at      timestamptz NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS entry_options (
	entry_id   text PRIMARY KEY,
	options    jsonb NOT NULL,
	updated_at timestamptz NOT NULL DEFAULT now()
);
`

func Connect(cfg config.DBConfig) (*pgxpool.Pool, func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.BuildDSN())
	if err != nil {
		return nil, nil, errs.Wrap(err, "failed to create connection pool")
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, errs.Wrap(err, "failed to ping database")
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, nil, errs.Wrap(err, "failed to ensure schema")
	}

	return pool, pool.Close, nil
}
