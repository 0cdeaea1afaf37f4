package repository

import (
	"context"
	"encoding/json"
	"errors"

	"parkbridge/internal/domain/schedule"
	"parkbridge/internal/infra"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// OptionsRepository persists the stored schedule options as jsonb, one row
// per entry. Legacy flat options deserialize through the same struct, so
// migration happens on the next save.
type OptionsRepository struct {
	pool *pgxpool.Pool
}

func NewOptionsRepository(pool *pgxpool.Pool) *OptionsRepository {
	return &OptionsRepository{pool: pool}
}

func (r *OptionsRepository) Load(ctx context.Context, entryID string) (schedule.Options, bool, error) {
	var raw []byte
	err := r.pool.QueryRow(ctx,
		`SELECT options FROM entry_options WHERE entry_id = $1`,
		entryID,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return schedule.Options{}, false, nil
	}
	if err != nil {
		return schedule.Options{}, false, infra.WrapRepoErr(infra.KindDBFailure, "failed to load entry options", err)
	}

	var opts schedule.Options
	if err := json.Unmarshal(raw, &opts); err != nil {
		return schedule.Options{}, false, infra.WrapRepoErr(infra.KindDBFailure, "failed to decode entry options", err)
	}
	return opts, true, nil
}

func (r *OptionsRepository) Save(ctx context.Context, entryID string, opts schedule.Options) error {
	raw, err := json.Marshal(opts)
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to encode entry options", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO entry_options (entry_id, options, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (entry_id)
		 DO UPDATE SET options = EXCLUDED.options, updated_at = now()`,
		entryID, raw,
	)
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to save entry options", err)
	}
	return nil
}
