package repository

import (
	"context"
	"errors"

	"parkbridge/internal/infra"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// OwnershipRepository persists the owned-reservation ID set, one row per
// entry.
type OwnershipRepository struct {
	pool *pgxpool.Pool
}

func NewOwnershipRepository(pool *pgxpool.Pool) *OwnershipRepository {
	return &OwnershipRepository{pool: pool}
}

func (r *OwnershipRepository) Load(ctx context.Context, entryID string) ([]int64, error) {
	var ids []int64
	err := r.pool.QueryRow(ctx,
		`SELECT reservation_ids FROM owned_reservations WHERE entry_id = $1`,
		entryID,
	).Scan(&ids)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to load owned reservations", err)
	}
	return ids, nil
}

func (r *OwnershipRepository) Save(ctx context.Context, entryID string, ids []int64) error {
	if ids == nil {
		ids = []int64{}
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO owned_reservations (entry_id, reservation_ids, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (entry_id)
		 DO UPDATE SET reservation_ids = EXCLUDED.reservation_ids, updated_at = now()`,
		entryID, ids,
	)
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to save owned reservations", err)
	}
	return nil
}
