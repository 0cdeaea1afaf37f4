package commands

import (
	"context"
	"time"

	"parkbridge/internal/coordinator"
	"parkbridge/internal/domain/schedule"
	"parkbridge/internal/portal"
)

// PortalGateway is the slice of the portal client the commands need.
type PortalGateway interface {
	FetchEndTime(ctx context.Context, epochSeconds int64) (*portal.ZoneWindow, error)
	CreateReservation(ctx context.Context, params portal.ReservationParams) (*portal.Reservation, error)
	PatchReservationEndTime(ctx context.Context, id int64, endTime time.Time) (*portal.Reservation, error)
	DeleteReservation(ctx context.Context, id int64) error
	CreateFavorite(ctx context.Context, name, licensePlate string) (*portal.Favorite, error)
	UpdateFavorite(ctx context.Context, id int64, name, licensePlate string) (*portal.Favorite, error)
	DeleteFavorite(ctx context.Context, id int64) error
}

// SnapshotRefresher triggers and reads coordinator snapshots.
type SnapshotRefresher interface {
	Refresh(ctx context.Context) (*coordinator.Snapshot, error)
	Snapshot() *coordinator.Snapshot
}

// OwnershipRecorder mutates the persisted owned-reservation set.
type OwnershipRecorder interface {
	Add(ctx context.Context, id int64) error
	Remove(ctx context.Context, ids ...int64) error
}

// OptionsRepository persists schedule options.
type OptionsRepository interface {
	Load(ctx context.Context, entryID string) (schedule.Options, bool, error)
	Save(ctx context.Context, entryID string, opts schedule.Options) error
}

// TriggerArmer re-registers auto-end triggers after configuration changes.
type TriggerArmer interface {
	Rearm(opts schedule.Options)
}
