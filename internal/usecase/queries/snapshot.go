// Package queries serves read requests from the latest coordinator
// snapshot; nothing here touches the portal.
package queries

import (
	"context"

	"parkbridge/internal/coordinator"
	"parkbridge/internal/pkg/errs"
	"parkbridge/internal/portal"
)

var (
	ErrSnapshotUnavailable = errs.New("no portal snapshot available yet")
	ErrReauthRequired      = errs.New("portal re-authentication required")
)

// SnapshotSource is the slice of the coordinator the queries need.
type SnapshotSource interface {
	Snapshot() *coordinator.Snapshot
	NeedsReauth() bool
}

type SnapshotQueries interface {
	Account(ctx context.Context) (*portal.Account, error)
	Reservations(ctx context.Context) ([]portal.Reservation, error)
	Favorites(ctx context.Context) ([]portal.Favorite, error)
}

type snapshotQueriesImpl struct {
	source SnapshotSource
}

func NewSnapshotQueries(source SnapshotSource) SnapshotQueries {
	return &snapshotQueriesImpl{source: source}
}

func (q *snapshotQueriesImpl) Account(_ context.Context) (*portal.Account, error) {
	snapshot, err := q.latest()
	if err != nil {
		return nil, err
	}
	account := snapshot.Account
	return &account, nil
}

func (q *snapshotQueriesImpl) Reservations(_ context.Context) ([]portal.Reservation, error) {
	snapshot, err := q.latest()
	if err != nil {
		return nil, err
	}
	return snapshot.Reservations, nil
}

func (q *snapshotQueriesImpl) Favorites(_ context.Context) ([]portal.Favorite, error) {
	snapshot, err := q.latest()
	if err != nil {
		return nil, err
	}
	return snapshot.Favorites, nil
}

func (q *snapshotQueriesImpl) latest() (*coordinator.Snapshot, error) {
	if q.source.NeedsReauth() {
		return nil, ErrReauthRequired
	}
	snapshot := q.source.Snapshot()
	if snapshot == nil {
		return nil, ErrSnapshotUnavailable
	}
	return snapshot, nil
}
