package commands

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"parkbridge/internal/coordinator"
	"parkbridge/internal/domain/schedule"
	"parkbridge/internal/pkg/clock"
	"parkbridge/internal/pkg/errs"
	"parkbridge/internal/portal"

	"github.com/google/uuid"
)

var (
	ErrLicensePlateRequired = errs.New("license plate required")
	ErrEndBeforeStart       = errs.New("end time must be after start time")
	ErrZoneEndUnavailable   = errs.New("could not determine zone end time")
)

const replayRetention = 24 * time.Hour

type CreateReservationParams struct {
	LicensePlate string
	Name         *string
	StartTime    time.Time
	EndTime      *time.Time
}

type CreateReservationResult struct {
	Reservation portal.Reservation
	// AutoEndAt is set when the reservation falls inside a configured
	// auto-end window and will be ended early.
	AutoEndAt    *time.Time
	AutoEndClock string
	IsReplayed   bool
}

type ReservationCommands interface {
	Create(ctx context.Context, params CreateReservationParams, idempotencyKey uuid.UUID) (*CreateReservationResult, error)
	Delete(ctx context.Context, id int64) error
	AdjustEndTime(ctx context.Context, id int64, endTime time.Time) (*portal.Reservation, error)
}

type replayEntry struct {
	result    *CreateReservationResult
	createdAt time.Time
}

type reservationUseCaseImpl struct {
	gateway   PortalGateway
	refresher SnapshotRefresher
	owned     OwnershipRecorder
	options   OptionsRepository
	entryID   string
	loc       *time.Location
	clock     clock.Clock
	log       *slog.Logger

	replayMu sync.Mutex
	replays  map[uuid.UUID]replayEntry
}

func NewReservationUseCase(
	gateway PortalGateway,
	refresher SnapshotRefresher,
	owned OwnershipRecorder,
	options OptionsRepository,
	entryID string,
	loc *time.Location,
	clk clock.Clock,
	log *slog.Logger,
) ReservationCommands {
	return &reservationUseCaseImpl{
		gateway:   gateway,
		refresher: refresher,
		owned:     owned,
		options:   options,
		entryID:   entryID,
		loc:       loc,
		clock:     clk,
		log:       log,
		replays:   make(map[uuid.UUID]replayEntry),
	}
}

func (r *reservationUseCaseImpl) Create(
	ctx context.Context,
	params CreateReservationParams,
	idempotencyKey uuid.UUID,
) (*CreateReservationResult, error) {
	if strings.TrimSpace(params.LicensePlate) == "" {
		return nil, ErrLicensePlateRequired
	}

	if replayed := r.lookupReplay(idempotencyKey); replayed != nil {
		return replayed, nil
	}

	endTime, err := r.resolveEndTime(ctx, params)
	if err != nil {
		return nil, err
	}
	if !endTime.After(params.StartTime) {
		return nil, ErrEndBeforeStart
	}

	created, err := r.gateway.CreateReservation(ctx, portal.ReservationParams{
		LicensePlate: strings.TrimSpace(params.LicensePlate),
		Name:         params.Name,
		StartTime:    params.StartTime,
		EndTime:      endTime,
	})
	if err != nil {
		return nil, err
	}

	// The reservation exists either way; losing the ownership record only
	// means it will not be auto-ended.
	if err := r.owned.Add(ctx, created.ID); err != nil {
		r.log.Error("failed to record reservation ownership",
			"reservation_id", created.ID, "error", err)
	}

	result := &CreateReservationResult{Reservation: *created}
	r.attachAutoEnd(ctx, result)

	if _, err := r.refresher.Refresh(ctx); err != nil {
		r.log.Warn("refresh after create failed", "error", err)
	}

	r.storeReplay(idempotencyKey, result)
	return result, nil
}

func (r *reservationUseCaseImpl) Delete(ctx context.Context, id int64) error {
	if err := r.gateway.DeleteReservation(ctx, id); err != nil {
		return err
	}
	if err := r.owned.Remove(ctx, id); err != nil {
		r.log.Error("failed to drop reservation ownership",
			"reservation_id", id, "error", err)
	}
	if _, err := r.refresher.Refresh(ctx); err != nil {
		r.log.Warn("refresh after delete failed", "error", err)
	}
	return nil
}

func (r *reservationUseCaseImpl) AdjustEndTime(ctx context.Context, id int64, endTime time.Time) (*portal.Reservation, error) {
	if endTime.IsZero() {
		return nil, ErrEndBeforeStart
	}

	updated, err := r.gateway.PatchReservationEndTime(ctx, id, endTime)
	if err != nil {
		return nil, err
	}
	if _, err := r.refresher.Refresh(ctx); err != nil {
		r.log.Warn("refresh after end time adjustment failed", "error", err)
	}
	return updated, nil
}

// resolveEndTime defaults a missing end time to the zone active window end
// for the start instant.
func (r *reservationUseCaseImpl) resolveEndTime(ctx context.Context, params CreateReservationParams) (time.Time, error) {
	if params.EndTime != nil {
		return *params.EndTime, nil
	}

	window, err := r.gateway.FetchEndTime(ctx, params.StartTime.Unix())
	if err != nil {
		return time.Time{}, err
	}
	if window.EndTime == nil {
		return time.Time{}, ErrZoneEndUnavailable
	}
	return *window.EndTime, nil
}

// attachAutoEnd warns the caller when the new reservation sits inside a
// configured auto-end window and will be ended before its requested end.
func (r *reservationUseCaseImpl) attachAutoEnd(ctx context.Context, result *CreateReservationResult) {
	opts, found, err := r.options.Load(ctx, r.entryID)
	if err != nil {
		r.log.Warn("failed to load schedule options", "error", err)
		return
	}
	if !found || !opts.AutoEndEnabled {
		return
	}

	fallbackFrom, fallbackTo := zoneFallback(r.refresher.Snapshot(), r.loc)
	week := schedule.Resolve(opts, fallbackFrom, fallbackTo)
	clockAt, endAt, ok := schedule.ScheduledEndForStart(result.Reservation.StartTime, week, r.loc)
	if !ok || !endAt.Before(result.Reservation.EndTime) {
		return
	}
	result.AutoEndAt = &endAt
	result.AutoEndClock = clockAt.String()
}

func (r *reservationUseCaseImpl) lookupReplay(key uuid.UUID) *CreateReservationResult {
	if key == uuid.Nil {
		return nil
	}

	r.replayMu.Lock()
	defer r.replayMu.Unlock()
	entry, ok := r.replays[key]
	if !ok || r.clock.Now().Sub(entry.createdAt) > replayRetention {
		return nil
	}
	replayed := *entry.result
	replayed.IsReplayed = true
	return &replayed
}

func (r *reservationUseCaseImpl) storeReplay(key uuid.UUID, result *CreateReservationResult) {
	if key == uuid.Nil {
		return
	}

	r.replayMu.Lock()
	defer r.replayMu.Unlock()
	now := r.clock.Now()
	for k, entry := range r.replays {
		if now.Sub(entry.createdAt) > replayRetention {
			delete(r.replays, k)
		}
	}
	r.replays[key] = replayEntry{result: result, createdAt: now}
}

// zoneFallback derives resolver defaults from the zone active window of the
// latest snapshot, when one exists.
func zoneFallback(snapshot *coordinator.Snapshot, loc *time.Location) (string, string) {
	if snapshot == nil || snapshot.Account.Zone == nil {
		return "", ""
	}
	zone := snapshot.Account.Zone

	var from, to string
	if zone.StartTime != nil {
		from = zone.StartTime.In(loc).Format("15:04")
	}
	if zone.EndTime != nil {
		to = zone.EndTime.In(loc).Format("15:04")
	}
	return from, to
}
