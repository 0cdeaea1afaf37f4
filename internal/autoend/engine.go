// Package autoend arms daily wall-clock triggers from the resolved schedule
// and ends due reservations created by this system, exactly once, with
// catch-up for triggers missed while the process was down.
package autoend

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"parkbridge/internal/coordinator"
	"parkbridge/internal/domain/schedule"
	"parkbridge/internal/ownership"
	"parkbridge/internal/pkg/clock"
	"parkbridge/internal/pkg/errs"
	"parkbridge/internal/portal"
)

const pruneDelay = time.Second

// PortalAPI is the slice of the portal client the engine needs.
type PortalAPI interface {
	Login(ctx context.Context, force bool) error
	DeleteReservation(ctx context.Context, id int64) error
}

// Refresher is the slice of the coordinator the engine needs.
type Refresher interface {
	Refresh(ctx context.Context) (*coordinator.Snapshot, error)
	Snapshot() *coordinator.Snapshot
	AddListener(l coordinator.Listener) func()
}

type Engine struct {
	client PortalAPI
	coord  Refresher
	owned  *ownership.Store
	loc    *time.Location
	clock  clock.Clock
	log    *slog.Logger

	// endMu serializes end operations: a trigger firing while a catch-up or
	// manual end is still running waits instead of racing it.
	endMu sync.Mutex

	mu             sync.Mutex
	cancelTriggers context.CancelFunc
	week           schedule.Week
	armed          bool

	pruneMu        sync.Mutex
	pruneTimer     *time.Timer
	removeListener func()
}

func New(client PortalAPI, coord Refresher, owned *ownership.Store, loc *time.Location, clk clock.Clock, log *slog.Logger) *Engine {
	return &Engine{
		client: client,
		coord:  coord,
		owned:  owned,
		loc:    loc,
		clock:  clk,
		log:    log,
	}
}

// Start registers the ownership-pruning listener on the coordinator.
func (e *Engine) Start() {
	e.removeListener = e.coord.AddListener(e.onSnapshot)
}

// Rearm cancels any armed triggers and re-registers them from the given
// options. Called at startup and whenever the schedule configuration
// changes. An end operation already in flight runs to completion.
func (e *Engine) Rearm(opts schedule.Options) {
	e.mu.Lock()
	if e.cancelTriggers != nil {
		e.cancelTriggers()
		e.cancelTriggers = nil
	}
	e.armed = false

	if !opts.AutoEndEnabled {
		e.mu.Unlock()
		e.log.Info("auto-end disabled, engine idle")
		return
	}

	fallbackFrom, fallbackTo := e.zoneFallback()
	week := schedule.Resolve(opts, fallbackFrom, fallbackTo)
	ends := schedule.EndTimes(week)
	if len(ends) == 0 {
		e.mu.Unlock()
		e.log.Info("no enabled schedule days, engine idle")
		return
	}

	e.week = week
	e.armed = true
	triggerCtx, cancel := context.WithCancel(context.Background())
	e.cancelTriggers = cancel
	for _, at := range ends {
		go e.runTrigger(triggerCtx, at)
	}
	e.mu.Unlock()

	e.log.Info("auto-end armed", "triggers", len(ends))

	// Catch-up: the process may not have been running when the most recent
	// trigger should have fired.
	if last, ok := schedule.LastScheduledEnd(e.clock.Now(), week, e.loc); ok {
		// Rearming again mid-flight must not cancel the catch-up: ending a
		// due reservation runs to completion once started.
		endCtx := context.WithoutCancel(triggerCtx)
		go func() {
			if err := e.EndDueReservations(endCtx, &last); err != nil {
				e.log.Warn("auto-end catch-up failed", "error", err)
			}
		}()
	}
}

// Shutdown cancels triggers and the pending prune task.
func (e *Engine) Shutdown() {
	e.mu.Lock()
	if e.cancelTriggers != nil {
		e.cancelTriggers()
		e.cancelTriggers = nil
	}
	e.armed = false
	e.mu.Unlock()

	e.pruneMu.Lock()
	if e.pruneTimer != nil {
		e.pruneTimer.Stop()
		e.pruneTimer = nil
	}
	e.pruneMu.Unlock()

	if e.removeListener != nil {
		e.removeListener()
		e.removeListener = nil
	}
}

// EndDueReservations runs one end operation: refresh, intersect live
// reservations with the ownership set (optionally limited to those started
// at or before startedBefore), delete each independently, persist the
// shrunken ownership set once, refresh again. At most one end operation runs
// at a time.
func (e *Engine) EndDueReservations(ctx context.Context, startedBefore *time.Time) error {
	e.endMu.Lock()
	defer e.endMu.Unlock()

	snapshot, err := e.coord.Refresh(ctx)
	if err != nil {
		return errs.Wrap(err, "refresh before auto-end failed")
	}

	var eligible []portal.Reservation
	for _, r := range snapshot.Reservations {
		if !e.owned.Contains(r.ID) {
			continue
		}
		if startedBefore != nil && r.StartTime.After(*startedBefore) {
			continue
		}
		eligible = append(eligible, r)
	}
	if len(eligible) == 0 {
		e.log.Debug("no owned reservations due to end")
		return nil
	}

	// A stale session must not burn the whole batch; failure here aborts
	// before any deletion.
	if err := e.client.Login(ctx, true); err != nil {
		e.log.Error("portal login failed, aborting auto-end", "error", err)
		return err
	}

	var (
		wg      sync.WaitGroup
		endedMu sync.Mutex
		ended   []int64
	)
	for _, r := range eligible {
		wg.Add(1)
		go func(r portal.Reservation) {
			defer wg.Done()
			if err := e.client.DeleteReservation(ctx, r.ID); err != nil {
				// Stays in the ownership set; the next trigger retries.
				e.log.Warn("failed to end reservation",
					"reservation_id", r.ID, "error", err)
				return
			}
			e.log.Info("auto-ended reservation",
				"reservation_id", r.ID, "license_plate", r.LicensePlate)
			endedMu.Lock()
			ended = append(ended, r.ID)
			endedMu.Unlock()
		}(r)
	}
	wg.Wait()

	if len(ended) == 0 {
		return nil
	}
	if err := e.owned.Remove(ctx, ended...); err != nil {
		e.log.Error("failed to persist ownership set after auto-end", "error", err)
	}
	if _, err := e.coord.Refresh(ctx); err != nil {
		e.log.Warn("refresh after auto-end failed", "error", err)
	}
	return nil
}

func (e *Engine) runTrigger(ctx context.Context, at schedule.TimeOfDay) {
	for {
		now := e.clock.Now().In(e.loc)
		timer := time.NewTimer(nextOccurrence(now, at, e.loc).Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
		e.onTrigger(ctx)
	}
}

func (e *Engine) onTrigger(ctx context.Context) {
	e.mu.Lock()
	week := e.week
	armed := e.armed
	e.mu.Unlock()
	if !armed {
		return
	}

	nowLocal := e.clock.Now().In(e.loc)
	if !schedule.IsEndDue(nowLocal, week) {
		return
	}
	// Trigger cancellation stops the timer loop, not an end operation that
	// already started.
	if err := e.EndDueReservations(context.WithoutCancel(ctx), nil); err != nil {
		e.log.Warn("auto-end run failed", "error", err)
	}
}

// onSnapshot debounces ownership pruning so refresh bursts coalesce into a
// single persisted intersection.
func (e *Engine) onSnapshot(snapshot *coordinator.Snapshot) {
	live := snapshot.ReservationIDs()

	e.pruneMu.Lock()
	defer e.pruneMu.Unlock()
	if e.pruneTimer != nil {
		e.pruneTimer.Stop()
	}
	e.pruneTimer = time.AfterFunc(pruneDelay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		changed, err := e.owned.PruneTo(ctx, live)
		if err != nil {
			e.log.Warn("failed to prune ownership set", "error", err)
			return
		}
		if changed {
			e.log.Debug("pruned ownership set to live reservations")
		}
	})
}

// zoneFallback derives resolver defaults from the zone active window of the
// latest snapshot, when one exists.
func (e *Engine) zoneFallback() (string, string) {
	snapshot := e.coord.Snapshot()
	if snapshot == nil || snapshot.Account.Zone == nil {
		return "", ""
	}
	zone := snapshot.Account.Zone

	var from, to string
	if zone.StartTime != nil {
		from = zone.StartTime.In(e.loc).Format("15:04")
	}
	if zone.EndTime != nil {
		to = zone.EndTime.In(e.loc).Format("15:04")
	}
	return from, to
}

func nextOccurrence(now time.Time, at schedule.TimeOfDay, loc *time.Location) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), at.Hour, at.Minute, 0, 0, loc)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
