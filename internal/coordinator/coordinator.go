// Package coordinator polls the portal on a fixed interval and publishes
// immutable snapshots of account, reservation and favorite state.
package coordinator

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"parkbridge/internal/pkg/clock"
	"parkbridge/internal/pkg/errs"
	"parkbridge/internal/portal"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// PortalAPI is the slice of the portal client the coordinator needs.
type PortalAPI interface {
	Login(ctx context.Context, force bool) error
	FetchAccount(ctx context.Context) (*portal.Account, error)
	FetchReservations(ctx context.Context) ([]portal.Reservation, error)
	FetchFavorites(ctx context.Context) ([]portal.Favorite, error)
}

// Snapshot is replaced atomically on each successful refresh and never
// partially mutated.
type Snapshot struct {
	Account      portal.Account
	Reservations []portal.Reservation
	Favorites    []portal.Favorite
	FetchedAt    time.Time
}

// ReservationIDs returns the set of live reservation IDs.
func (s *Snapshot) ReservationIDs() map[int64]struct{} {
	ids := make(map[int64]struct{}, len(s.Reservations))
	for _, r := range s.Reservations {
		ids[r.ID] = struct{}{}
	}
	return ids
}

type Listener func(*Snapshot)

type Coordinator struct {
	client   PortalAPI
	interval time.Duration
	clock    clock.Clock
	log      *slog.Logger

	group singleflight.Group

	mu                sync.Mutex
	snapshot          *Snapshot
	listeners         map[int]Listener
	nextListenerID    int
	needsReauth       bool
	unavailableLogged bool
}

func New(client PortalAPI, interval time.Duration, clk clock.Clock, log *slog.Logger) *Coordinator {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Coordinator{
		client:    client,
		interval:  interval,
		clock:     clk,
		log:       log,
		listeners: make(map[int]Listener),
	}
}

// Refresh fetches a fresh snapshot. Concurrent calls collapse onto the
// refresh already in flight and share its result.
func (c *Coordinator) Refresh(ctx context.Context) (*Snapshot, error) {
	result, err, _ := c.group.Do("refresh", func() (any, error) {
		return c.refresh(ctx)
	})
	if err != nil {
		return nil, err
	}
	return result.(*Snapshot), nil
}

func (c *Coordinator) refresh(ctx context.Context) (*Snapshot, error) {
	if err := c.client.Login(ctx, false); err != nil {
		return nil, c.classify(err)
	}

	var (
		account      *portal.Account
		reservations []portal.Reservation
		favorites    []portal.Favorite
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		account, err = c.client.FetchAccount(gctx)
		return err
	})
	g.Go(func() (err error) {
		reservations, err = c.client.FetchReservations(gctx)
		return err
	})
	g.Go(func() (err error) {
		favorites, err = c.client.FetchFavorites(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, c.classify(err)
	}

	snapshot := &Snapshot{
		Account:      *account,
		Reservations: reservations,
		Favorites:    favorites,
		FetchedAt:    c.clock.Now(),
	}

	c.mu.Lock()
	c.snapshot = snapshot
	c.needsReauth = false
	if c.unavailableLogged {
		c.log.Info("parking portal is back online")
		c.unavailableLogged = false
	}
	notify := make([]Listener, 0, len(c.listeners))
	for _, l := range c.listeners {
		notify = append(notify, l)
	}
	c.mu.Unlock()

	for _, l := range notify {
		l(snapshot)
	}
	return snapshot, nil
}

// classify updates availability/reauth state. Auth failures latch until a
// refresh succeeds; connection failures are logged once at reduced severity
// to avoid spam on flaky connectivity.
func (c *Coordinator) classify(err error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case errs.Is(err, portal.ErrAuth):
		c.needsReauth = true
		c.log.Error("portal authentication failed, re-authentication required", "error", err)
	case errs.Is(err, portal.ErrConnection):
		if !c.unavailableLogged {
			c.log.Info("parking portal is unavailable", "error", err)
			c.unavailableLogged = true
		}
	default:
		c.log.Warn("portal refresh failed", "error", err)
	}
	return err
}

// Snapshot returns the latest published snapshot, or nil before the first
// successful refresh.
func (c *Coordinator) Snapshot() *Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot
}

// NeedsReauth reports whether the last refresh failed with an auth error.
func (c *Coordinator) NeedsReauth() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.needsReauth
}

// AddListener registers a callback invoked synchronously after each
// published snapshot; the returned func removes it.
func (c *Coordinator) AddListener(l Listener) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextListenerID
	c.nextListenerID++
	c.listeners[id] = l

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

// Run polls until ctx is cancelled. Errors are already classified and
// logged; the next tick retries.
func (c *Coordinator) Run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := c.Refresh(ctx); err != nil {
				continue
			}
		}
	}
}
