package bootstrap

import (
	"context"
	"log/slog"

	"parkbridge/internal/coordinator"
	"parkbridge/internal/pkg/clock"
	"parkbridge/internal/pkg/config"
	"parkbridge/internal/portal"

	"go.uber.org/fx"
)

var CoordinatorModule = fx.Module("coordinator",
	fx.Provide(
		NewCoordinator,
	),
)

func NewCoordinator(lc fx.Lifecycle, client *portal.Client, cfg config.Config, clk clock.Clock, log *slog.Logger) *coordinator.Coordinator {
	coord := coordinator.New(client, cfg.Schedule.PollInterval, clk, log)

	runCtx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			// First refresh off the startup path; the portal being down must
			// not keep the service from coming up.
			go func() {
				if _, err := coord.Refresh(runCtx); err != nil {
					log.Warn("initial portal refresh failed", "error", err)
				}
			}()
			go coord.Run(runCtx)
			return nil
		},
		OnStop: func(_ context.Context) error {
			cancel()
			return nil
		},
	})

	return coord
}
