package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"parkbridge/internal/autoend"
	"parkbridge/internal/coordinator"
	"parkbridge/internal/infra/repository"
	"parkbridge/internal/ownership"
	"parkbridge/internal/pkg/clock"
	"parkbridge/internal/pkg/config"
	"parkbridge/internal/portal"

	"go.uber.org/fx"
)

var AutoEndModule = fx.Module("autoend",
	fx.Provide(
		NewOwnershipStore,
		NewEngine,
	),
)

func NewOwnershipStore(cfg config.Config, repo *repository.OwnershipRepository, log *slog.Logger) *ownership.Store {
	return ownership.NewStore(repo, cfg.Portal.Username, log)
}

func NewEngine(
	lc fx.Lifecycle,
	client *portal.Client,
	coord *coordinator.Coordinator,
	owned *ownership.Store,
	options *repository.OptionsRepository,
	cfg config.Config,
	loc *time.Location,
	clk clock.Clock,
	log *slog.Logger,
) *autoend.Engine {
	engine := autoend.New(client, coord, owned, loc, clk, log)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := owned.Load(ctx); err != nil {
				return err
			}
			engine.Start()

			opts, found, err := options.Load(ctx, cfg.Portal.Username)
			if err != nil {
				return err
			}
			if found {
				engine.Rearm(opts)
			}
			return nil
		},
		OnStop: func(_ context.Context) error {
			engine.Shutdown()
			return nil
		},
	})

	return engine
}
