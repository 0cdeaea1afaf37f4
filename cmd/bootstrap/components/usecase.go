package components

import (
	"log/slog"
	"time"

	"parkbridge/internal/autoend"
	"parkbridge/internal/coordinator"
	repo_impl "parkbridge/internal/infra/repository"
	"parkbridge/internal/ownership"
	"parkbridge/internal/pkg/clock"
	"parkbridge/internal/pkg/config"
	"parkbridge/internal/pkg/jwt"
	"parkbridge/internal/portal"
	"parkbridge/internal/usecase/commands"
	"parkbridge/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	fx.Provide(
		clock.NewRealClock,
		NewAuthCommands,
		NewTokenValidator,
		NewReservationCommands,
		NewFavoriteCommands,
		NewScheduleCommands,
		NewSnapshotQueries,
	),
)

func NewAuthCommands(cfg config.Config, tokens *jwt.Service) commands.AuthCommands {
	return commands.NewAuthUseCase(cfg.API, tokens)
}

func NewTokenValidator(tokens *jwt.Service) commands.TokenValidator {
	return tokens
}

func NewReservationCommands(
	client *portal.Client,
	coord *coordinator.Coordinator,
	owned *ownership.Store,
	options *repo_impl.OptionsRepository,
	cfg config.Config,
	loc *time.Location,
	clk clock.Clock,
	log *slog.Logger,
) commands.ReservationCommands {
	return commands.NewReservationUseCase(client, coord, owned, options, cfg.Portal.Username, loc, clk, log)
}

func NewFavoriteCommands(client *portal.Client, coord *coordinator.Coordinator, log *slog.Logger) commands.FavoriteCommands {
	return commands.NewFavoriteUseCase(client, coord, log)
}

func NewScheduleCommands(
	options *repo_impl.OptionsRepository,
	engine *autoend.Engine,
	coord *coordinator.Coordinator,
	cfg config.Config,
	loc *time.Location,
	log *slog.Logger,
) commands.ScheduleCommands {
	return commands.NewScheduleUseCase(options, engine, coord, cfg.Portal.Username, loc, log)
}

func NewSnapshotQueries(coord *coordinator.Coordinator) queries.SnapshotQueries {
	return queries.NewSnapshotQueries(coord)
}
