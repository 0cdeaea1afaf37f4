package components

import (
	"parkbridge/internal/handler"
	"parkbridge/internal/handler/api"
	"parkbridge/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAuthHandler,
		api.NewSnapshotHandler,
		api.NewReservationHandler,
		api.NewFavoriteHandler,
		api.NewScheduleHandler,
		middleware.NewAuthMiddleware,
		NewHandlers,
	),
	fx.Invoke(handler.NewRouter),
)

func NewHandlers(
	auth *api.AuthHandler,
	snapshot *api.SnapshotHandler,
	reservation *api.ReservationHandler,
	favorite *api.FavoriteHandler,
	schedule *api.ScheduleHandler,
) handler.Handlers {
	return handler.Handlers{
		Auth:        auth,
		Snapshot:    snapshot,
		Reservation: reservation,
		Favorite:    favorite,
		Schedule:    schedule,
	}
}
