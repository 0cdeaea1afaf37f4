package bootstrap

import (
	"log/slog"
	"time"

	"parkbridge/internal/pkg/config"
	"parkbridge/internal/portal"

	"go.uber.org/fx"
)

var PortalModule = fx.Module("portal",
	fx.Provide(
		NewPortalClient,
		NewLocation,
	),
)

func NewPortalClient(cfg config.Config, log *slog.Logger) (*portal.Client, error) {
	return portal.New(cfg.Portal, log)
}

// NewLocation is the schedule timezone; all wall-clock trigger math happens
// in it.
func NewLocation(cfg config.Config) (*time.Location, error) {
	return time.LoadLocation(cfg.Schedule.TimeZone)
}
