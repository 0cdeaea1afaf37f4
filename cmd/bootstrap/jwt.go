package bootstrap

import (
	"parkbridge/internal/pkg/config"
	"parkbridge/internal/pkg/jwt"

	"go.uber.org/fx"
)

var JWTModule = fx.Module("jwt",
	fx.Provide(
		NewJWTService,
	),
)

func NewJWTService(cfg config.Config) *jwt.Service {
	return jwt.NewService(cfg.API.JWTSecret, cfg.API.TokenDuration)
}
