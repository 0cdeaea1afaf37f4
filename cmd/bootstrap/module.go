package bootstrap

import (
	"parkbridge/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	DBModule,
	JWTModule,
	PortalModule,
	CoordinatorModule,
	AutoEndModule,
	components.RepositoryModule,
	components.UseCaseModule,
	components.HandlerModule,
)
