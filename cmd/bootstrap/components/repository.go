package components

import (
	repo_impl "parkbridge/internal/infra/repository"

	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		repo_impl.NewOwnershipRepository,
		repo_impl.NewOptionsRepository,
	),
)
