package commands

import (
	"context"
	"log/slog"
	"strings"

	"parkbridge/internal/pkg/errs"
	"parkbridge/internal/portal"
)

var ErrFavoriteNameRequired = errs.New("favorite name required")

type FavoriteCommands interface {
	Create(ctx context.Context, name, licensePlate string) (*portal.Favorite, error)
	Update(ctx context.Context, id int64, name, licensePlate string) (*portal.Favorite, error)
	Delete(ctx context.Context, id int64) error
}

type favoriteUseCaseImpl struct {
	gateway   PortalGateway
	refresher SnapshotRefresher
	log       *slog.Logger
}

func NewFavoriteUseCase(gateway PortalGateway, refresher SnapshotRefresher, log *slog.Logger) FavoriteCommands {
	return &favoriteUseCaseImpl{
		gateway:   gateway,
		refresher: refresher,
		log:       log,
	}
}

func (f *favoriteUseCaseImpl) Create(ctx context.Context, name, licensePlate string) (*portal.Favorite, error) {
	name, licensePlate, err := validateFavorite(name, licensePlate)
	if err != nil {
		return nil, err
	}

	created, err := f.gateway.CreateFavorite(ctx, name, licensePlate)
	if err != nil {
		return nil, err
	}
	f.refreshAfter(ctx, "create favorite")
	return created, nil
}

func (f *favoriteUseCaseImpl) Update(ctx context.Context, id int64, name, licensePlate string) (*portal.Favorite, error) {
	name, licensePlate, err := validateFavorite(name, licensePlate)
	if err != nil {
		return nil, err
	}

	updated, err := f.gateway.UpdateFavorite(ctx, id, name, licensePlate)
	if err != nil {
		return nil, err
	}
	f.refreshAfter(ctx, "update favorite")
	return updated, nil
}

func (f *favoriteUseCaseImpl) Delete(ctx context.Context, id int64) error {
	if err := f.gateway.DeleteFavorite(ctx, id); err != nil {
		return err
	}
	f.refreshAfter(ctx, "delete favorite")
	return nil
}

func (f *favoriteUseCaseImpl) refreshAfter(ctx context.Context, op string) {
	if _, err := f.refresher.Refresh(ctx); err != nil {
		f.log.Warn("refresh after "+op+" failed", "error", err)
	}
}

func validateFavorite(name, licensePlate string) (string, string, error) {
	name = strings.TrimSpace(name)
	licensePlate = strings.TrimSpace(licensePlate)
	if name == "" {
		return "", "", ErrFavoriteNameRequired
	}
	if licensePlate == "" {
		return "", "", ErrLicensePlateRequired
	}
	return name, licensePlate, nil
}
