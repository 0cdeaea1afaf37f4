package response

import (
	"parkbridge/internal/portal"

	"github.com/jinzhu/copier"
)

type FavoriteResponse struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	LicensePlate string `json:"licensePlate"`
}

func FromFavorite(favorite *portal.Favorite) *FavoriteResponse {
	var resp FavoriteResponse
	_ = copier.Copy(&resp, favorite)
	return &resp
}

func FromFavorites(favorites []portal.Favorite) []*FavoriteResponse {
	out := make([]*FavoriteResponse, len(favorites))
	for i := range favorites {
		out[i] = FromFavorite(&favorites[i])
	}
	return out
}
