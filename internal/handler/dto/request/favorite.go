package request

type CreateFavoriteRequest struct {
	Name         string `json:"name" binding:"required"`
	LicensePlate string `json:"license_plate" binding:"required"`
}

type UpdateFavoriteRequest struct {
	Name         string `json:"name" binding:"required"`
	LicensePlate string `json:"license_plate" binding:"required"`
}
