package api

import (
	"errors"
	"net/http"
	"strconv"

	reqdto "parkbridge/internal/handler/dto/request"
	resdto "parkbridge/internal/handler/dto/response"
	"parkbridge/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type FavoriteHandler struct {
	favoriteUseCase commands.FavoriteCommands
}

func NewFavoriteHandler(favoriteUseCase commands.FavoriteCommands) *FavoriteHandler {
	return &FavoriteHandler{
		favoriteUseCase: favoriteUseCase,
	}
}

func (h *FavoriteHandler) CreateFavorite(c *gin.Context) {
	var req reqdto.CreateFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	created, err := h.favoriteUseCase.Create(c.Request.Context(), req.Name, req.LicensePlate)
	if err != nil {
		h.respondFavoriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromFavorite(created))
}

func (h *FavoriteHandler) UpdateFavorite(c *gin.Context) {
	id, ok := h.getFavoriteID(c)
	if !ok {
		return
	}

	var req reqdto.UpdateFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	updated, err := h.favoriteUseCase.Update(c.Request.Context(), id, req.Name, req.LicensePlate)
	if err != nil {
		h.respondFavoriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromFavorite(updated))
}

func (h *FavoriteHandler) DeleteFavorite(c *gin.Context) {
	id, ok := h.getFavoriteID(c)
	if !ok {
		return
	}

	if err := h.favoriteUseCase.Delete(c.Request.Context(), id); err != nil {
		respondPortalError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *FavoriteHandler) respondFavoriteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrFavoriteNameRequired):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Favorite name is required",
		})
	case errors.Is(err, commands.ErrLicensePlateRequired):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "License plate is required",
		})
	default:
		respondPortalError(c, err)
	}
}

func (h *FavoriteHandler) getFavoriteID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid favorite ID format",
		})
		return 0, false
	}
	return id, true
}
