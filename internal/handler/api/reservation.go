package api

import (
	"errors"
	"net/http"
	"strconv"

	reqdto "parkbridge/internal/handler/dto/request"
	resdto "parkbridge/internal/handler/dto/response"
	"parkbridge/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReservationHandler struct {
	reservationUseCase commands.ReservationCommands
}

func NewReservationHandler(reservationUseCase commands.ReservationCommands) *ReservationHandler {
	return &ReservationHandler{
		reservationUseCase: reservationUseCase,
	}
}

func (h *ReservationHandler) CreateReservation(c *gin.Context) {
	idempotencyKey, err := h.getIdempotencyKey(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid idempotency key format",
		})
		return
	}

	var req reqdto.CreateReservationRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	params := commands.CreateReservationParams{
		LicensePlate: req.LicensePlate,
		Name:         req.GetName(),
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
	}

	result, err := h.reservationUseCase.Create(c.Request.Context(), params, idempotencyKey)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrLicensePlateRequired):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "License plate is required",
			})
		case errors.Is(err, commands.ErrEndBeforeStart):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "End time must be after start time",
			})
		case errors.Is(err, commands.ErrZoneEndUnavailable):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Could not determine a default end time for this zone",
			})
		default:
			respondPortalError(c, err)
		}
		return
	}

	status := http.StatusCreated
	if result.IsReplayed {
		status = http.StatusOK
	}
	c.JSON(status, resdto.FromCreateResult(result))
}

func (h *ReservationHandler) DeleteReservation(c *gin.Context) {
	id, ok := h.getReservationID(c)
	if !ok {
		return
	}

	if err := h.reservationUseCase.Delete(c.Request.Context(), id); err != nil {
		respondPortalError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ReservationHandler) AdjustEndTime(c *gin.Context) {
	id, ok := h.getReservationID(c)
	if !ok {
		return
	}

	var req reqdto.AdjustEndTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	updated, err := h.reservationUseCase.AdjustEndTime(c.Request.Context(), id, req.EndTime)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrEndBeforeStart):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "End time must be after start time",
			})
		default:
			respondPortalError(c, err)
		}
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservation(updated))
}

func (h *ReservationHandler) getReservationID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid reservation ID format",
		})
		return 0, false
	}
	return id, true
}

// getIdempotencyKey parses the optional Idempotency-Key header; absent means
// no replay protection for this request.
func (h *ReservationHandler) getIdempotencyKey(c *gin.Context) (uuid.UUID, error) {
	keyStr := c.GetHeader("Idempotency-Key")
	if keyStr == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(keyStr)
}
