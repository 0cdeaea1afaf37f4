package api

import (
	"net/http"

	reqdto "parkbridge/internal/handler/dto/request"
	resdto "parkbridge/internal/handler/dto/response"
	"parkbridge/internal/pkg/errs"
	"parkbridge/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type ScheduleHandler struct {
	scheduleUseCase commands.ScheduleCommands
}

func NewScheduleHandler(scheduleUseCase commands.ScheduleCommands) *ScheduleHandler {
	return &ScheduleHandler{
		scheduleUseCase: scheduleUseCase,
	}
}

func (h *ScheduleHandler) GetSchedule(c *gin.Context) {
	view, err := h.scheduleUseCase.Get(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	c.JSON(http.StatusOK, resdto.FromScheduleView(view))
}

func (h *ScheduleHandler) UpdateSchedule(c *gin.Context) {
	var req reqdto.UpdateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	view, err := h.scheduleUseCase.Update(c.Request.Context(), req.ToOptions())
	if err != nil {
		switch {
		case errs.Is(err, commands.ErrScheduleInvalid):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Invalid schedule configuration",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}
	c.JSON(http.StatusOK, resdto.FromScheduleView(view))
}
