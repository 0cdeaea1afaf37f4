package api

import (
	"errors"
	"net/http"

	reqdto "parkbridge/internal/handler/dto/request"
	resdto "parkbridge/internal/handler/dto/response"
	"parkbridge/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUseCase commands.AuthCommands
}

func NewAuthHandler(authUseCase commands.AuthCommands) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
	}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req reqdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	token, err := h.authUseCase.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid credentials",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.LoginResponse{Token: token})
}
