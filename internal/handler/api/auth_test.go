//go:build unit

package api_test

import (
	"net/http"
	"testing"

	"parkbridge/internal/handler/api"
	resdto "parkbridge/internal/handler/dto/response"
	"parkbridge/internal/pkg/errs"
	"parkbridge/internal/usecase/commands"
	"parkbridge/tests/common/httptest"
	commandsmock "parkbridge/tests/mock/commands"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type AuthHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockAuthCommands
}

func (s *AuthHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockAuthCommands(s.mockCtrl)
	handler := api.NewAuthHandler(s.mockCommands)

	s.router.POST("/auth/login", handler.Login)
}

func (s *AuthHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestAuthHandlerSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerTestSuite))
}

func (s *AuthHandlerTestSuite) TestLogin() {
	url := "/auth/login"
	reqBody := map[string]any{"username": "admin", "password": "s3cret-pass"}

	s.Run("success: returns a token", func() {
		s.mockCommands.EXPECT().Login(gomock.Any(), "admin", "s3cret-pass").
			Return("signed.jwt.token", nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var response resdto.LoginResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("signed.jwt.token", response.Token)
	})

	s.Run("error: 401 on invalid credentials", func() {
		s.mockCommands.EXPECT().Login(gomock.Any(), "admin", "s3cret-pass").
			Return("", commands.ErrInvalidCredentials).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Invalid credentials")
	})

	s.Run("error: 400 on missing fields", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url,
			map[string]any{"username": "admin"}, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request format")
	})

	s.Run("error: 500 on unexpected failure", func() {
		s.mockCommands.EXPECT().Login(gomock.Any(), "admin", "s3cret-pass").
			Return("", errs.New("signing failed")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Internal server error")
	})
}
