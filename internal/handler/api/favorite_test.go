//go:build unit

package api_test

import (
	"net/http"
	"testing"

	"parkbridge/internal/handler/api"
	resdto "parkbridge/internal/handler/dto/response"
	"parkbridge/internal/portal"
	"parkbridge/internal/usecase/commands"
	"parkbridge/tests/common/httptest"
	commandsmock "parkbridge/tests/mock/commands"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type FavoriteHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockFavoriteCommands
}

func (s *FavoriteHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockFavoriteCommands(s.mockCtrl)
	handler := api.NewFavoriteHandler(s.mockCommands)

	s.router.POST("/favorites", handler.CreateFavorite)
	s.router.PATCH("/favorites/:id", handler.UpdateFavorite)
	s.router.DELETE("/favorites/:id", handler.DeleteFavorite)
}

func (s *FavoriteHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestFavoriteHandlerSuite(t *testing.T) {
	suite.Run(t, new(FavoriteHandlerTestSuite))
}

func (s *FavoriteHandlerTestSuite) TestCreateFavorite() {
	url := "/favorites"
	reqBody := map[string]any{"name": "Visitors", "license_plate": "VV-111-V"}

	s.Run("success: returns 201 Created", func() {
		s.mockCommands.EXPECT().Create(gomock.Any(), "Visitors", "VV-111-V").
			Return(&portal.Favorite{ID: 3, Name: "Visitors", LicensePlate: "VV-111-V"}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var response resdto.FavoriteResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal(int64(3), response.ID)
	})

	s.Run("error: 400 when the name is blank", func() {
		s.mockCommands.EXPECT().Create(gomock.Any(), "  ", "VV-111-V").
			Return(nil, commands.ErrFavoriteNameRequired).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url,
			map[string]any{"name": "  ", "license_plate": "VV-111-V"}, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "name is required")
	})

	s.Run("error: portal failure maps through", func() {
		s.mockCommands.EXPECT().Create(gomock.Any(), "Visitors", "VV-111-V").
			Return(nil, portal.ErrConnection).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusServiceUnavailable, "")
	})
}

func (s *FavoriteHandlerTestSuite) TestUpdateFavorite() {
	s.Run("success: returns the updated favorite", func() {
		s.mockCommands.EXPECT().Update(gomock.Any(), int64(3), "Family", "FF-222-F").
			Return(&portal.Favorite{ID: 3, Name: "Family", LicensePlate: "FF-222-F"}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, "/favorites/3",
			map[string]any{"name": "Family", "license_plate": "FF-222-F"}, "")

		var response resdto.FavoriteResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("Family", response.Name)
	})

	s.Run("error: 400 on malformed id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, "/favorites/zero",
			map[string]any{"name": "Family", "license_plate": "FF-222-F"}, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "favorite ID")
	})
}

func (s *FavoriteHandlerTestSuite) TestDeleteFavorite() {
	s.mockCommands.EXPECT().Delete(gomock.Any(), int64(3)).Return(nil).Times(1)

	rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, "/favorites/3", nil, "")
	s.Equal(http.StatusNoContent, rec.Code)
}
