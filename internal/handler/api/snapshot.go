package api

import (
	"net/http"

	resdto "parkbridge/internal/handler/dto/response"
	"parkbridge/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

// SnapshotHandler serves reads from the latest coordinator snapshot.
type SnapshotHandler struct {
	snapshotQueries queries.SnapshotQueries
}

func NewSnapshotHandler(snapshotQueries queries.SnapshotQueries) *SnapshotHandler {
	return &SnapshotHandler{
		snapshotQueries: snapshotQueries,
	}
}

func (h *SnapshotHandler) GetAccount(c *gin.Context) {
	account, err := h.snapshotQueries.Account(c.Request.Context())
	if err != nil {
		respondSnapshotError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromAccount(account))
}

func (h *SnapshotHandler) GetReservations(c *gin.Context) {
	reservations, err := h.snapshotQueries.Reservations(c.Request.Context())
	if err != nil {
		respondSnapshotError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservations(reservations))
}

func (h *SnapshotHandler) GetFavorites(c *gin.Context) {
	favorites, err := h.snapshotQueries.Favorites(c.Request.Context())
	if err != nil {
		respondSnapshotError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromFavorites(favorites))
}
