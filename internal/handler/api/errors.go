package api

import (
	"fmt"
	"net/http"

	"parkbridge/internal/pkg/errs"
	"parkbridge/internal/portal"
	"parkbridge/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

// respondPortalError maps upstream portal failures onto gateway statuses so
// callers can tell "we broke" from "the portal broke".
func respondPortalError(c *gin.Context, err error) {
	switch {
	case errs.Is(err, portal.ErrAuth):
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Portal authentication failed",
		})
	case errs.Is(err, portal.ErrConnection):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Parking portal unavailable",
		})
	default:
		if status, ok := portal.ResponseStatus(err); ok {
			c.JSON(http.StatusBadGateway, gin.H{
				"error": fmt.Sprintf("Portal rejected the request (status %d)", status),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}

func respondSnapshotError(c *gin.Context, err error) {
	switch {
	case errs.Is(err, queries.ErrReauthRequired):
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Portal authentication failed",
		})
	case errs.Is(err, queries.ErrSnapshotUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "No portal data available yet",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}
