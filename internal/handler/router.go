package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"parkbridge/internal/handler/api"
	"parkbridge/internal/handler/middleware"
	"parkbridge/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Auth        *api.AuthHandler
	Snapshot    *api.SnapshotHandler
	Reservation *api.ReservationHandler
	Favorite    *api.FavoriteHandler
	Schedule    *api.ScheduleHandler
}

func NewRouter(engine *gin.Engine, cfg config.Config, handlers Handlers, authMiddleware *middleware.AuthMiddleware) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, handlers, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, handlers Handlers, authMiddleware *middleware.AuthMiddleware) {
	engine.GET("/health", healthCheck)

	apiGroup := engine.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		{
			addRoutes(auth, []route{
				{Method: http.MethodPost, Path: "/login", Handler: handlers.Auth.Login},
			})
		}

		authed := apiGroup.Group("")
		authed.Use(authMiddleware.RequireAuth())
		{
			addRoutes(authed, []route{
				{Method: http.MethodGet, Path: "/account", Handler: handlers.Snapshot.GetAccount},
				{Method: http.MethodGet, Path: "/reservations", Handler: handlers.Snapshot.GetReservations},
				{Method: http.MethodPost, Path: "/reservations", Handler: handlers.Reservation.CreateReservation},
				{Method: http.MethodPatch, Path: "/reservations/:id", Handler: handlers.Reservation.AdjustEndTime},
				{Method: http.MethodDelete, Path: "/reservations/:id", Handler: handlers.Reservation.DeleteReservation},
				{Method: http.MethodGet, Path: "/favorites", Handler: handlers.Snapshot.GetFavorites},
				{Method: http.MethodPost, Path: "/favorites", Handler: handlers.Favorite.CreateFavorite},
				{Method: http.MethodPatch, Path: "/favorites/:id", Handler: handlers.Favorite.UpdateFavorite},
				{Method: http.MethodDelete, Path: "/favorites/:id", Handler: handlers.Favorite.DeleteFavorite},
				{Method: http.MethodGet, Path: "/schedule", Handler: handlers.Schedule.GetSchedule},
				{Method: http.MethodPut, Path: "/schedule", Handler: handlers.Schedule.UpdateSchedule},
			})
		}
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
