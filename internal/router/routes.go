package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bricksvaluation/web/internal/auth"
	"github.com/bricksvaluation/web/internal/config"
	"github.com/bricksvaluation/web/internal/handler"
	middlewarepkg "github.com/bricksvaluation/web/internal/middleware"
)

// APIPrefix is the mount point of the versioned API.
const APIPrefix = "/api/v1"

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Auth    *handler.AuthHandler
	Catalog *handler.CatalogHandler
}

// Register wires all HTTP routes for the API.
func Register(e *echo.Echo, cfg *config.ServerConfig, jwtManager *auth.JWTManager, handlers Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return handler.Success(c, http.StatusOK, map[string]any{"status": "ok"})
	})

	authGroup := e.Group(APIPrefix + "/auth")
	authGroup.POST("/register", handlers.Auth.Register)
	authGroup.POST("/login", handlers.Auth.Login, middlewarepkg.LoginRateLimiter(cfg.RateLimitLogin))

	secured := authGroup.Group("")
	secured.Use(middlewarepkg.Session(jwtManager))
	secured.POST("/logout", handlers.Auth.Logout)
	secured.GET("/me", handlers.Auth.Me)

	session := middlewarepkg.Session(jwtManager)
	api := e.Group(APIPrefix)
	api.GET("/bricksets", handlers.Catalog.ListBrickSets)
	api.GET("/bricksets/:id", handlers.Catalog.GetBrickSet)
	api.POST("/bricksets", handlers.Catalog.CreateBrickSet, session)
	api.POST("/bricksets/:id/valuations", handlers.Catalog.CreateValuation, session)
	api.POST("/valuations/:id/likes", handlers.Catalog.LikeValuation, session)
	api.GET("/users/me/bricksets", handlers.Catalog.MyBrickSets, session)
	api.GET("/users/me/valuations", handlers.Catalog.MyValuations, session)
}
