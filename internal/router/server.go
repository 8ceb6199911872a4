package router

import (
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/bricksvaluation/web/internal/auth"
	"github.com/bricksvaluation/web/internal/config"
	"github.com/bricksvaluation/web/internal/handler"
	middlewarepkg "github.com/bricksvaluation/web/internal/middleware"
	"github.com/bricksvaluation/web/internal/repository"
	"github.com/bricksvaluation/web/internal/service"
)

// Repositories are the storage backends of the API.
type Repositories struct {
	Users   repository.UsersRepository
	Catalog repository.CatalogRepository
}

// New assembles the mock API on top of repos.
func New(cfg *config.ServerConfig, repos Repositories, logger *zap.Logger, opts ...service.Option) *echo.Echo {
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	authService := service.NewAuthService(repos.Users, jwtManager, opts...)
	authHandler := handler.NewAuthHandler(authService, jwtManager, cfg.CookieSecure)
	catalogHandler := handler.NewCatalogHandler(service.NewCatalogService(repos.Catalog))

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging(logger))
	e.Use(echoMiddleware.Recover())

	Register(e, cfg, jwtManager, Handlers{Auth: authHandler, Catalog: catalogHandler})
	return e
}
