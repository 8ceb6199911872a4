package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bricksvaluation/web/internal/config"
	"github.com/bricksvaluation/web/internal/database"
	"github.com/bricksvaluation/web/internal/repository"
	"github.com/bricksvaluation/web/internal/router"
)

func newServeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the mock API",
		Long: `Run the mock auth and catalog API.

Users and brick sets are kept in memory unless DATABASE_URL points at a
Postgres database.
PORT, JWT_SECRET, JWT_TTL, RATE_LIMIT_LOGIN and COOKIE_SECURE tune the server.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadServer()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			return a.serve(cmd.Context(), cfg)
		},
	}
}

func (a *app) serve(ctx context.Context, cfg *config.ServerConfig) error {
	repos := router.Repositories{
		Users:   repository.NewMemoryUsersRepository(),
		Catalog: repository.NewMemoryCatalogRepository(),
	}

	if cfg.DatabaseURL != "" {
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		pool, err := database.Connect(connectCtx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer pool.Close()

		if err := database.Migrate(connectCtx, pool); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
		repos.Users = repository.NewPGXUsersRepository(pool)
		repos.Catalog = repository.NewPGXCatalogRepository(pool)
	} else {
		a.logger.Warn("DATABASE_URL not set, data is kept in memory")
	}

	e := router.New(cfg, repos, a.logger)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- e.Start(":" + cfg.Port)
	}()
	a.logger.Info("mock api listening", zap.String("port", cfg.Port))

	select {
	case <-ctx.Done():
		a.logger.Info("shutting down")
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
