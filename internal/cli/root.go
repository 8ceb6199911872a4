// Package cli implements the bricks command line.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bricksvaluation/web/internal/config"
	"github.com/bricksvaluation/web/internal/httpclient"
	"github.com/bricksvaluation/web/internal/logging"
	"github.com/bricksvaluation/web/internal/store"
)

var version = "dev"

type app struct {
	cfg    config.Configuration
	logger *zap.Logger
	mock   bool
}

// NewRootCommand builds the bricks command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "bricks",
		Short:         "BricksValuation client",
		Long:          `Command line client for the BricksValuation API: account registration, login, brick set browsing and valuations, and a local mock of the API.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().BoolVar(&a.mock, "mock", false,
		"serve requests from an in-process mock API (same as VITE_ENABLE_MOCK_DATA=true)")

	root.AddCommand(
		newEnvCommand(a),
		newRegisterCommand(a),
		newLoginCommand(a),
		newBrickSetsCommand(a),
		newServeCommand(a),
	)
	return root
}

func (a *app) init() error {
	a.cfg = config.Resolve()
	if a.mock {
		a.cfg.EnableMockData = true
	}

	logger, err := logging.New(a.cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	a.logger = logger
	return nil
}

// session is the client side wiring shared by the client commands.
type session struct {
	cfg           config.Configuration
	auth          *store.AuthStore
	catalog       *store.CatalogStore
	notifications *store.NotificationStore
	close         func()
}

func (a *app) openSession(ctx context.Context) (*session, error) {
	cfg := a.cfg
	closeMock := func() {}

	if cfg.EnableMockData {
		mock, err := startMockAPI(ctx, a.logger)
		if err != nil {
			return nil, err
		}
		cfg.APIBaseURL = mock.baseURL
		closeMock = mock.close
		a.logger.Debug("mock api started", zap.String("base_url", mock.baseURL))
	}

	client, err := httpclient.New(cfg, httpclient.WithLogger(a.logger))
	if err != nil {
		closeMock()
		return nil, fmt.Errorf("create http client: %w", err)
	}

	notifications := store.NewNotificationStore()
	return &session{
		cfg:           cfg,
		auth:          store.NewAuthStore(cfg, client, store.WithAuthLogger(a.logger)),
		catalog:       store.NewCatalogStore(cfg, client, store.WithCatalogLogger(a.logger)),
		notifications: notifications,
		close: func() {
			notifications.Close()
			closeMock()
		},
	}, nil
}
