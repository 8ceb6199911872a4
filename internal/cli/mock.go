package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/bricksvaluation/web/internal/config"
	"github.com/bricksvaluation/web/internal/dto"
	"github.com/bricksvaluation/web/internal/entity"
	"github.com/bricksvaluation/web/internal/repository"
	"github.com/bricksvaluation/web/internal/router"
	"github.com/bricksvaluation/web/internal/service"
)

// Demo account available in the mock API.
const (
	DemoUsername = "demo"
	DemoEmail    = "demo@bricksvaluation.local"
	DemoPassword = "Demo1234!"
)

// collectorUsername owns most of the seeded brick sets.
const collectorUsername = "kolekcjoner"

type mockAPI struct {
	baseURL string
	close   func()
}

// startMockAPI serves the mock API from memory on a loopback port.
func startMockAPI(ctx context.Context, logger *zap.Logger) (*mockAPI, error) {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("listen mock api: %w", err)
	}

	repos := router.Repositories{
		Users:   repository.NewMemoryUsersRepository(),
		Catalog: repository.NewMemoryCatalogRepository(),
	}
	if err := seedDemoData(ctx, repos); err != nil {
		_ = ln.Close()
		return nil, err
	}

	cfg := &config.ServerConfig{
		JWTSecret: "mock-secret",
		TokenTTL:  time.Hour,
	}
	e := router.New(cfg, repos, logger.Named("mock"), service.WithHashCost(bcrypt.MinCost))
	srv := &http.Server{Handler: e, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("mock api stopped", zap.Error(err))
		}
	}()

	return &mockAPI{
		baseURL: "http://" + ln.Addr().String() + "/api",
		close: func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		},
	}, nil
}

// seedDemoData creates the demo account, a second collector and a few brick
// sets with valuations the demo user can browse and like.
func seedDemoData(ctx context.Context, repos router.Repositories) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.MinCost)
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}
	demo, err := repos.Users.Create(ctx, DemoUsername, DemoEmail, string(hash))
	if err != nil {
		return fmt.Errorf("seed demo user: %w", err)
	}
	collector, err := repos.Users.Create(ctx, collectorUsername, "kolekcjoner@bricksvaluation.local", string(hash))
	if err != nil {
		return fmt.Errorf("seed collector: %w", err)
	}

	estimate := 3500
	sets := []struct {
		set       entity.BrickSet
		valuation *entity.Valuation
	}{
		{
			set: entity.BrickSet{OwnerID: collector.ID, Number: 10179, ProductionStatus: string(dto.ProductionRetired),
				Completeness: string(dto.Complete), HasInstructions: true, HasBox: true, OwnerInitialEstimate: &estimate},
			valuation: &entity.Valuation{UserID: collector.ID, Value: 3800, Currency: dto.DefaultCurrency},
		},
		{
			set: entity.BrickSet{OwnerID: demo.ID, Number: 75192, ProductionStatus: string(dto.ProductionActive),
				Completeness: string(dto.Complete), IsFactorySealed: true},
			valuation: &entity.Valuation{UserID: collector.ID, Value: 3200, Currency: dto.DefaultCurrency},
		},
		{
			set: entity.BrickSet{OwnerID: collector.ID, Number: 21309, ProductionStatus: string(dto.ProductionRetired),
				Completeness: string(dto.Incomplete), HasInstructions: true},
		},
	}

	for _, s := range sets {
		created, err := repos.Catalog.CreateBrickSet(ctx, s.set)
		if err != nil {
			return fmt.Errorf("seed brick set %d: %w", s.set.Number, err)
		}
		if s.valuation == nil {
			continue
		}
		v := *s.valuation
		v.BrickSetID = created.ID
		if _, err := repos.Catalog.CreateValuation(ctx, v); err != nil {
			return fmt.Errorf("seed valuation of %d: %w", s.set.Number, err)
		}
	}
	return nil
}
