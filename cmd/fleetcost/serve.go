package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rshade/fleetcost/internal/api"
	"github.com/rshade/fleetcost/internal/service"
)

const (
	shutdownTimeout = 10 * time.Second
	probeInterval   = 15 * time.Second
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the calculator and admin HTTP API.

Configuration is read from FLEETCOST_* environment variables. Without
FLEETCOST_DATABASE_URL the catalog lives in memory and is seeded from
FLEETCOST_SEED_PATH at startup.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	repo, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer repo.Close()

	svc := service.New(repo, logger, service.Options{
		CacheTTL: cfg.CatalogCacheTTL,
		SeedPath: cfg.SeedPath,
	})
	if cfg.SeedOnStart {
		report, err := svc.Seed(ctx, false)
		if err != nil {
			return fmt.Errorf("seed catalog: %w", err)
		}
		logger.Info().
			Int("energies", report.Energies).
			Int("parameters", report.Parameters).
			Bool("skipped", report.Skipped).
			Msg("startup seed finished")
	}

	srv := api.NewServer(svc, api.Options{
		AllowedOrigins:  cfg.AllowedOrigins,
		AllowAllOrigins: cfg.AllowAllOrigins,
		TrustedProxies:  cfg.TrustedProxies,
		RateLimitRPS:    cfg.RateLimitRPS,
		RateLimitBurst:  cfg.RateLimitBurst,
	}, logger)
	defer srv.Close()

	httpServer := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	var health *api.HealthChecker
	var healthLis net.Listener
	if cfg.GRPCHealthPort > 0 {
		healthLis, err = net.Listen("tcp", ":"+strconv.Itoa(cfg.GRPCHealthPort))
		if err != nil {
			return fmt.Errorf("listen grpc health: %w", err)
		}
		health = api.NewHealthChecker(svc.Ready, logger)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().Str("addr", httpServer.Addr).Msg("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if health != nil {
		g.Go(func() error {
			return health.Serve(healthLis)
		})
		g.Go(func() error {
			return health.Run(gctx, probeInterval)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if health != nil {
			health.Stop()
		}
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info().Msg("server exited")
	return nil
}
