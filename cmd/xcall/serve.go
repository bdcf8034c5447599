// Copyright (C) 2025, Lux Industries, Inc.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/luxfi/log"
	"github.com/luxfi/xcall/api"
	"github.com/luxfi/xcall/config"
	"github.com/luxfi/xcall/endpoint"
	"github.com/luxfi/xcall/evm"
	"github.com/luxfi/xcall/healthcheck"
	"github.com/luxfi/xcall/local"
	"github.com/luxfi/xcall/metrics"
	"github.com/luxfi/xcall/state"
	"github.com/luxfi/xcall/state/redisdb"
	"github.com/luxfi/xcall/utils"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const endpointMetricsPrefix = "xcall"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the endpoint API",
	Long: `Serve the endpoint API and metrics. Options are read from flags, the
environment and an optional JSON config file, in that order of precedence.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().AddFlagSet(config.BuildFlagSet())
	serveCmd.SetHelpFunc(func(*cobra.Command, []string) {
		config.DisplayUsageText()
	})
}

func runServe(cmd *cobra.Command, _ []string) error {
	displayVersion, err := cmd.Flags().GetBool(config.VersionKey)
	if err != nil {
		return fmt.Errorf("error reading %s flag: %w", config.VersionKey, err)
	}
	if displayVersion {
		fmt.Println(version)
		return nil
	}

	v, err := config.BuildViper(cmd.Flags())
	if err != nil {
		return fmt.Errorf("couldn't configure flags: %w", err)
	}
	cfg, err := config.NewConfig(v)
	if err != nil {
		return fmt.Errorf("couldn't build config: %w", err)
	}

	logger := log.NewLoggerFromHandler(log.NewTerminalHandlerWithLevel(os.Stdout, cfg.GetLogLevel(), false))
	logger.Info("Initializing xcall",
		log.String("version", version),
		log.String("mode", cfg.Mode),
		log.String("storage", cfg.StorageLocation),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry, registerers := metrics.NewRegistries([]string{endpointMetricsPrefix})

	db, err := newDatabase(ctx, logger, &cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	contracts, closeContracts, err := newContracts(ctx, logger, &cfg)
	if err != nil {
		return err
	}
	defer closeContracts()

	e := endpoint.New(logger, &endpoint.Config{
		Store:           state.NewStore(db),
		Contracts:       contracts,
		Metrics:         metrics.NewEndpointMetrics(registerers[endpointMetricsPrefix]),
		TrustedGateways: cfg.GetTrustedGateways(),
	})
	if err := e.Initialize(ctx, cfg.GetGatewayAddress(), cfg.GetGasServiceAddress()); err != nil {
		return fmt.Errorf("failed to initialize endpoint: %w", err)
	}

	mux := http.NewServeMux()
	api.HandleRequests(mux, logger, e)
	healthcheck.HandleHealthCheckRequest(mux, e.HealthCheck)

	errGroup, ctx := errgroup.WithContext(ctx)
	errGroup.Go(func() error {
		return metrics.Serve(ctx, logger, cfg.MetricsPort, registry)
	})
	errGroup.Go(func() error {
		httpServer := &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.APIPort),
			Handler: mux,
		}
		// Handle graceful shutdown
		go func() {
			<-ctx.Done()
			_ = httpServer.Shutdown(context.Background())
		}()

		logger.Info("Initialization complete", log.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start API server: %w", err)
		}
		return nil
	})

	if err := errGroup.Wait(); err != nil {
		logger.Error("Exited with error", log.Err(err))
		return err
	}
	return nil
}

func newDatabase(ctx context.Context, logger log.Logger, cfg *config.Config) (state.Database, error) {
	if cfg.StorageLocation != config.StorageRedis {
		return state.NewMemoryDatabase(), nil
	}

	db, err := redisdb.New(logger, cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	err = utils.WithRetriesTimeout(logger, func() error {
		return db.HealthCheck(ctx)
	}, cfg.GetInitialConnectionTimeout())
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return db, nil
}

// newContracts returns the contracts the endpoint binds to and a function
// releasing their resources.
func newContracts(ctx context.Context, logger log.Logger, cfg *config.Config) (endpoint.Contracts, func(), error) {
	if cfg.Mode != config.ModeEVM {
		network := local.NewNetwork()
		network.DeployGasService(cfg.GetGasServiceAddress())
		network.DeployGateway(cfg.GetGatewayAddress())
		logger.Info("Deployed local gas service and gateway")
		return network, func() {}, nil
	}

	client, ethClient, err := evm.Dial(ctx, logger, &evm.ClientConfig{
		RPCURL:            cfg.RPCURL,
		PrivateKey:        cfg.AccountPrivateKey,
		ConnectionTimeout: cfg.GetInitialConnectionTimeout(),
		InclusionTimeout:  cfg.GetTxInclusionTimeout(),
	})
	if err != nil {
		return nil, nil, err
	}
	return evm.NewContracts(client), ethClient.Close, nil
}
