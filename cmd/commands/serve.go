package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/symbol/symbol-faucet/pkg/app"
	"github.com/symbol/symbol-faucet/pkg/collector"
	"github.com/symbol/symbol-faucet/pkg/logger"
	"github.com/symbol/symbol-faucet/pkg/scheduler"
	httpfiber "github.com/symbol/symbol-faucet/pkg/server/http"
)

const bootstrapTimeout = 30 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Bind to a healthy node and serve the faucet API and metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateConfig(cfg); err != nil {
				return err
			}

			res := app.NewResources(cfg)
			defer res.Close()

			lister := app.NewNodeLister(cfg)
			manager := app.NewManager(cfg, lister, app.WithFactoryBuilder(app.NewFactoryBuilder(cfg, res)))
			defer manager.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), bootstrapTimeout)
			bound, err := manager.Bootstrap(ctx)
			cancel()
			if err != nil {
				return fmt.Errorf("failed to bootstrap faucet: %w", err)
			}
			if !bound.IsNodeHealth(cmd.Context()) {
				logger.Warnf("bound node %s is not healthy yet", bound.NodeURL())
			}

			labels := prometheus.Labels{}
			if cfg.Global.Environment != "" {
				labels["environment"] = cfg.Global.Environment
			}
			registry := prometheus.NewRegistry()
			registry.MustRegister(
				collector.NewFaucetCollector(collector.FromManager(manager), labels),
				collector.NewFailoverCounter(manager, labels),
			)

			var watchdog *scheduler.Watchdog
			if cfg.HealthCheck != nil && cfg.HealthCheck.Enabled {
				watchdog, err = scheduler.NewWatchdog(cfg.HealthCheck, manager)
				if err != nil {
					return err
				}
				if err := watchdog.Start(); err != nil {
					return fmt.Errorf("failed to start watchdog: %w", err)
				}
			} else {
				logger.Infof("Node watchdog is disabled")
			}

			server, err := httpfiber.NewServer(cfg, manager,
				httpfiber.WithRegistry(registry),
				httpfiber.WithNodeLister(lister))
			if err != nil {
				return fmt.Errorf("failed to create server: %w", err)
			}

			sigCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				errCh <- server.Run()
			}()

			select {
			case <-sigCtx.Done():
				logger.Infof("Shutting down...")
			case err = <-errCh:
				logger.Errorf("failed to run server: %v", err)
			}

			if watchdog != nil {
				if stopErr := watchdog.Stop(); stopErr != nil {
					logger.Errorf("Failed to stop watchdog: %v", stopErr)
				}
			}
			server.Stop()
			logger.Infof("Shutdown complete")
			return err
		},
	}
}
