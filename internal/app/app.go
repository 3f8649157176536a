// Package app assembles the managers and the simulation runner into the
// solarparam daemon.
package app

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/powersim/solarparam/internal/log"
	"github.com/powersim/solarparam/internal/managers"
	"github.com/powersim/solarparam/internal/sim"
	"github.com/powersim/solarparam/pkg/config"
	"github.com/powersim/solarparam/pkg/ephemeris"
	"go.uber.org/zap"
)

// App represents the main application
type App struct {
	configProvider config.ConfigProvider
	logger         *zap.SugaredLogger
}

// New creates a new application instance
func New(configProvider config.ConfigProvider, logger *zap.SugaredLogger) *App {
	return &App{
		configProvider: configProvider,
		logger:         logger,
	}
}

// Run starts the application: it builds the parameter graph, runs the
// simulation, and serves results until shutdown when controllers or devices
// are configured. Without them it exits when the run completes.
func (a *App) Run(ctx context.Context) error {
	var wg sync.WaitGroup

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cfg, err := a.configProvider.LoadConfig()
	if err != nil {
		return err
	}

	// Initialize the storage manager
	storageManager, err := managers.NewStorageManager(ctx, &wg, &cfg.Storage)
	if err != nil {
		return err
	}

	// Build the parameter graph. All solar parameters share one dataset
	// loader, so an ephemeris load happens at most once per position.
	opener := ephemeris.NewVSOP87(cfg.Simulation.VSOP87Dir)
	pm, err := managers.NewParameterManager(cfg.Parameters, opener, a.logger)
	if err != nil {
		return err
	}
	if err := pm.SetupAll(); err != nil {
		return err
	}
	defer pm.CloseAll()

	// Initialize the device manager for live irradiance feeds
	dm, err := managers.NewDeviceManager(ctx, &wg, cfg.Devices, pm, a.logger)
	if err != nil {
		return err
	}
	if err := dm.StartDevices(); err != nil {
		return err
	}

	// Initialize the controller manager
	cm, err := managers.NewControllerManager(ctx, &wg, cfg, storageManager.Memory, a.logger)
	if err != nil {
		return err
	}
	if err := cm.StartControllers(); err != nil {
		return err
	}

	log.Info("Application started successfully")

	runner, err := sim.NewRunner(cfg.Simulation, pm, storageManager.GetSampleDistributor(), a.logger)
	if err != nil {
		return err
	}
	report, err := runner.Run(ctx)
	if err != nil {
		return err
	}
	for _, s := range report.Summaries {
		log.Infof("run %s %s: %d samples, mean=%.2f max=%.2f energy=%.2f Wh",
			report.RunID, s.Parameter, s.Samples, s.Mean, s.Max, s.EnergyWh)
	}

	// With controllers configured, keep serving results until shutdown.
	if len(cfg.Controllers) > 0 {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

		select {
		case <-sigs:
			log.Info("shutdown signal received, initiating graceful shutdown...")
		case <-ctx.Done():
			log.Info("context cancelled, shutting down...")
		}
	}

	// Flush buffered samples through the distributor and the engines before
	// stopping the workers.
	storageManager.Shutdown()

	// Cancel context to signal all remaining goroutines to stop
	cancel()

	// Wait for all workers to terminate
	log.Info("waiting for all workers to terminate...")
	wg.Wait()
	log.Info("shutdown complete")

	return nil
}
