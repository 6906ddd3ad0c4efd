package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mikey/legitim/internal/core"
	"github.com/mikey/legitim/internal/di"
	"github.com/mikey/legitim/internal/ports"
	"github.com/mikey/legitim/internal/tool"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (searches the default locations if not set)")
	flag.Parse()

	// Build the dependency injection container
	container, err := di.BuildContainer(*configPath)
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	logger *zap.Logger,
	intakes []ports.Intake,
	forms *tool.Registry,
	classifier core.Classifier,
	cacheRepo core.CacheRepository,
) error {
	defer logger.Sync()

	started := make([]ports.Intake, 0, len(intakes))
	for _, in := range intakes {
		if err := in.Start(); err != nil {
			logger.Error("Failed to start intake", zap.String("intake", in.Name()), zap.Error(err))
			stopAll(logger, started)
			return err
		}
		started = append(started, in)
	}

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	<-sigCh
	logger.Info("Shutting down...")

	stopAll(logger, started)
	forms.Stop()

	// Close any resources that need closing
	if closer, ok := classifier.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close classifier", zap.Error(err))
		}
	}

	// Stop the cache if needed
	if stopper, ok := cacheRepo.(interface{ Stop() }); ok {
		stopper.Stop()
	}

	logger.Info("Shutdown complete")
	return nil
}

func stopAll(logger *zap.Logger, intakes []ports.Intake) {
	for _, in := range intakes {
		if err := in.Stop(); err != nil {
			logger.Error("Failed to stop intake", zap.String("intake", in.Name()), zap.Error(err))
		}
	}
}
