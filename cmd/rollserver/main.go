// Package main provides the roll server binary, which serves the dice engine
// over gRPC.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/rollkit/internal/config"
	"github.com/cory-johannsen/rollkit/internal/observability"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/rollkit.yaml", "path to configuration file; empty uses defaults and ROLLKIT_* environment variables")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging, "rollserver")
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	lifecycle, err := initializeLifecycle(cfg, logger)
	if err != nil {
		logger.Fatal("initializing roll server", zap.Error(err))
	}

	logger.Info("roll server initialized",
		zap.Duration("startup", time.Since(start)),
		zap.String("grpc_addr", cfg.GRPC.Addr()),
		zap.String("dice_source", cfg.Dice.Source),
	)

	if err := lifecycle.Run(context.Background()); err != nil {
		logger.Error("roll server exited with error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}
