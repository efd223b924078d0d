package main

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/rollkit/internal/config"
	"github.com/cory-johannsen/rollkit/internal/dice"
	"github.com/cory-johannsen/rollkit/internal/preset"
	"github.com/cory-johannsen/rollkit/internal/rollservice"
	"github.com/cory-johannsen/rollkit/internal/server"
)

func provideSource(cfg config.Config) (dice.Source, error) {
	d := cfg.Dice
	return dice.NewSourceByKind(d.Source, d.Seed, d.ServerSeed, d.ClientSeed, d.Nonce)
}

func provideEngine(src dice.Source) *dice.Engine {
	return dice.NewEngine(src, dice.NewSystemClock())
}

func providePresets(cfg config.Config, logger *zap.Logger) (*preset.Library, error) {
	lib, err := preset.LoadDir(cfg.Presets.Dir)
	if err != nil {
		return nil, err
	}
	logger.Info("presets loaded",
		zap.String("dir", cfg.Presets.Dir),
		zap.Int("count", lib.Len()),
	)
	return lib, nil
}

func provideGRPCServer(svc *rollservice.Server, logger *zap.Logger) *rollservice.GRPCServer {
	return rollservice.NewGRPCServer(svc, logger)
}

func provideListener(cfg config.Config, gs *rollservice.GRPCServer, logger *zap.Logger) *rollservice.Listener {
	return rollservice.NewListener(cfg.GRPC.Addr(), gs, logger)
}

func provideLifecycle(l *rollservice.Listener, logger *zap.Logger) *server.Lifecycle {
	lc := server.NewLifecycle(logger)
	lc.Add("grpc", l)
	return lc
}
