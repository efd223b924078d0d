//go:build wireinject

package main

import (
	"github.com/google/wire"
	"go.uber.org/zap"

	"github.com/cory-johannsen/rollkit/internal/config"
	"github.com/cory-johannsen/rollkit/internal/dice"
	"github.com/cory-johannsen/rollkit/internal/rollservice"
	"github.com/cory-johannsen/rollkit/internal/server"
)

var providerSet = wire.NewSet(
	provideSource,
	provideEngine,
	dice.NewLoggedRoller,
	providePresets,
	rollservice.NewServer,
	provideGRPCServer,
	provideListener,
	provideLifecycle,
)

func initializeLifecycle(cfg config.Config, logger *zap.Logger) (*server.Lifecycle, error) {
	wire.Build(providerSet)
	return nil, nil
}
