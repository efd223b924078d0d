package rollservice_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/rollkit/internal/dice"
	"github.com/cory-johannsen/rollkit/internal/preset"
	"github.com/cory-johannsen/rollkit/internal/rollservice"
)

func newGRPCServer(t *testing.T, logger *zap.Logger) *rollservice.GRPCServer {
	t.Helper()
	lib, err := preset.NewLibrary()
	require.NoError(t, err)
	roller := dice.NewLoggedRoller(dice.NewEngine(dice.NewSeededSource(1), dice.NewSystemClock()), logger)
	return rollservice.NewGRPCServer(rollservice.NewServer(roller, lib, logger), logger)
}

func TestListener_StartStop(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)
	l := rollservice.NewListener("127.0.0.1:0", newGRPCServer(t, logger), logger)

	done := make(chan error, 1)
	go func() { done <- l.Start() }()

	require.Eventually(t, func() bool {
		return logs.FilterMessage("gRPC server listening").Len() == 1
	}, 2*time.Second, 10*time.Millisecond)

	l.Stop()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("listener did not stop")
	}
}

func TestListener_BadAddress(t *testing.T) {
	logger := zap.NewNop()
	l := rollservice.NewListener("256.0.0.1:99999", newGRPCServer(t, logger), logger)
	assert.Error(t, l.Start())
}

func TestFullMethod(t *testing.T) {
	assert.Equal(t, "/rollkit.v1.RollService/Evaluate", rollservice.FullMethod(rollservice.MethodEvaluate))
	assert.Len(t, rollservice.ServiceDesc.Methods, 8)
}
