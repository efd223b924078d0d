package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func validConfig() Config {
	return Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Dice: DiceConfig{
			Source: "crypto",
		},
		GRPC: GRPCConfig{
			Host: "127.0.0.1",
			Port: 50061,
		},
		Scripting: ScriptingConfig{
			Dir:              "content/scripts",
			InstructionLimit: 100000,
		},
		Presets: PresetsConfig{
			Dir: "content/presets",
		},
	}
}

func TestValidConfig(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, "crypto", cfg.Dice.Source)
	assert.Equal(t, "127.0.0.1:50061", cfg.GRPC.Addr())
}

func TestGRPCAddr(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, "127.0.0.1:50061", cfg.GRPC.Addr())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	err := os.WriteFile(path, []byte(`
logging:
  level: debug
  format: console
dice:
  source: fair
  server_seed: s3cret
  client_seed: table-7
  nonce: 12
grpc:
  host: 0.0.0.0
  port: 6000
scripting:
  dir: ./macros
  instruction_limit: 5000
presets:
  dir: ./presets
`), 0644)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "fair", cfg.Dice.Source)
	assert.Equal(t, "s3cret", cfg.Dice.ServerSeed)
	assert.Equal(t, "table-7", cfg.Dice.ClientSeed)
	assert.Equal(t, uint64(12), cfg.Dice.Nonce)
	assert.Equal(t, 6000, cfg.GRPC.Port)
	assert.Equal(t, "./macros", cfg.Scripting.Dir)
	assert.Equal(t, 5000, cfg.Scripting.InstructionLimit)
	assert.Equal(t, "./presets", cfg.Presets.Dir)
}

func TestLoadFromFile_DefaultsFillGaps(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dice:\n  source: seeded\n  seed: 99\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "seeded", cfg.Dice.Source)
	assert.Equal(t, uint64(99), cfg.Dice.Seed)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 50061, cfg.GRPC.Port)
}

func TestLoad_EmptyPathUsesEnvironment(t *testing.T) {
	t.Setenv("ROLLKIT_DICE_SOURCE", "seeded")
	t.Setenv("ROLLKIT_GRPC_PORT", "7000")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "seeded", cfg.Dice.Source)
	assert.Equal(t, 7000, cfg.GRPC.Port)
}

func TestLoadInvalidPath(t *testing.T) {
	_, err := Load("/nonexistent/path.yaml")
	assert.Error(t, err)
}

func TestLoadFromViper_Invalid(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("dice.source", "dev-urandom")
	_, err := LoadFromViper(v)
	assert.ErrorContains(t, err, "dice.source")
}

func TestValidateLoggingLevel(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		cfg := validConfig()
		cfg.Logging.Level = level
		assert.NoError(t, cfg.Validate(), "level %q should be valid", level)
	}
	cfg := validConfig()
	cfg.Logging.Level = "trace"
	assert.Error(t, cfg.Validate())
}

func TestValidateLoggingFormat(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		cfg := validConfig()
		cfg.Logging.Format = format
		assert.NoError(t, cfg.Validate(), "format %q should be valid", format)
	}
	cfg := validConfig()
	cfg.Logging.Format = "xml"
	assert.Error(t, cfg.Validate())
}

func TestValidateDiceSource(t *testing.T) {
	for _, src := range []string{"crypto", "seeded"} {
		cfg := validConfig()
		cfg.Dice.Source = src
		assert.NoError(t, cfg.Validate(), "source %q should be valid", src)
	}
	cfg := validConfig()
	cfg.Dice.Source = "fair"
	assert.Error(t, cfg.Validate(), "fair requires a server seed")
	cfg.Dice.ServerSeed = "seed"
	assert.NoError(t, cfg.Validate())

	cfg = validConfig()
	cfg.Dice.Source = "math"
	assert.Error(t, cfg.Validate())
}

func TestValidateGRPCHostEmpty(t *testing.T) {
	cfg := validConfig()
	cfg.GRPC.Host = ""
	assert.Error(t, cfg.Validate())
}

func TestValidateScriptingInstructionLimit(t *testing.T) {
	cfg := validConfig()
	cfg.Scripting.InstructionLimit = -1
	assert.Error(t, cfg.Validate())
}

func TestValidate_CollectsAllViolations(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Level = "loud"
	cfg.Dice.Source = "none"
	cfg.GRPC.Port = 0
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logging.level")
	assert.Contains(t, err.Error(), "dice.source")
	assert.Contains(t, err.Error(), "grpc.port")
}

// Property-based tests

func TestPropertyValidPortRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		port := rapid.IntRange(1, 65535).Draw(t, "port")
		cfg := validConfig()
		cfg.GRPC.Port = port
		err := cfg.Validate()
		if err != nil {
			t.Fatalf("valid port %d rejected: %v", port, err)
		}
	})
}

func TestPropertyInvalidPortRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		port := rapid.OneOf(
			rapid.IntRange(-1000, 0),
			rapid.IntRange(65536, 100000),
		).Draw(t, "port")
		cfg := validConfig()
		cfg.GRPC.Port = port
		err := cfg.Validate()
		if err == nil {
			t.Fatalf("invalid port %d accepted", port)
		}
	})
}
