// Package config provides Viper-based configuration loading for rollkit.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// DiceConfig selects the randomness source for the dice engine.
type DiceConfig struct {
	// Source is one of "crypto", "seeded", or "fair".
	Source string `mapstructure:"source"`
	// Seed seeds the "seeded" source.
	Seed uint64 `mapstructure:"seed"`
	// ServerSeed, ClientSeed and Nonce drive the "fair" source.
	ServerSeed string `mapstructure:"server_seed"`
	ClientSeed string `mapstructure:"client_seed"`
	Nonce      uint64 `mapstructure:"nonce"`
}

// GRPCConfig holds the roll service listen/connect address.
type GRPCConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// Addr returns the "host:port" gRPC address.
//
// Postcondition: Returns a non-empty string in "host:port" format.
func (g GRPCConfig) Addr() string {
	return fmt.Sprintf("%s:%d", g.Host, g.Port)
}

// ScriptingConfig holds Lua macro settings.
type ScriptingConfig struct {
	// Dir is the directory of *.lua macro files. Empty disables scripting.
	Dir string `mapstructure:"dir"`
	// InstructionLimit caps the Lua opcodes per call; 0 selects the default.
	InstructionLimit int `mapstructure:"instruction_limit"`
}

// PresetsConfig holds the roll preset library location.
type PresetsConfig struct {
	// Dir is the directory of *.yaml preset files. Empty means no presets.
	Dir string `mapstructure:"dir"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging   LoggingConfig   `mapstructure:"logging"`
	Dice      DiceConfig      `mapstructure:"dice"`
	GRPC      GRPCConfig      `mapstructure:"grpc"`
	Scripting ScriptingConfig `mapstructure:"scripting"`
	Presets   PresetsConfig   `mapstructure:"presets"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateDice(c.Dice); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateGRPC(c.GRPC); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Scripting.InstructionLimit < 0 {
		errs = append(errs, fmt.Sprintf("scripting.instruction_limit must be >= 0, got %d", c.Scripting.InstructionLimit))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateDice(d DiceConfig) error {
	switch d.Source {
	case "crypto", "seeded":
		return nil
	case "fair":
		if d.ServerSeed == "" {
			return errors.New("dice.server_seed must not be empty when dice.source is fair")
		}
		return nil
	}
	return fmt.Errorf("dice.source must be one of [crypto, seeded, fair], got %q", d.Source)
}

func validateGRPC(g GRPCConfig) error {
	var errs []string
	if g.Host == "" {
		errs = append(errs, "grpc.host must not be empty")
	}
	if g.Port < 1 || g.Port > 65535 {
		errs = append(errs, fmt.Sprintf("grpc.port must be 1-65535, got %d", g.Port))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path skips the file and yields
// the defaults plus any environment overrides.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}
	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the built-in configuration without consulting files or the
// environment.
//
// Postcondition: Default().Validate() == nil.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	cfg, err := LoadFromViper(v)
	if err != nil {
		panic("config: built-in defaults are invalid: " + err.Error())
	}
	return cfg
}

func newViper() *viper.Viper {
	v := viper.New()

	// Environment variable overrides with ROLLKIT_ prefix
	v.SetEnvPrefix("ROLLKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("dice.source", "crypto")
	v.SetDefault("dice.seed", 0)
	v.SetDefault("dice.server_seed", "")
	v.SetDefault("dice.client_seed", "")
	v.SetDefault("dice.nonce", 0)

	v.SetDefault("grpc.host", "127.0.0.1")
	v.SetDefault("grpc.port", 50061)

	v.SetDefault("scripting.dir", "")
	v.SetDefault("scripting.instruction_limit", 0)

	v.SetDefault("presets.dir", "")
}
