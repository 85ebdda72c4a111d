// Package config provides Viper-based configuration loading for the
// simulation engine.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EngineConfig holds the simulation core tunables.
type EngineConfig struct {
	// BattlefieldLength is the default battlefield extent in meters for
	// places that carry no geometry hints.
	BattlefieldLength float64 `mapstructure:"battlefield_length"`
	// BattlefieldMargin is the default entry offset from each edge.
	BattlefieldMargin float64 `mapstructure:"battlefield_margin"`
	// EnergyRecovery is the per-round energy recovery base rate.
	EnergyRecovery float64 `mapstructure:"energy_recovery"`
	// ScriptInstructionLimit bounds each end-condition script
	// evaluation; 0 uses the sandbox default.
	ScriptInstructionLimit int `mapstructure:"script_instruction_limit"`
	// EndScript is an optional path to a Lua end-condition script. Empty
	// selects the built-in last-team-standing policy.
	EndScript string `mapstructure:"end_script"`
}

// WorldConfig holds world content settings.
type WorldConfig struct {
	// File is the path to the YAML world definition.
	File string `mapstructure:"file"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// Config is the top-level application configuration.
type Config struct {
	Engine  EngineConfig  `mapstructure:"engine"`
	World   WorldConfig   `mapstructure:"world"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error
// describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateEngine(c.Engine); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateEngine(e EngineConfig) error {
	var errs []string
	if e.BattlefieldLength <= 0 {
		errs = append(errs, fmt.Sprintf("engine.battlefield_length must be > 0, got %v", e.BattlefieldLength))
	}
	if e.BattlefieldMargin < 0 || e.BattlefieldMargin >= e.BattlefieldLength/2 {
		errs = append(errs, fmt.Sprintf("engine.battlefield_margin must be in [0, length/2), got %v", e.BattlefieldMargin))
	}
	if e.EnergyRecovery < 0 {
		errs = append(errs, fmt.Sprintf("engine.energy_recovery must be >= 0, got %v", e.EnergyRecovery))
	}
	if e.ScriptInstructionLimit < 0 {
		errs = append(errs, fmt.Sprintf("engine.script_instruction_limit must be >= 0, got %d", e.ScriptInstructionLimit))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
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

// Load reads configuration from the given file path, applies environment
// variable overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with ENGINE_ prefix
	v.SetEnvPrefix("ENGINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
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

// Default returns the built-in configuration, for callers that run
// without a config file.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Unmarshalling defaults cannot fail.
	_ = v.Unmarshal(&cfg)
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("engine.battlefield_length", 50.0)
	v.SetDefault("engine.battlefield_margin", 5.0)
	v.SetDefault("engine.energy_recovery", 10.0)
	v.SetDefault("engine.script_instruction_limit", 0)
	v.SetDefault("engine.end_script", "")

	v.SetDefault("world.file", "world.yaml")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}
