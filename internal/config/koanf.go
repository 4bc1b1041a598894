// Vigil - Session Integrity Engine for Proctored E-Learning Playback
// Copyright 2026 AURA Education Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aura-edu/vigil

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where config files are searched, in order.
// The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/vigil/config.yaml",
	"/etc/vigil/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// envPrefix namespaces Vigil's environment variables.
const envPrefix = "VIGIL_"

// Default returns a Config with all default values. These match the
// canonical proctoring policy: penalties 5/5/20/10/10/5, lockout below 50,
// 3 second recalibration, 1.5 second momentary blackout, 0.5 second seek
// tolerance.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8443,
			Host:            "0.0.0.0",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   120,
			RateLimitWindow: time.Minute,
		},
		Engine: EngineConfig{
			Penalties: PenaltyConfig{
				TabSwitch:   5,
				FocusLost:   5,
				Screenshot:  20,
				Inspector:   10,
				SavePrint:   10,
				ForwardSeek: 5,
			},
			LockoutThreshold:           50,
			RecalibrationSeconds:       3,
			BlackoutDuration:           1500 * time.Millisecond,
			SeekTolerance:              0.5,
			ResizeScoresViolation:      false,
			ForwardSeekScoresViolation: true,
			SignalRatePerSecond:        50,
			SignalBurst:                100,
			QueueSize:                  256,
		},
		Store: StoreConfig{
			Path:                    "/data/vigil",
			InMemory:                false,
			GCInterval:              10 * time.Minute,
			BreakerMaxRequests:      3,
			BreakerInterval:         30 * time.Second,
			BreakerTimeout:          15 * time.Second,
			BreakerFailureThreshold: 5,
		},
		Telemetry: TelemetryConfig{
			Interval: 2 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load builds the configuration from layered sources, highest priority last:
//  1. Built-in defaults
//  2. Optional YAML config file
//  3. VIGIL_* environment variables
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", configPath, err)
		}
	}

	// VIGIL_SERVER_PORT -> server.port, VIGIL_ENGINE_LOCKOUT_THRESHOLD ->
	// engine.lockout_threshold, and so on.
	envProvider := env.Provider(envPrefix, ".", envTransform)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first config file that exists, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envTransform maps VIGIL_SECTION_SOME_KEY to section.some_key. The first
// underscore separates the section; the rest of the name is kept verbatim
// so multi-word keys round-trip.
func envTransform(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, strings.ToLower(envPrefix)))
	parts := strings.SplitN(key, "_", 2)
	if len(parts) != 2 {
		return key
	}
	section, rest := parts[0], parts[1]

	// Nested engine.penalties keys: VIGIL_ENGINE_PENALTIES_TAB_SWITCH.
	if section == "engine" && strings.HasPrefix(rest, "penalties_") {
		return "engine.penalties." + strings.TrimPrefix(rest, "penalties_")
	}
	return section + "." + rest
}

// sliceConfigPaths lists config paths parsed as comma-separated slices
// when they arrive as env var strings.
var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields converts comma-separated env strings to slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("set %s: %w", path, err)
			}
		}
	}
	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateStruct runs tag-based validation over the config tree.
func validateStruct(v interface{}) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
