// Vigil - Session Integrity Engine for Proctored E-Learning Playback
// Copyright 2026 AURA Education Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aura-edu/vigil

package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the Vigil server.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Engine    EngineConfig    `koanf:"engine"`
	Store     StoreConfig     `koanf:"store"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
}

// PenaltyConfig holds the per-kind trust score deductions. The defaults
// mirror the canonical penalty table; deployments may tune them but the
// deduction recorded on a violation is whatever was configured at the time
// it was classified.
type PenaltyConfig struct {
	TabSwitch   int `koanf:"tab_switch" validate:"gte=0,lte=100"`
	FocusLost   int `koanf:"focus_lost" validate:"gte=0,lte=100"`
	Screenshot  int `koanf:"screenshot" validate:"gte=0,lte=100"`
	Inspector   int `koanf:"inspector" validate:"gte=0,lte=100"`
	SavePrint   int `koanf:"save_print" validate:"gte=0,lte=100"`
	ForwardSeek int `koanf:"forward_seek" validate:"gte=0,lte=100"`
}

// EngineConfig holds the session integrity policy.
type EngineConfig struct {
	Penalties PenaltyConfig `koanf:"penalties"`

	// LockoutThreshold is the score strictly below which a session locks out.
	LockoutThreshold int `koanf:"lockout_threshold" validate:"gte=0,lte=100"`

	// RecalibrationSeconds is the mandatory countdown after focus returns.
	RecalibrationSeconds int `koanf:"recalibration_seconds" validate:"gte=1"`

	// BlackoutDuration is how long a momentary blackout lasts.
	BlackoutDuration time.Duration `koanf:"blackout_duration"`

	// SeekTolerance allows minor float drift past the watched high-water
	// mark before a seek is rejected, in seconds.
	SeekTolerance float64 `koanf:"seek_tolerance" validate:"gte=0"`

	// ResizeScoresViolation scores window resizes instead of only blacking
	// out. Off in the baseline policy.
	ResizeScoresViolation bool `koanf:"resize_scores_violation"`

	// ForwardSeekScoresViolation classifies rejected forward seeks as
	// violations in addition to clamping them.
	ForwardSeekScoresViolation bool `koanf:"forward_seek_scores_violation"`

	// SignalRatePerSecond and SignalBurst bound how fast one connection
	// may deliver signals before excess is dropped.
	SignalRatePerSecond float64 `koanf:"signal_rate_per_second" validate:"gt=0"`
	SignalBurst         int     `koanf:"signal_burst" validate:"gte=1"`

	// QueueSize is the per-session signal queue depth.
	QueueSize int `koanf:"queue_size" validate:"gte=1"`
}

// StoreConfig holds session persistence settings.
type StoreConfig struct {
	Path       string        `koanf:"path"`
	InMemory   bool          `koanf:"in_memory"`
	GCInterval time.Duration `koanf:"gc_interval"`

	// Breaker settings protect the engine from a degraded store: writes
	// trip open after consecutive failures and recover on their own.
	BreakerMaxRequests      uint32        `koanf:"breaker_max_requests"`
	BreakerInterval         time.Duration `koanf:"breaker_interval"`
	BreakerTimeout          time.Duration `koanf:"breaker_timeout"`
	BreakerFailureThreshold uint32        `koanf:"breaker_failure_threshold"`
}

// TelemetryConfig holds the monitoring broadcast settings.
type TelemetryConfig struct {
	// Interval is how often aggregate stats are pushed to monitor clients.
	Interval time.Duration `koanf:"interval"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// RecalibrationDuration returns the countdown length as a duration.
func (e EngineConfig) RecalibrationDuration() time.Duration {
	return time.Duration(e.RecalibrationSeconds) * time.Second
}

// Validate checks cross-field constraints that struct tags cannot express.
func (c *Config) Validate() error {
	if err := validateStruct(c); err != nil {
		return err
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Engine.BlackoutDuration <= 0 {
		return fmt.Errorf("engine.blackout_duration must be positive")
	}
	if !c.Store.InMemory && c.Store.Path == "" {
		return fmt.Errorf("store.path required unless store.in_memory is set")
	}
	return nil
}
