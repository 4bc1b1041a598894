// Vigil - Session Integrity Engine for Proctored E-Learning Playback
// Copyright 2026 AURA Education Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aura-edu/vigil

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultPolicy(t *testing.T) {
	cfg := Default()

	if cfg.Engine.LockoutThreshold != 50 {
		t.Errorf("lockout threshold = %d, want 50", cfg.Engine.LockoutThreshold)
	}
	if cfg.Engine.RecalibrationSeconds != 3 {
		t.Errorf("recalibration = %ds, want 3s", cfg.Engine.RecalibrationSeconds)
	}
	if cfg.Engine.BlackoutDuration != 1500*time.Millisecond {
		t.Errorf("blackout duration = %v, want 1.5s", cfg.Engine.BlackoutDuration)
	}
	if cfg.Engine.SeekTolerance != 0.5 {
		t.Errorf("seek tolerance = %v, want 0.5", cfg.Engine.SeekTolerance)
	}

	p := cfg.Engine.Penalties
	for _, tt := range []struct {
		name string
		got  int
		want int
	}{
		{"tab_switch", p.TabSwitch, 5},
		{"focus_lost", p.FocusLost, 5},
		{"screenshot", p.Screenshot, 20},
		{"inspector", p.Inspector, 10},
		{"save_print", p.SavePrint, 10},
		{"forward_seek", p.ForwardSeek, 5},
	} {
		if tt.got != tt.want {
			t.Errorf("penalty %s = %d, want %d", tt.name, tt.got, tt.want)
		}
	}

	if cfg.Engine.ResizeScoresViolation {
		t.Error("resize should not score a violation by default")
	}
	if !cfg.Engine.ForwardSeekScoresViolation {
		t.Error("rejected forward seeks should score by default")
	}
}

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port zero", func(c *Config) { c.Server.Port = 0 }},
		{"negative penalty", func(c *Config) { c.Engine.Penalties.Screenshot = -1 }},
		{"threshold above 100", func(c *Config) { c.Engine.LockoutThreshold = 101 }},
		{"zero blackout", func(c *Config) { c.Engine.BlackoutDuration = 0 }},
		{"no store path", func(c *Config) { c.Store.Path = ""; c.Store.InMemory = false }},
		{"zero recalibration", func(c *Config) { c.Engine.RecalibrationSeconds = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestLoadWithConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("engine:\n  lockout_threshold: 40\n  penalties:\n    screenshot: 25\nstore:\n  in_memory: true\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Engine.LockoutThreshold != 40 {
		t.Errorf("lockout threshold = %d, want 40 from file", cfg.Engine.LockoutThreshold)
	}
	if cfg.Engine.Penalties.Screenshot != 25 {
		t.Errorf("screenshot penalty = %d, want 25 from file", cfg.Engine.Penalties.Screenshot)
	}
	// Untouched values keep defaults.
	if cfg.Engine.Penalties.TabSwitch != 5 {
		t.Errorf("tab switch penalty = %d, want default 5", cfg.Engine.Penalties.TabSwitch)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, "/nonexistent/config.yaml")
	t.Setenv("VIGIL_ENGINE_LOCKOUT_THRESHOLD", "30")
	t.Setenv("VIGIL_ENGINE_PENALTIES_TAB_SWITCH", "7")
	t.Setenv("VIGIL_STORE_IN_MEMORY", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Engine.LockoutThreshold != 30 {
		t.Errorf("lockout threshold = %d, want 30 from env", cfg.Engine.LockoutThreshold)
	}
	if cfg.Engine.Penalties.TabSwitch != 7 {
		t.Errorf("tab switch penalty = %d, want 7 from env", cfg.Engine.Penalties.TabSwitch)
	}
}

func TestEnvTransform(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"VIGIL_SERVER_PORT", "server.port"},
		{"VIGIL_ENGINE_LOCKOUT_THRESHOLD", "engine.lockout_threshold"},
		{"VIGIL_ENGINE_PENALTIES_TAB_SWITCH", "engine.penalties.tab_switch"},
		{"VIGIL_TELEMETRY_INTERVAL", "telemetry.interval"},
	}
	for _, tt := range tests {
		if got := envTransform(tt.in); got != tt.want {
			t.Errorf("envTransform(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
