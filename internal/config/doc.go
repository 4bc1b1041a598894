// Vigil - Session Integrity Engine for Proctored E-Learning Playback
// Copyright 2026 AURA Education Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aura-edu/vigil

// Package config loads and validates Vigil's configuration using Koanf v2
// with layered sources (env > file > defaults).
//
// The engine policy block carries the proctoring constants: per-kind
// penalties, the lockout threshold, recalibration and blackout durations,
// and the seek tolerance. Defaults reproduce the canonical policy, so a
// deployment with no config file behaves like the reference player.
package config
