// Vigil - Session Integrity Engine for Proctored E-Learning Playback
// Copyright 2026 AURA Education Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aura-edu/vigil

// Package logging provides centralized zerolog-based structured logging
// for Vigil.
//
// The package exposes a global logger configured once at startup and used
// by every other package:
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logging.Info().Str("session_id", id).Int("score", s).Msg("penalty applied")
//
// JSON output is the production default; console output is available for
// development. An slog adapter bridges the global logger to libraries that
// consume *slog.Logger, which Vigil needs for the suture supervisor's
// sutureslog event hook.
package logging
