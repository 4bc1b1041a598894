// Vigil - Session Integrity Engine for Proctored E-Learning Playback
// Copyright 2026 AURA Education Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aura-edu/vigil

// Package playback enforces anti-forwarding for proctored media: a
// per-session guard tracks watched progress and clamps seeks that try to
// skip ahead of it.
package playback
