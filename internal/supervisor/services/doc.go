// Vigil - Session Integrity Engine for Proctored E-Learning Playback
// Copyright 2026 AURA Education Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aura-edu/vigil

// Package services wraps Vigil's components as suture services. Each
// wrapper translates one lifecycle shape (a blocking HTTP server, a
// context-driven run loop, a periodic task) into suture's Serve contract.
package services
