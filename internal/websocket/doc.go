// Vigil - Session Integrity Engine for Proctored E-Learning Playback
// Copyright 2026 AURA Education Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aura-edu/vigil

// Package websocket connects players and dashboards to the integrity
// engine. Learner connections stream raw signals up and receive
// enforcement commands down; monitor connections receive violation events
// and periodic stats updates. The hub is the engine's command sink and
// never lets a slow connection block the dispatch loop.
package websocket
