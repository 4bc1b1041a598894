// Vigil - Session Integrity Engine for Proctored E-Learning Playback
// Copyright 2026 AURA Education Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aura-edu/vigil

// Package supervisor builds the suture supervision tree that keeps Vigil's
// long-running services alive. Services are grouped into data, session and
// API layers so a crash in one layer restarts only its siblings.
package supervisor
