// Vigil - Session Integrity Engine for Proctored E-Learning Playback
// Copyright 2026 AURA Education Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aura-edu/vigil

// Package store persists session records in BadgerDB under "session:"
// keys. Writes are circuit-breaker protected so a failing disk never
// stalls enforcement; reads go straight to Badger.
package store
