// Vigil - Session Integrity Engine for Proctored E-Learning Playback
// Copyright 2026 AURA Education Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aura-edu/vigil

// Package ledger owns the trust score and violation history for a
// session. All score mutations flow through it so that the score, the
// log, and their persistence never diverge under concurrent readers.
package ledger
