// Vigil - Session Integrity Engine for Proctored E-Learning Playback
// Copyright 2026 AURA Education Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aura-edu/vigil

// Package models defines the shared data types for Vigil: the session
// integrity record (Session, Violation, SessionPhase), the dashboard
// summary types, and the API response envelope.
//
// Ownership rules:
//   - TrustScore and ViolationLog are mutated only by the ledger.
//   - SessionPhase is mutated only by the session engine; it is derived,
//     not persisted (a restored session below the lockout threshold
//     re-enters lockout at initialization).
package models
