// Vigil - Session Integrity Engine for Proctored E-Learning Playback
// Copyright 2026 AURA Education Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aura-edu/vigil

/*
Package engine runs the per-session integrity state machine.

Each session gets one Engine with a single dispatch goroutine consuming a
signal queue. A signal's full effect (classification, log append, score
update, phase transition) completes before the next signal is taken, so
reads through the ledger never observe a half-applied update.

Phases:

	normal --focus-loss violation--> recalibrating (pause + persistent blackout)
	recalibrating --focus returned + countdown elapsed--> normal
	normal --resize / screenshot--> momentary_blackout (auto-reverts)
	any --score below threshold--> locked_out (absorbing, admin reset only)

Timers (the momentary blackout expiry and the per-second countdown tick)
fire back into the same dispatch loop. At most one timer is outstanding
per session; a countdown in progress is never restarted by further
focus-returned signals.

The Manager owns the engines, loading persisted sessions on first learner
contact and minting new ones otherwise. Administrative resets go through a
priority channel so an external unlock always wins over queued learner
signals.
*/
package engine
