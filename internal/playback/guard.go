// Vigil - Session Integrity Engine for Proctored E-Learning Playback
// Copyright 2026 AURA Education Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aura-edu/vigil

package playback

import "sync"

// SeekDecision is the guard's verdict on a requested seek. When the seek
// is rejected, ClampedTime is the position the player must be snapped
// back to.
type SeekDecision struct {
	Allowed     bool    `json:"allowed"`
	ClampedTime float64 `json:"clamped_time"`
}

// Guard enforces the no-forwarding rule for one session's media playback.
// It tracks the furthest position legitimately reached (the high-water
// mark) and rejects seeks that jump past it by more than the configured
// tolerance. Backward seeks and re-watching are always allowed.
//
// The guard is media-scoped: until Bind is called, every callback is a
// no-op and every seek is allowed, so lobby and instructions screens are
// never policed.
type Guard struct {
	mu        sync.Mutex
	mediaID   string
	bound     bool
	highWater float64
	tolerance float64
}

// NewGuard creates an unbound guard with the given seek tolerance in
// seconds. The tolerance absorbs player-side rounding between the last
// timeupdate and the seek target.
func NewGuard(tolerance float64) *Guard {
	return &Guard{tolerance: tolerance}
}

// Bind attaches the guard to a media item and resets the high-water mark
// to zero. Binding to the media already bound is a no-op so duplicate
// loadedmetadata events cannot erase progress.
func (g *Guard) Bind(mediaID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.bound && g.mediaID == mediaID {
		return
	}
	g.mediaID = mediaID
	g.bound = true
	g.highWater = 0
}

// Detach unbinds the guard. Subsequent seeks are allowed until the next
// Bind.
func (g *Guard) Detach() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.bound = false
	g.mediaID = ""
	g.highWater = 0
}

// Bound reports whether the guard is attached to a media item, and to
// which one.
func (g *Guard) Bound() (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.mediaID, g.bound
}

// HighWater returns the furthest position legitimately reached.
func (g *Guard) HighWater() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.highWater
}

// OnTimeUpdate advances the high-water mark from ordinary playback
// progress. Updates that arrive while the player reports an in-flight
// seek are ignored, otherwise the seek's own transient positions would
// launder a forward jump into legitimate progress.
func (g *Guard) OnTimeUpdate(position float64, seeking bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.bound || seeking {
		return
	}
	if position > g.highWater {
		g.highWater = position
	}
}

// OnSeekAttempt evaluates a requested target position. A seek at or below
// the high-water mark plus tolerance is allowed; anything beyond it is
// rejected with a clamp back to the high-water mark. The mark itself is
// never moved by a seek attempt.
func (g *Guard) OnSeekAttempt(target float64) SeekDecision {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.bound {
		return SeekDecision{Allowed: true, ClampedTime: target}
	}
	if target <= g.highWater+g.tolerance {
		return SeekDecision{Allowed: true, ClampedTime: target}
	}
	return SeekDecision{Allowed: false, ClampedTime: g.highWater}
}
