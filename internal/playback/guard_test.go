// Vigil - Session Integrity Engine for Proctored E-Learning Playback
// Copyright 2026 AURA Education Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aura-edu/vigil

package playback

import "testing"

func newBoundGuard(t *testing.T) *Guard {
	t.Helper()
	g := NewGuard(0.5)
	g.Bind("lecture-101")
	return g
}

func TestUnboundGuardAllowsEverything(t *testing.T) {
	g := NewGuard(0.5)

	g.OnTimeUpdate(120, false)
	if g.HighWater() != 0 {
		t.Errorf("unbound guard advanced high-water to %v", g.HighWater())
	}

	d := g.OnSeekAttempt(500)
	if !d.Allowed || d.ClampedTime != 500 {
		t.Errorf("unbound seek decision = %+v, want allowed at target", d)
	}
}

func TestHighWaterAdvancesMonotonically(t *testing.T) {
	g := newBoundGuard(t)

	g.OnTimeUpdate(10, false)
	g.OnTimeUpdate(25, false)
	g.OnTimeUpdate(18, false) // rewind playback never lowers the mark
	if g.HighWater() != 25 {
		t.Errorf("high-water = %v, want 25", g.HighWater())
	}
}

func TestSeekingTimeUpdatesIgnored(t *testing.T) {
	g := newBoundGuard(t)
	g.OnTimeUpdate(10, false)

	// Transient positions during an in-flight seek must not count as
	// watched progress.
	g.OnTimeUpdate(300, true)
	if g.HighWater() != 10 {
		t.Errorf("high-water = %v, want 10", g.HighWater())
	}
}

func TestSeekDecisions(t *testing.T) {
	tests := []struct {
		name        string
		target      float64
		wantAllowed bool
		wantClamped float64
	}{
		{"backward seek", 5, true, 5},
		{"seek to mark", 30, true, 30},
		{"within tolerance", 30.4, true, 30.4},
		{"at tolerance edge", 30.5, true, 30.5},
		{"just past tolerance", 30.6, false, 30},
		{"far forward jump", 900, false, 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newBoundGuard(t)
			g.OnTimeUpdate(30, false)

			d := g.OnSeekAttempt(tt.target)
			if d.Allowed != tt.wantAllowed {
				t.Errorf("Allowed = %v, want %v", d.Allowed, tt.wantAllowed)
			}
			if d.ClampedTime != tt.wantClamped {
				t.Errorf("ClampedTime = %v, want %v", d.ClampedTime, tt.wantClamped)
			}
		})
	}
}

func TestRejectedSeekDoesNotMoveMark(t *testing.T) {
	g := newBoundGuard(t)
	g.OnTimeUpdate(30, false)

	g.OnSeekAttempt(600)
	g.OnSeekAttempt(600)
	if g.HighWater() != 30 {
		t.Errorf("high-water = %v after rejected seeks, want 30", g.HighWater())
	}
}

func TestRebindResetsMark(t *testing.T) {
	g := newBoundGuard(t)
	g.OnTimeUpdate(45, false)

	// Same media rebinding keeps progress.
	g.Bind("lecture-101")
	if g.HighWater() != 45 {
		t.Errorf("rebind to same media reset mark to %v", g.HighWater())
	}

	// A new media item starts from zero.
	g.Bind("lecture-102")
	if g.HighWater() != 0 {
		t.Errorf("bind to new media kept mark %v", g.HighWater())
	}
	if d := g.OnSeekAttempt(40); d.Allowed {
		t.Error("forward seek allowed on freshly bound media")
	}
}

func TestDetach(t *testing.T) {
	g := newBoundGuard(t)
	g.OnTimeUpdate(45, false)
	g.Detach()

	if _, bound := g.Bound(); bound {
		t.Fatal("guard still bound after Detach")
	}
	if d := g.OnSeekAttempt(700); !d.Allowed {
		t.Error("detached guard rejected a seek")
	}
}
