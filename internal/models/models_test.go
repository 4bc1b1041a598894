// Vigil - Session Integrity Engine for Proctored E-Learning Playback
// Copyright 2026 AURA Education Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aura-edu/vigil

package models

import (
	"testing"
	"time"
)

func TestNewSession(t *testing.T) {
	now := time.Date(2026, 2, 11, 9, 0, 0, 0, time.UTC)
	s := NewSession("sess-1", "learner-1", now)

	if s.TrustScore != MaxTrustScore {
		t.Errorf("new session score = %d, want %d", s.TrustScore, MaxTrustScore)
	}
	if len(s.ViolationLog) != 0 {
		t.Errorf("new session log has %d entries, want 0", len(s.ViolationLog))
	}
	if s.ViolationLog == nil {
		t.Error("violation log should be non-nil so it serializes as []")
	}
	if !s.CreatedAt.Equal(now) || !s.UpdatedAt.Equal(now) {
		t.Error("timestamps not initialized from now")
	}
}

func TestStatusForScore(t *testing.T) {
	tests := []struct {
		score int
		want  IntegrityStatus
	}{
		{100, StatusGood},
		{80, StatusGood},
		{79, StatusMonitor},
		{50, StatusMonitor},
		{49, StatusCritical},
		{0, StatusCritical},
	}

	for _, tt := range tests {
		if got := StatusForScore(tt.score); got != tt.want {
			t.Errorf("StatusForScore(%d) = %q, want %q", tt.score, got, tt.want)
		}
	}
}
