// Vigil - Session Integrity Engine for Proctored E-Learning Playback
// Copyright 2026 AURA Education Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aura-edu/vigil

package classifier

import (
	"testing"
	"time"

	"github.com/aura-edu/vigil/internal/config"
	"github.com/aura-edu/vigil/internal/models"
	"github.com/aura-edu/vigil/internal/signal"
)

var testTime = time.Date(2026, 2, 11, 10, 30, 0, 0, time.UTC)

func newTestClassifier(t *testing.T, mutate func(*config.EngineConfig)) *Classifier {
	t.Helper()
	cfg := config.Default().Engine
	if mutate != nil {
		mutate(&cfg)
	}
	return New(cfg, func() time.Time { return testTime })
}

func TestClassifyFocusLoss(t *testing.T) {
	c := newTestClassifier(t, nil)

	tests := []struct {
		name   string
		sig    signal.Signal
		phase  models.SessionPhase
		want   models.ViolationKind
		deduct int
	}{
		{
			name:   "tab hidden",
			sig:    signal.Signal{Kind: signal.KindFocusLost, Reason: signal.ReasonTabSwitch},
			phase:  models.PhaseNormal,
			want:   models.ViolationTabSwitch,
			deduct: 5,
		},
		{
			name:   "window blur",
			sig:    signal.Signal{Kind: signal.KindFocusLost, Reason: signal.ReasonAppSwitch},
			phase:  models.PhaseNormal,
			want:   models.ViolationFocusLost,
			deduct: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := c.Classify(tt.sig, tt.phase)
			if v == nil {
				t.Fatal("expected a violation, got nil")
			}
			if v.Kind != tt.want {
				t.Errorf("kind = %q, want %q", v.Kind, tt.want)
			}
			if v.Deduction != tt.deduct {
				t.Errorf("deduction = %d, want %d", v.Deduction, tt.deduct)
			}
			if !v.Timestamp.Equal(testTime) {
				t.Errorf("timestamp = %v, want capture time", v.Timestamp)
			}
		})
	}
}

func TestFocusLossDebouncedOnPhase(t *testing.T) {
	c := newTestClassifier(t, nil)
	sig := signal.Signal{Kind: signal.KindFocusLost, Reason: signal.ReasonTabSwitch}

	for _, phase := range []models.SessionPhase{models.PhaseRecalibrating, models.PhaseMomentaryBlackout} {
		if v := c.Classify(sig, phase); v != nil {
			t.Errorf("focus loss during %s should be suppressed, got %+v", phase, v)
		}
	}
}

func TestKeyCombosNotDebounced(t *testing.T) {
	c := newTestClassifier(t, nil)

	tests := []struct {
		combo  signal.KeyCombo
		want   models.ViolationKind
		deduct int
	}{
		{signal.ComboPrintScreen, models.ViolationScreenshotAttempt, 20},
		{signal.ComboDevTools, models.ViolationInspectorAttempt, 10},
		{signal.ComboSavePrint, models.ViolationSaveOrPrintAttempt, 10},
	}

	// Phase never suppresses key combos, including mid-recalibration.
	for _, phase := range []models.SessionPhase{models.PhaseNormal, models.PhaseRecalibrating, models.PhaseMomentaryBlackout} {
		for _, tt := range tests {
			v := c.Classify(signal.Signal{Kind: signal.KindKeyCombo, Combo: tt.combo}, phase)
			if v == nil {
				t.Fatalf("combo %s in phase %s: expected violation", tt.combo, phase)
			}
			if v.Kind != tt.want || v.Deduction != tt.deduct {
				t.Errorf("combo %s = (%q, %d), want (%q, %d)", tt.combo, v.Kind, v.Deduction, tt.want, tt.deduct)
			}
		}
	}
}

func TestUnknownComboIgnored(t *testing.T) {
	c := newTestClassifier(t, nil)
	if v := c.Classify(signal.Signal{Kind: signal.KindKeyCombo, Combo: "alt_tab"}, models.PhaseNormal); v != nil {
		t.Errorf("unknown combo should classify as nothing, got %+v", v)
	}
}

func TestResizePolicy(t *testing.T) {
	baseline := newTestClassifier(t, nil)
	resize := signal.Signal{Kind: signal.KindWindowResized}

	if v := baseline.Classify(resize, models.PhaseNormal); v != nil {
		t.Errorf("baseline policy: resize should not score, got %+v", v)
	}

	scoring := newTestClassifier(t, func(cfg *config.EngineConfig) {
		cfg.ResizeScoresViolation = true
	})
	v := scoring.Classify(resize, models.PhaseNormal)
	if v == nil {
		t.Fatal("variant policy: resize should score")
	}
	if v.Kind != models.ViolationScreenshotAttempt {
		t.Errorf("scored resize kind = %q, want screenshot heuristic", v.Kind)
	}
}

func TestBlockedInputSuppressed(t *testing.T) {
	c := newTestClassifier(t, nil)
	for _, input := range []string{"context_menu", "clipboard", "drag_drop", "text_select"} {
		sig := signal.Signal{Kind: signal.KindBlockedInput, Input: input}
		if v := c.Classify(sig, models.PhaseNormal); v != nil {
			t.Errorf("blocked input %s should never score, got %+v", input, v)
		}
	}
}

func TestRejectedSeekPolicy(t *testing.T) {
	scoring := newTestClassifier(t, nil)
	v := scoring.RejectedSeek()
	if v == nil {
		t.Fatal("default policy scores rejected seeks")
	}
	if v.Kind != models.ViolationForwardSeekAttempt || v.Deduction != 5 {
		t.Errorf("rejected seek = (%q, %d), want (forward_seek_attempt, 5)", v.Kind, v.Deduction)
	}

	cosmetic := newTestClassifier(t, func(cfg *config.EngineConfig) {
		cfg.ForwardSeekScoresViolation = false
	})
	if v := cosmetic.RejectedSeek(); v != nil {
		t.Errorf("cosmetic policy should not score rejected seeks, got %+v", v)
	}
}

func TestNeutralSignalsIgnored(t *testing.T) {
	c := newTestClassifier(t, nil)
	for _, kind := range []signal.Kind{signal.KindFocusReturned, signal.KindPlaybackTime, signal.KindSeekAttempt, signal.KindMediaLoaded, "unknown"} {
		if v := c.Classify(signal.Signal{Kind: kind}, models.PhaseNormal); v != nil {
			t.Errorf("signal %s should classify as nothing, got %+v", kind, v)
		}
	}
}
