// Vigil - Session Integrity Engine for Proctored E-Learning Playback
// Copyright 2026 AURA Education Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aura-edu/vigil

package classifier

import (
	"time"

	"github.com/aura-edu/vigil/internal/config"
	"github.com/aura-edu/vigil/internal/models"
	"github.com/aura-edu/vigil/internal/signal"
)

// Human-readable violation details, kept aligned with the messages the
// player shows the learner.
const (
	detailScreenshot  = "Screenshot Attempt"
	detailInspector   = "Inspector Attempt"
	detailSavePrint   = "Save/Print Attempt"
	detailForwardSeek = "Forwarding Prohibited by Proctor"
	detailResize      = "Viewport Resize (capture heuristic)"
)

// Classifier maps raw signals to violations according to the configured
// penalty table and policy flags. It is stateless apart from configuration;
// phase-based debouncing uses the phase passed by the caller, so the
// classifier itself never races the state machine.
type Classifier struct {
	penalties     config.PenaltyConfig
	resizeScores  bool
	forwardScores bool
	now           func() time.Time
}

// New creates a classifier from the engine policy. The now func supplies
// violation timestamps; pass time.Now outside tests.
func New(cfg config.EngineConfig, now func() time.Time) *Classifier {
	if now == nil {
		now = time.Now
	}
	return &Classifier{
		penalties:     cfg.Penalties,
		resizeScores:  cfg.ResizeScoresViolation,
		forwardScores: cfg.ForwardSeekScoresViolation,
		now:           now,
	}
}

// Classify returns the violation for a raw signal, or nil when the signal
// carries no penalty in the current phase.
//
// Focus-loss classifications are debounced on phase, not wall clock: a
// second FocusLost while the session is already recalibrating or blacked
// out is the same sustained anomaly and produces nothing. Key combos are
// never debounced; every press is an independent violation.
func (c *Classifier) Classify(sig signal.Signal, phase models.SessionPhase) *models.Violation {
	switch sig.Kind {
	case signal.KindFocusLost:
		if phase == models.PhaseRecalibrating || phase == models.PhaseMomentaryBlackout {
			return nil
		}
		if sig.IsTabHidden() {
			return c.violation(models.ViolationTabSwitch, sig.Reason, c.penalties.TabSwitch)
		}
		return c.violation(models.ViolationFocusLost, sig.Reason, c.penalties.FocusLost)

	case signal.KindKeyCombo:
		return c.classifyCombo(sig.Combo)

	case signal.KindWindowResized:
		// Baseline policy: resize only triggers a cosmetic blackout. The
		// variant policy treats it as a capture heuristic and scores it
		// like a screenshot.
		if !c.resizeScores {
			return nil
		}
		return c.violation(models.ViolationScreenshotAttempt, detailResize, c.penalties.Screenshot)

	case signal.KindBlockedInput:
		// Blocked at the source, suppressed here: no violation, no penalty.
		return nil

	default:
		return nil
	}
}

// RejectedSeek classifies a forward seek the playback guard refused.
// Returns nil when the policy treats rejection as purely cosmetic.
func (c *Classifier) RejectedSeek() *models.Violation {
	if !c.forwardScores {
		return nil
	}
	return c.violation(models.ViolationForwardSeekAttempt, detailForwardSeek, c.penalties.ForwardSeek)
}

func (c *Classifier) classifyCombo(combo signal.KeyCombo) *models.Violation {
	switch combo {
	case signal.ComboPrintScreen:
		return c.violation(models.ViolationScreenshotAttempt, detailScreenshot, c.penalties.Screenshot)
	case signal.ComboDevTools:
		return c.violation(models.ViolationInspectorAttempt, detailInspector, c.penalties.Inspector)
	case signal.ComboSavePrint:
		return c.violation(models.ViolationSaveOrPrintAttempt, detailSavePrint, c.penalties.SavePrint)
	default:
		return nil
	}
}

func (c *Classifier) violation(kind models.ViolationKind, detail string, deduction int) *models.Violation {
	return &models.Violation{
		Kind:      kind,
		Detail:    detail,
		Timestamp: c.now(),
		Deduction: deduction,
	}
}
