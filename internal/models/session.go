// Vigil - Session Integrity Engine for Proctored E-Learning Playback
// Copyright 2026 AURA Education Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aura-edu/vigil

package models

import (
	"time"
)

// Trust score bounds and thresholds. DefaultLockoutThreshold is the score
// below which a session is locked out; the comparison is strictly less-than,
// so a score of exactly 50 is still serviceable.
const (
	MaxTrustScore           = 100
	MinTrustScore           = 0
	DefaultLockoutThreshold = 50
	MonitorThreshold        = 80
)

// ViolationKind identifies the class of anomalous behavior a signal was
// classified as.
type ViolationKind string

const (
	// ViolationTabSwitch is raised when the player tab becomes hidden.
	ViolationTabSwitch ViolationKind = "tab_switch"

	// ViolationFocusLost is raised when the window loses focus while visible.
	ViolationFocusLost ViolationKind = "focus_lost"

	// ViolationScreenshotAttempt is raised for a screenshot key combination.
	ViolationScreenshotAttempt ViolationKind = "screenshot_attempt"

	// ViolationInspectorAttempt is raised for a developer-tools key combination.
	ViolationInspectorAttempt ViolationKind = "inspector_attempt"

	// ViolationSaveOrPrintAttempt is raised for a save or print key combination.
	ViolationSaveOrPrintAttempt ViolationKind = "save_print_attempt"

	// ViolationForwardSeekAttempt is raised when the playback guard rejects
	// a forward seek past the watched high-water mark.
	ViolationForwardSeekAttempt ViolationKind = "forward_seek_attempt"
)

// Violation is an immutable record of one classified anomaly. The deduction
// is fixed at creation time from the classifier's penalty table and is never
// recomputed, so later policy changes do not rewrite history.
type Violation struct {
	Kind      ViolationKind `json:"kind"`
	Detail    string        `json:"detail,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
	Deduction int           `json:"deduction"`
}

// SessionPhase is the observable enforcement state of a session.
type SessionPhase string

const (
	// PhaseNormal is the initial phase: media plays, no overlays shown.
	PhaseNormal SessionPhase = "normal"

	// PhaseMomentaryBlackout hides content briefly and auto-reverts.
	PhaseMomentaryBlackout SessionPhase = "momentary_blackout"

	// PhaseRecalibrating is the persistent blackout after a focus-loss
	// violation, including the mandatory countdown after focus returns.
	PhaseRecalibrating SessionPhase = "recalibrating"

	// PhaseLockedOut is the absorbing phase entered below the lockout
	// threshold. Only an administrative reset leaves it.
	PhaseLockedOut SessionPhase = "locked_out"
)

// IntegrityStatus buckets a trust score into the bands shown on the
// monitoring dashboard.
type IntegrityStatus string

const (
	StatusGood     IntegrityStatus = "good"
	StatusMonitor  IntegrityStatus = "monitor"
	StatusCritical IntegrityStatus = "critical"
)

// Session is the authoritative integrity record for one learner session.
// The trust score ledger is the only writer of TrustScore and ViolationLog;
// everything else reads through it.
type Session struct {
	ID           string      `json:"id"`
	LearnerID    string      `json:"learner_id,omitempty"`
	TrustScore   int         `json:"trust_score"`
	ViolationLog []Violation `json:"violation_log"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// NewSession returns a fresh session with a full trust score and empty log.
func NewSession(id, learnerID string, now time.Time) *Session {
	return &Session{
		ID:           id,
		LearnerID:    learnerID,
		TrustScore:   MaxTrustScore,
		ViolationLog: []Violation{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Status returns the dashboard band for the session's current score.
func (s *Session) Status() IntegrityStatus {
	return StatusForScore(s.TrustScore)
}

// StatusForScore buckets a score: critical below the lockout threshold,
// monitor below 80, good otherwise.
func StatusForScore(score int) IntegrityStatus {
	switch {
	case score < DefaultLockoutThreshold:
		return StatusCritical
	case score < MonitorThreshold:
		return StatusMonitor
	default:
		return StatusGood
	}
}

// SessionSummary is the per-session row returned by the monitoring API and
// broadcast in stats updates.
type SessionSummary struct {
	ID              string          `json:"id"`
	LearnerID       string          `json:"learner_id,omitempty"`
	TrustScore      int             `json:"trust_score"`
	Phase           SessionPhase    `json:"phase"`
	Status          IntegrityStatus `json:"status"`
	ViolationCount  int             `json:"violation_count"`
	LastViolationAt *time.Time      `json:"last_violation_at,omitempty"`
}

// MonitorStats is the aggregate view broadcast to monitoring dashboards on
// the telemetry interval.
type MonitorStats struct {
	ActiveSessions  int              `json:"active_sessions"`
	TotalViolations int              `json:"total_violations"`
	LockedOut       int              `json:"locked_out"`
	Sessions        []SessionSummary `json:"sessions"`
	GeneratedAt     time.Time        `json:"generated_at"`
}
