// Vigil - Session Integrity Engine for Proctored E-Learning Playback
// Copyright 2026 AURA Education Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aura-edu/vigil

package ledger

import (
	"sync"
	"time"

	"github.com/aura-edu/vigil/internal/models"
)

// ChangeFunc is invoked synchronously after every mutation, before
// ApplyPenalty or Reset returns. The state machine uses it for its
// immediate lockout-threshold check; the violation pointer is nil for
// resets.
type ChangeFunc func(newScore int, v *models.Violation)

// PersistFunc writes a session snapshot to durable storage. Persistence is
// optimistic: failures are the collaborator's to log and never roll back
// the in-memory score, because enforcement must not depend on storage
// availability.
type PersistFunc func(snapshot models.Session)

// Ledger is the authoritative trust score and violation history for one
// session. It is the only writer of Session.TrustScore and
// Session.ViolationLog; all mutations and reads are serialized through its
// mutex so no reader ever sees the log and score out of sync.
type Ledger struct {
	mu       sync.Mutex
	session  *models.Session
	onChange ChangeFunc
	persist  PersistFunc
	now      func() time.Time
}

// New creates a ledger owning the given session record. onChange and
// persist may be nil. The now func stamps UpdatedAt; pass time.Now outside
// tests.
func New(session *models.Session, onChange ChangeFunc, persist PersistFunc, now func() time.Time) *Ledger {
	if now == nil {
		now = time.Now
	}
	if session.ViolationLog == nil {
		session.ViolationLog = []models.Violation{}
	}
	return &Ledger{
		session:  session,
		onChange: onChange,
		persist:  persist,
		now:      now,
	}
}

// ApplyPenalty appends the violation and decrements the trust score,
// clamping at zero, then notifies the change observer synchronously and
// hands a consistent snapshot to the persister. Returns the new score.
func (l *Ledger) ApplyPenalty(v models.Violation) int {
	l.mu.Lock()
	l.session.ViolationLog = append(l.session.ViolationLog, v)
	newScore := l.session.TrustScore - v.Deduction
	if newScore < models.MinTrustScore {
		newScore = models.MinTrustScore
	}
	l.session.TrustScore = newScore
	l.session.UpdatedAt = l.now()
	snapshot := l.snapshotLocked()
	l.mu.Unlock()

	if l.persist != nil {
		l.persist(snapshot)
	}
	if l.onChange != nil {
		l.onChange(newScore, &v)
	}
	return newScore
}

// Reset restores the score to 100 and clears the violation log in one
// atomic step. Only the administrative unlock path calls this.
func (l *Ledger) Reset() {
	l.mu.Lock()
	l.session.TrustScore = models.MaxTrustScore
	l.session.ViolationLog = []models.Violation{}
	l.session.UpdatedAt = l.now()
	snapshot := l.snapshotLocked()
	l.mu.Unlock()

	if l.persist != nil {
		l.persist(snapshot)
	}
	if l.onChange != nil {
		l.onChange(models.MaxTrustScore, nil)
	}
}

// Score returns the current trust score.
func (l *Ledger) Score() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.session.TrustScore
}

// ViolationCount returns the number of logged violations.
func (l *Ledger) ViolationCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.session.ViolationLog)
}

// RecentViolations returns up to n violations, most recent first. It never
// mutates state.
func (l *Ledger) RecentViolations(n int) []models.Violation {
	l.mu.Lock()
	defer l.mu.Unlock()

	log := l.session.ViolationLog
	if n > len(log) {
		n = len(log)
	}
	out := make([]models.Violation, 0, n)
	for i := len(log) - 1; i >= len(log)-n; i-- {
		out = append(out, log[i])
	}
	return out
}

// Snapshot returns a consistent copy of the session record.
func (l *Ledger) Snapshot() models.Session {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

// snapshotLocked copies the session; the caller must hold mu.
func (l *Ledger) snapshotLocked() models.Session {
	cp := *l.session
	cp.ViolationLog = make([]models.Violation, len(l.session.ViolationLog))
	copy(cp.ViolationLog, l.session.ViolationLog)
	return cp
}
