// Vigil - Session Integrity Engine for Proctored E-Learning Playback
// Copyright 2026 AURA Education Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aura-edu/vigil

package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aura-edu/vigil/internal/classifier"
	"github.com/aura-edu/vigil/internal/config"
	"github.com/aura-edu/vigil/internal/ledger"
	"github.com/aura-edu/vigil/internal/logging"
	"github.com/aura-edu/vigil/internal/metrics"
	"github.com/aura-edu/vigil/internal/models"
	"github.com/aura-edu/vigil/internal/playback"
	"github.com/aura-edu/vigil/internal/signal"
)

// toastForwardingProhibited is shown when the guard clamps a forward seek.
const toastForwardingProhibited = "Forwarding Prohibited by Proctor"

type timerKind int

const (
	timerNone timerKind = iota
	timerBlackout
	timerCountdown
)

// Engine runs the session state machine for one learner session. All state
// mutation happens on a single dispatch goroutine: classification, log
// append, score update and phase transition for one signal complete before
// the next queued signal is taken, so nothing interleaves mid-update.
//
// Administrative resets arrive on a dedicated channel serviced with
// priority over pending signals, so an external unlock always wins over
// in-flight learner activity.
type Engine struct {
	sessionID string
	cfg       config.EngineConfig

	cls      *classifier.Classifier
	ledger   *ledger.Ledger
	guard    *playback.Guard
	sink     CommandSink
	notifier ViolationNotifier
	clock    Clock

	signals chan signal.Signal
	resets  chan chan struct{}

	// phase is written only by the dispatch goroutine; the mutex makes it
	// readable from API and telemetry goroutines.
	mu    sync.RWMutex
	phase models.SessionPhase

	// Dispatch-goroutine state, never touched elsewhere.
	timer              Timer
	timerKind          timerKind
	countdownRemaining int
}

// New creates an engine owning the given session record. The lockout check
// runs at construction: a session loaded with a score already below the
// threshold starts locked out. persist may be nil; sink must not be.
func New(sess *models.Session, cfg config.EngineConfig, sink CommandSink, notifier ViolationNotifier, persist ledger.PersistFunc, clock Clock) *Engine {
	if clock == nil {
		clock = RealClock()
	}
	e := &Engine{
		sessionID: sess.ID,
		cfg:       cfg,
		guard:     playback.NewGuard(cfg.SeekTolerance),
		sink:      sink,
		notifier:  notifier,
		clock:     clock,
		signals:   make(chan signal.Signal, cfg.QueueSize),
		resets:    make(chan chan struct{}),
		phase:     models.PhaseNormal,
	}
	e.cls = classifier.New(cfg, clock.Now)
	e.ledger = ledger.New(sess, e.onScoreChanged, persist, clock.Now)

	if sess.TrustScore < cfg.LockoutThreshold {
		e.phase = models.PhaseLockedOut
	}
	return e
}

// SessionID returns the id of the session this engine owns.
func (e *Engine) SessionID() string { return e.sessionID }

// Phase returns the current session phase.
func (e *Engine) Phase() models.SessionPhase {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.phase
}

// Score returns the current trust score.
func (e *Engine) Score() int { return e.ledger.Score() }

// RecentViolations returns up to n violations, most recent first.
func (e *Engine) RecentViolations(n int) []models.Violation {
	return e.ledger.RecentViolations(n)
}

// Snapshot returns a consistent copy of the session record.
func (e *Engine) Snapshot() models.Session { return e.ledger.Snapshot() }

// Summary builds the monitoring row for this session.
func (e *Engine) Summary() models.SessionSummary {
	snap := e.ledger.Snapshot()
	sum := models.SessionSummary{
		ID:             snap.ID,
		LearnerID:      snap.LearnerID,
		TrustScore:     snap.TrustScore,
		Phase:          e.Phase(),
		Status:         snap.Status(),
		ViolationCount: len(snap.ViolationLog),
	}
	if n := len(snap.ViolationLog); n > 0 {
		ts := snap.ViolationLog[n-1].Timestamp
		sum.LastViolationAt = &ts
	}
	return sum
}

// Dispatch enqueues a signal for processing. It never blocks: when the
// queue is full the signal is dropped and counted, because a stalled
// learner connection must not back-pressure enforcement.
func (e *Engine) Dispatch(sig signal.Signal) bool {
	select {
	case e.signals <- sig:
		return true
	default:
		metrics.RecordDroppedSignal("queue_full")
		logging.Warn().
			Str("session_id", e.sessionID).
			Str("kind", string(sig.Kind)).
			Msg("signal queue full, dropping signal")
		return false
	}
}

// Reset performs the administrative unlock: score back to 100, violation
// log cleared, phase forced to normal. It is serviced with priority over
// queued signals and returns once the transition is observable.
func (e *Engine) Reset(ctx context.Context) error {
	ack := make(chan struct{})
	select {
	case e.resets <- ack:
	case <-ctx.Done():
		return fmt.Errorf("reset session %s: %w", e.sessionID, ctx.Err())
	}
	select {
	case <-ack:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("reset session %s: %w", e.sessionID, ctx.Err())
	}
}

// Run is the dispatch loop. It returns when ctx is canceled.
func (e *Engine) Run(ctx context.Context) {
	logging.Info().
		Str("session_id", e.sessionID).
		Str("phase", string(e.Phase())).
		Int("trust_score", e.ledger.Score()).
		Msg("session engine started")

	if e.Phase() == models.PhaseLockedOut {
		// A session restored below the threshold announces its lockout
		// immediately so a reconnecting client cannot slip a frame in.
		e.sink.Send(e.sessionID, pauseCommand())
		e.sink.Send(e.sessionID, showLockoutCommand())
	}

	for {
		// Priority 1: shutdown.
		select {
		case <-ctx.Done():
			e.stopTimer()
			return
		default:
		}

		// Priority 2: administrative reset wins over pending signals.
		select {
		case ack := <-e.resets:
			e.handleReset(ack)
			continue
		default:
		}

		var timerC <-chan time.Time
		if e.timer != nil {
			timerC = e.timer.C()
		}

		select {
		case <-ctx.Done():
			e.stopTimer()
			return
		case ack := <-e.resets:
			e.handleReset(ack)
		case sig := <-e.signals:
			metrics.RecordSignal(string(sig.Kind))
			e.handleSignal(sig)
		case <-timerC:
			e.timer = nil
			e.handleTimerFired()
		}
	}
}

// handleSignal gives every signal a defined effect in every phase, even
// when that effect is "ignore".
func (e *Engine) handleSignal(sig signal.Signal) {
	if e.Phase() == models.PhaseLockedOut {
		// Lockout is absorbing: nothing is classified or scored until an
		// administrative reset.
		metrics.RecordDroppedSignal("locked_out")
		return
	}

	switch sig.Kind {
	case signal.KindFocusLost:
		if v := e.cls.Classify(sig, e.Phase()); v != nil {
			e.ledger.ApplyPenalty(*v)
		}
		// The penalty may have crossed the threshold; only a still-normal
		// session begins recalibrating.
		if e.Phase() == models.PhaseNormal {
			e.enterRecalibrating()
		}

	case signal.KindFocusReturned:
		if e.Phase() == models.PhaseRecalibrating && e.timerKind != timerCountdown {
			e.startCountdown()
		}

	case signal.KindWindowResized:
		if v := e.cls.Classify(sig, e.Phase()); v != nil {
			e.ledger.ApplyPenalty(*v)
		}
		if e.Phase() == models.PhaseNormal {
			e.enterMomentaryBlackout()
		}

	case signal.KindKeyCombo:
		v := e.cls.Classify(sig, e.Phase())
		if v == nil {
			logging.Debug().
				Str("session_id", e.sessionID).
				Str("combo", string(sig.Combo)).
				Msg("unrecognized key combo ignored")
			return
		}
		e.ledger.ApplyPenalty(*v)
		if v.Kind == models.ViolationScreenshotAttempt && e.Phase() == models.PhaseNormal {
			e.enterMomentaryBlackout()
		}

	case signal.KindPlaybackTime:
		e.guard.OnTimeUpdate(sig.Position, sig.Seeking)

	case signal.KindSeekAttempt:
		e.handleSeekAttempt(sig.Position)

	case signal.KindMediaLoaded:
		e.guard.Bind(sig.MediaID)
		logging.Debug().
			Str("session_id", e.sessionID).
			Str("media_id", sig.MediaID).
			Msg("playback guard bound")

	case signal.KindBlockedInput:
		// Suppressed at the source, never scored.

	default:
		logging.Debug().
			Str("session_id", e.sessionID).
			Str("kind", string(sig.Kind)).
			Msg("unknown signal kind ignored")
	}
}

func (e *Engine) handleSeekAttempt(target float64) {
	decision := e.guard.OnSeekAttempt(target)
	if decision.Allowed {
		return
	}
	metrics.SeeksRejected.Inc()
	e.sink.Send(e.sessionID, setCurrentTimeCommand(decision.ClampedTime))
	e.sink.Send(e.sessionID, showToastCommand(toastForwardingProhibited))

	if v := e.cls.RejectedSeek(); v != nil {
		e.ledger.ApplyPenalty(*v)
	}
}

// onScoreChanged is the ledger's synchronous mutation hook. It runs on the
// dispatch goroutine (the ledger is only mutated there), so transitioning
// phases from here is safe and the lockout check happens before the next
// signal can be taken.
func (e *Engine) onScoreChanged(newScore int, v *models.Violation) {
	e.sink.Send(e.sessionID, scoreUpdateCommand(newScore, models.StatusForScore(newScore)))
	if v == nil {
		return
	}

	metrics.RecordViolation(string(v.Kind))
	e.sink.Send(e.sessionID, violationToast(*v))
	if e.notifier != nil {
		e.notifier.NotifyViolation(e.sessionID, *v, newScore)
	}
	logging.Info().
		Str("session_id", e.sessionID).
		Str("kind", string(v.Kind)).
		Int("deduction", v.Deduction).
		Int("trust_score", newScore).
		Msg("violation applied")

	if newScore < e.cfg.LockoutThreshold {
		e.enterLockout()
	}
}

func (e *Engine) enterRecalibrating() {
	e.setPhase(models.PhaseRecalibrating)
	e.sink.Send(e.sessionID, pauseCommand())
	e.sink.Send(e.sessionID, showBlackoutCommand(true))
}

func (e *Engine) enterMomentaryBlackout() {
	e.setPhase(models.PhaseMomentaryBlackout)
	e.sink.Send(e.sessionID, setOpacityCommand(0))
	e.stopTimer()
	e.timer = e.clock.NewTimer(e.cfg.BlackoutDuration)
	e.timerKind = timerBlackout
}

// startCountdown begins the mandatory recalibration countdown. The
// timerKind check in the caller is the lock flag: a countdown already in
// progress is never restarted.
func (e *Engine) startCountdown() {
	e.countdownRemaining = e.cfg.RecalibrationSeconds
	e.sink.Send(e.sessionID, showCountdownCommand(e.countdownRemaining))
	e.timer = e.clock.NewTimer(time.Second)
	e.timerKind = timerCountdown
}

func (e *Engine) handleTimerFired() {
	switch e.timerKind {
	case timerBlackout:
		e.timerKind = timerNone
		e.setPhase(models.PhaseNormal)
		e.sink.Send(e.sessionID, setOpacityCommand(1))

	case timerCountdown:
		e.countdownRemaining--
		if e.countdownRemaining > 0 {
			e.sink.Send(e.sessionID, showCountdownCommand(e.countdownRemaining))
			e.timer = e.clock.NewTimer(time.Second)
			return
		}
		e.timerKind = timerNone
		e.setPhase(models.PhaseNormal)
		e.sink.Send(e.sessionID, hideBlackoutCommand())
		e.sink.Send(e.sessionID, playCommand())
	}
}

func (e *Engine) enterLockout() {
	e.stopTimer()
	e.setPhase(models.PhaseLockedOut)
	e.guard.Detach()
	e.sink.Send(e.sessionID, pauseCommand())
	e.sink.Send(e.sessionID, showLockoutCommand())
	metrics.LockoutsTotal.Inc()
	logging.Warn().
		Str("session_id", e.sessionID).
		Int("trust_score", e.ledger.Score()).
		Msg("session locked out")
}

func (e *Engine) handleReset(ack chan struct{}) {
	e.stopTimer()
	e.ledger.Reset()
	e.setPhase(models.PhaseNormal)
	e.sink.Send(e.sessionID, hideBlackoutCommand())
	e.sink.Send(e.sessionID, setOpacityCommand(1))
	metrics.AdminResetsTotal.Inc()
	logging.Info().
		Str("session_id", e.sessionID).
		Msg("session reset by administrator")
	close(ack)
}

func (e *Engine) stopTimer() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.timerKind = timerNone
	e.countdownRemaining = 0
}

func (e *Engine) setPhase(p models.SessionPhase) {
	e.mu.Lock()
	e.phase = p
	e.mu.Unlock()
}
