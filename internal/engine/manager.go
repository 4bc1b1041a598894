// Vigil - Session Integrity Engine for Proctored E-Learning Playback
// Copyright 2026 AURA Education Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aura-edu/vigil

package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aura-edu/vigil/internal/config"
	"github.com/aura-edu/vigil/internal/logging"
	"github.com/aura-edu/vigil/internal/metrics"
	"github.com/aura-edu/vigil/internal/models"
	"github.com/aura-edu/vigil/internal/store"
)

// ErrManagerStopped is returned when a session is attached while the
// manager is not serving.
var ErrManagerStopped = errors.New("engine manager not running")

const persistTimeout = 5 * time.Second

// SessionStore is the persistence surface the manager needs. Satisfied by
// store.SessionStore.
type SessionStore interface {
	Load(ctx context.Context, id string) (*models.Session, error)
	Save(ctx context.Context, sess *models.Session) error
	List(ctx context.Context) ([]*models.Session, error)
}

// Manager owns the live session engines: one engine and one dispatch
// goroutine per attached session. It loads persisted sessions on first
// contact, mints new ones for unknown learners, and fans administrative
// operations out to the right engine.
//
// Manager implements suture.Service; engines live and die with its Serve
// context.
type Manager struct {
	cfg      config.EngineConfig
	store    SessionStore
	sink     CommandSink
	notifier ViolationNotifier
	clock    Clock

	mu      sync.RWMutex
	ctx     context.Context
	engines map[string]*managedEngine
	wg      sync.WaitGroup
}

type managedEngine struct {
	engine *Engine
	cancel context.CancelFunc
}

// NewManager creates a manager. clock may be nil for wall-clock time.
func NewManager(cfg config.EngineConfig, st SessionStore, sink CommandSink, notifier ViolationNotifier, clock Clock) *Manager {
	if clock == nil {
		clock = RealClock()
	}
	return &Manager{
		cfg:      cfg,
		store:    st,
		sink:     sink,
		notifier: notifier,
		clock:    clock,
		engines:  make(map[string]*managedEngine),
	}
}

// Serve runs until ctx is canceled, then stops every engine and waits for
// their goroutines to drain.
func (m *Manager) Serve(ctx context.Context) error {
	m.mu.Lock()
	m.ctx = ctx
	m.mu.Unlock()

	logging.Info().Msg("engine manager started")
	<-ctx.Done()

	m.mu.Lock()
	for id, me := range m.engines {
		me.cancel()
		delete(m.engines, id)
	}
	m.ctx = nil
	m.mu.Unlock()
	m.wg.Wait()

	logging.Info().Msg("engine manager stopped")
	return ctx.Err()
}

// Attach returns the live engine for a session, creating one on first
// contact. A known id is loaded from the store; an unknown or empty id
// mints a fresh session. Minting happens only on the learner path, never
// on admin queries.
func (m *Manager) Attach(ctx context.Context, sessionID, learnerID string) (*Engine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ctx == nil {
		return nil, ErrManagerStopped
	}
	if me, ok := m.engines[sessionID]; ok {
		return me.engine, nil
	}

	sess, err := m.loadOrMint(ctx, sessionID, learnerID)
	if err != nil {
		return nil, err
	}

	eng := New(sess, m.cfg, m.sink, m.notifier, m.persistFunc(), m.clock)
	engCtx, cancel := context.WithCancel(m.ctx)
	m.engines[sess.ID] = &managedEngine{engine: eng, cancel: cancel}
	metrics.ActiveSessions.Inc()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer metrics.ActiveSessions.Dec()
		eng.Run(engCtx)
	}()

	return eng, nil
}

func (m *Manager) loadOrMint(ctx context.Context, sessionID, learnerID string) (*models.Session, error) {
	if sessionID != "" {
		sess, err := m.store.Load(ctx, sessionID)
		if err == nil {
			return sess, nil
		}
		if !errors.Is(err, store.ErrSessionNotFound) {
			return nil, fmt.Errorf("load session %s: %w", sessionID, err)
		}
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	sess := models.NewSession(sessionID, learnerID, m.clock.Now())
	if err := m.store.Save(ctx, sess); err != nil {
		// Persistence is optimistic; the session still runs in memory.
		logging.Error().Err(err).
			Str("session_id", sess.ID).
			Msg("failed to persist new session")
	}
	logging.Info().
		Str("session_id", sess.ID).
		Str("learner_id", learnerID).
		Msg("session created")
	return sess, nil
}

// persistFunc builds the ledger persist hook: best-effort writes that are
// logged on failure and never roll back in-memory state.
func (m *Manager) persistFunc() func(models.Session) {
	return func(snapshot models.Session) {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := m.store.Save(ctx, &snapshot); err != nil {
			logging.Error().Err(err).
				Str("session_id", snapshot.ID).
				Msg("failed to persist session")
		}
	}
}

// Get returns the live engine for a session id, if one is attached.
func (m *Manager) Get(sessionID string) (*Engine, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	me, ok := m.engines[sessionID]
	if !ok {
		return nil, false
	}
	return me.engine, true
}

// ResetSession performs the administrative unlock. A live session resets
// through its engine so the transition wins over in-flight signals; an
// offline session is rewritten in the store directly.
func (m *Manager) ResetSession(ctx context.Context, sessionID string) error {
	if eng, ok := m.Get(sessionID); ok {
		return eng.Reset(ctx)
	}

	sess, err := m.store.Load(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("reset session %s: %w", sessionID, err)
	}
	sess.TrustScore = models.MaxTrustScore
	sess.ViolationLog = []models.Violation{}
	sess.UpdatedAt = m.clock.Now()
	if err := m.store.Save(ctx, sess); err != nil {
		return fmt.Errorf("reset session %s: %w", sessionID, err)
	}
	metrics.AdminResetsTotal.Inc()
	logging.Info().Str("session_id", sessionID).Msg("offline session reset by administrator")
	return nil
}

// Summaries returns the monitoring rows for all live sessions, ordered by
// ascending trust score so the most at-risk learners list first.
func (m *Manager) Summaries() []models.SessionSummary {
	m.mu.RLock()
	engines := make([]*Engine, 0, len(m.engines))
	for _, me := range m.engines {
		engines = append(engines, me.engine)
	}
	m.mu.RUnlock()

	out := make([]models.SessionSummary, 0, len(engines))
	for _, eng := range engines {
		out = append(out, eng.Summary())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TrustScore != out[j].TrustScore {
			return out[i].TrustScore < out[j].TrustScore
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Stats builds the aggregate dashboard view broadcast on the telemetry
// interval.
func (m *Manager) Stats() models.MonitorStats {
	summaries := m.Summaries()
	stats := models.MonitorStats{
		ActiveSessions: len(summaries),
		Sessions:       summaries,
		GeneratedAt:    m.clock.Now(),
	}
	for _, s := range summaries {
		stats.TotalViolations += s.ViolationCount
		if s.Phase == models.PhaseLockedOut {
			stats.LockedOut++
		}
	}
	return stats
}
