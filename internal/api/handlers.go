// Vigil - Session Integrity Engine for Proctored E-Learning Playback
// Copyright 2026 AURA Education Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aura-edu/vigil

package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	gorillaws "github.com/gorilla/websocket"

	"github.com/aura-edu/vigil/internal/config"
	"github.com/aura-edu/vigil/internal/engine"
	"github.com/aura-edu/vigil/internal/logging"
	"github.com/aura-edu/vigil/internal/models"
	"github.com/aura-edu/vigil/internal/store"
	ws "github.com/aura-edu/vigil/internal/websocket"
)

// defaultViolationLimit is the violation feed size when ?limit is omitted.
const defaultViolationLimit = 5

var validate = validator.New(validator.WithRequiredStructEnabled())

// Handler holds the collaborators the HTTP surface talks to.
type Handler struct {
	cfg     *config.Config
	manager *engine.Manager
	store   engine.SessionStore
	hub     *ws.Hub
	started time.Time
}

// NewHandler creates the API handler.
func NewHandler(cfg *config.Config, manager *engine.Manager, st engine.SessionStore, hub *ws.Hub) *Handler {
	return &Handler{
		cfg:     cfg,
		manager: manager,
		store:   st,
		hub:     hub,
		started: time.Now(),
	}
}

// SessionDetail is the per-session response for the detail endpoint.
type SessionDetail struct {
	models.SessionSummary
	RecentViolations []models.Violation `json:"recent_violations"`
}

// Health reports overall service health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "ok",
		"uptime_seconds": int64(time.Since(h.started).Seconds()),
	})
}

// HealthLive is the liveness probe.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// HealthReady is the readiness probe: the service is ready once the store
// answers queries.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if _, err := h.store.List(r.Context()); err != nil {
		respondError(w, http.StatusServiceUnavailable, ErrCodeServiceDown, "session store unavailable", nil)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// ListSessions returns the aggregate monitoring view: per-session rows
// ordered most-at-risk first plus dashboard totals.
func (h *Handler) ListSessions(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.manager.Stats())
}

type violationQuery struct {
	Limit int `validate:"gte=1,lte=100"`
}

// GetSession returns one session's detail including its most recent
// violations, newest first. ?limit bounds the feed (default 5).
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	q := violationQuery{Limit: defaultViolationLimit}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, ErrCodeValidation, "limit must be an integer", nil)
			return
		}
		q.Limit = n
	}
	if err := validate.Struct(q); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeValidation, "limit must be between 1 and 100", nil)
		return
	}

	if eng, ok := h.manager.Get(id); ok {
		respondJSON(w, http.StatusOK, SessionDetail{
			SessionSummary:   eng.Summary(),
			RecentViolations: eng.RecentViolations(q.Limit),
		})
		return
	}

	// Not live: fall back to the persisted record. Offline sessions have
	// no running state machine, so the phase is derived from the score.
	sess, err := h.store.Load(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			respondError(w, http.StatusNotFound, ErrCodeNotFound, "session not found", nil)
			return
		}
		logging.Error().Err(err).Str("session_id", id).Msg("failed to load session")
		respondError(w, http.StatusInternalServerError, ErrCodeStoreError, "failed to load session", nil)
		return
	}
	respondJSON(w, http.StatusOK, offlineDetail(sess, q.Limit))
}

func offlineDetail(sess *models.Session, limit int) SessionDetail {
	phase := models.PhaseNormal
	if sess.TrustScore < models.DefaultLockoutThreshold {
		phase = models.PhaseLockedOut
	}

	detail := SessionDetail{
		SessionSummary: models.SessionSummary{
			ID:             sess.ID,
			LearnerID:      sess.LearnerID,
			TrustScore:     sess.TrustScore,
			Phase:          phase,
			Status:         sess.Status(),
			ViolationCount: len(sess.ViolationLog),
		},
		RecentViolations: []models.Violation{},
	}
	if n := len(sess.ViolationLog); n > 0 {
		ts := sess.ViolationLog[n-1].Timestamp
		detail.LastViolationAt = &ts
		if limit > n {
			limit = n
		}
		for i := n - 1; i >= n-limit; i-- {
			detail.RecentViolations = append(detail.RecentViolations, sess.ViolationLog[i])
		}
	}
	return detail
}

// ResetSession is the administrative unlock entry point. It restores the
// score to 100, clears the violation log and forces the session out of
// lockout; a live engine services it ahead of any queued learner signals.
func (h *Handler) ResetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.manager.ResetSession(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			respondError(w, http.StatusNotFound, ErrCodeNotFound, "session not found", nil)
			return
		}
		logging.Error().Err(err).Str("session_id", id).Msg("failed to reset session")
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "failed to reset session", nil)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"session_id": id,
		"result":     "reset",
	})
}

// LearnerWS upgrades a proctored player connection and binds it to its
// session engine. An unknown or missing session_id mints a new session.
func (h *Handler) LearnerWS(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	learnerID := r.URL.Query().Get("learner_id")

	eng, err := h.manager.Attach(r.Context(), sessionID, learnerID)
	if err != nil {
		logging.Error().Err(err).Str("session_id", sessionID).Msg("failed to attach session")
		respondError(w, http.StatusServiceUnavailable, ErrCodeServiceDown, "session service unavailable", nil)
		return
	}

	upgrader := h.upgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Error().Err(err).Msg("websocket upgrade error")
		return
	}

	client := ws.NewLearnerClient(h.hub, conn, eng,
		h.cfg.Engine.SignalRatePerSecond, h.cfg.Engine.SignalBurst)
	h.hub.Register <- client
	client.Start()
}

// MonitorWS upgrades a teacher dashboard connection.
func (h *Handler) MonitorWS(w http.ResponseWriter, r *http.Request) {
	upgrader := h.upgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Error().Err(err).Msg("websocket upgrade error")
		return
	}

	client := ws.NewMonitorClient(h.hub, conn)
	h.hub.Register <- client
	client.Start()
}

func (h *Handler) upgrader() gorillaws.Upgrader {
	return gorillaws.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		HandshakeTimeout: 10 * time.Second,
		CheckOrigin:      h.checkWebSocketOrigin,
	}
}

// checkWebSocketOrigin validates connection origins against the configured
// CORS allowlist. Non-browser clients without an Origin header are
// allowed; browsers always send one.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if h.cfg == nil {
		return true
	}
	for _, allowed := range h.cfg.Server.CORSOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	logging.Warn().Str("origin", origin).Msg("websocket connection rejected from unauthorized origin")
	return false
}
