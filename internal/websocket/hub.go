// Vigil - Session Integrity Engine for Proctored E-Learning Playback
// Copyright 2026 AURA Education Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aura-edu/vigil

package websocket

import (
	"context"
	"sort"
	"sync"

	"github.com/aura-edu/vigil/internal/engine"
	"github.com/aura-edu/vigil/internal/logging"
	"github.com/aura-edu/vigil/internal/metrics"
	"github.com/aura-edu/vigil/internal/models"
)

// Monitor-facing message types. Learner-facing messages use the engine's
// command types directly.
const (
	MessageTypeStatsUpdate = "stats_update"
	MessageTypeViolation   = "violation"
	MessageTypePing        = "ping"
	MessageTypePong        = "pong"
)

// Message is one websocket frame, either an enforcement command for a
// learner or an event for monitoring dashboards.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// directMessage targets the learner connections of a single session.
type directMessage struct {
	sessionID string
	message   Message
}

// ViolationEvent is the monitor-feed payload for one applied violation.
type ViolationEvent struct {
	SessionID  string               `json:"session_id"`
	Kind       models.ViolationKind `json:"kind"`
	Detail     string               `json:"detail,omitempty"`
	Deduction  int                  `json:"deduction"`
	TrustScore int                  `json:"trust_score"`
}

// Hub maintains the set of active clients: learner connections bound to a
// session that receive enforcement commands, and monitor connections that
// receive aggregate events. It implements the engine's CommandSink,
// ViolationNotifier and StatsBroadcaster surfaces.
type Hub struct {
	clients   map[*Client]bool
	sessions  map[string]map[*Client]bool
	broadcast chan Message
	direct    chan directMessage

	Register   chan *Client
	Unregister chan *Client

	mu sync.RWMutex
}

// NewHub creates a hub. Serve must be running before clients register.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		sessions:   make(map[string]map[*Client]bool),
		broadcast:  make(chan Message, 256),
		direct:     make(chan directMessage, 1024),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Send delivers an enforcement command to the session's learner
// connections. It never blocks the engine loop: when the hub's queue is
// full the command is dropped and counted.
func (h *Hub) Send(sessionID string, cmd engine.Command) {
	msg := directMessage{
		sessionID: sessionID,
		message:   Message{Type: string(cmd.Type), Data: cmd.Data},
	}
	select {
	case h.direct <- msg:
	default:
		logging.Warn().
			Str("session_id", sessionID).
			Str("type", string(cmd.Type)).
			Msg("hub direct queue full, dropping command")
	}
}

// NotifyViolation pushes a violation event to monitoring dashboards.
func (h *Hub) NotifyViolation(sessionID string, v models.Violation, newScore int) {
	h.enqueueBroadcast(Message{
		Type: MessageTypeViolation,
		Data: ViolationEvent{
			SessionID:  sessionID,
			Kind:       v.Kind,
			Detail:     v.Detail,
			Deduction:  v.Deduction,
			TrustScore: newScore,
		},
	})
}

// BroadcastStats pushes the aggregate dashboard view to monitors.
func (h *Hub) BroadcastStats(stats models.MonitorStats) {
	h.enqueueBroadcast(Message{Type: MessageTypeStatsUpdate, Data: stats})
}

func (h *Hub) enqueueBroadcast(msg Message) {
	select {
	case h.broadcast <- msg:
	default:
		logging.Warn().Str("type", msg.Type).Msg("hub broadcast queue full, dropping message")
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Serve runs the hub until ctx is canceled, then closes every client.
// Implements suture.Service.
//
// Selection is priority ordered so behavior is predictable when several
// channels are ready: shutdown first, then client lifecycle, then message
// delivery.
func (h *Hub) Serve(ctx context.Context) error {
	logging.Info().Msg("websocket hub started")

	for {
		// Priority 1: shutdown.
		select {
		case <-ctx.Done():
			h.shutdown()
			return ctx.Err()
		default:
		}

		// Priority 2: client lifecycle, so membership is settled before
		// messages are routed.
		select {
		case client := <-h.Register:
			h.addClient(client)
			continue
		case client := <-h.Unregister:
			h.removeClient(client)
			continue
		default:
		}

		// Priority 3: message delivery, or wait for any event.
		select {
		case <-ctx.Done():
			h.shutdown()
			return ctx.Err()
		case client := <-h.Register:
			h.addClient(client)
		case client := <-h.Unregister:
			h.removeClient(client)
		case msg := <-h.direct:
			h.sendToSession(msg)
		case msg := <-h.broadcast:
			h.broadcastToMonitors(msg)
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	if client.role == RoleLearner {
		if h.sessions[client.sessionID] == nil {
			h.sessions[client.sessionID] = make(map[*Client]bool)
		}
		h.sessions[client.sessionID][client] = true
	}
	total := len(h.clients)
	h.mu.Unlock()

	metrics.WSConnectionsActive.WithLabelValues(string(client.role)).Inc()
	logging.Info().
		Str("role", string(client.role)).
		Str("session_id", client.sessionID).
		Int("total_clients", total).
		Msg("websocket client connected")
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	_, known := h.clients[client]
	if known {
		delete(h.clients, client)
		close(client.send)
		if client.role == RoleLearner {
			if peers := h.sessions[client.sessionID]; peers != nil {
				delete(peers, client)
				if len(peers) == 0 {
					delete(h.sessions, client.sessionID)
				}
			}
		}
	}
	total := len(h.clients)
	h.mu.Unlock()

	if !known {
		return
	}
	metrics.WSConnectionsActive.WithLabelValues(string(client.role)).Dec()
	logging.Info().
		Str("role", string(client.role)).
		Int("total_clients", total).
		Msg("websocket client disconnected")
}

func (h *Hub) sendToSession(msg directMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range sortedClients(h.sessions[msg.sessionID]) {
		h.deliverLocked(client, msg.message)
	}
	metrics.WSMessagesSent.WithLabelValues(msg.message.Type).Inc()
}

func (h *Hub) broadcastToMonitors(msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range sortedClients(h.clients) {
		if client.role != RoleMonitor {
			continue
		}
		h.deliverLocked(client, msg)
	}
	metrics.WSMessagesSent.WithLabelValues(msg.Type).Inc()
}

// deliverLocked sends without blocking; a client whose buffer is full is
// dropped rather than allowed to stall everyone else. Caller holds mu.
func (h *Hub) deliverLocked(client *Client, msg Message) {
	select {
	case client.send <- msg:
	default:
		close(client.send)
		delete(h.clients, client)
		if client.role == RoleLearner {
			if peers := h.sessions[client.sessionID]; peers != nil {
				delete(peers, client)
				if len(peers) == 0 {
					delete(h.sessions, client.sessionID)
				}
			}
		}
		metrics.WSConnectionsActive.WithLabelValues(string(client.role)).Dec()
	}
}

// sortedClients orders clients by id so message delivery and shutdown are
// deterministic regardless of map iteration order.
func sortedClients(set map[*Client]bool) []*Client {
	clients := make([]*Client, 0, len(set))
	for client := range set {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool { return clients[i].id < clients[j].id })
	return clients
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	clients := sortedClients(h.clients)
	for _, client := range clients {
		close(client.send)
		delete(h.clients, client)
		metrics.WSConnectionsActive.WithLabelValues(string(client.role)).Dec()
	}
	h.sessions = make(map[string]map[*Client]bool)
	h.mu.Unlock()

	logging.Info().
		Str("component", "websocket-hub").
		Int("clients_closed", len(clients)).
		Msg("websocket hub stopped")
}
