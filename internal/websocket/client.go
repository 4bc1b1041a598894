// Vigil - Session Integrity Engine for Proctored E-Learning Playback
// Copyright 2026 AURA Education Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aura-edu/vigil

package websocket

import (
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/aura-edu/vigil/internal/engine"
	"github.com/aura-edu/vigil/internal/logging"
	"github.com/aura-edu/vigil/internal/metrics"
	"github.com/aura-edu/vigil/internal/signal"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 16 * 1024
)

// Role distinguishes who is on the other end of a connection.
type Role string

const (
	// RoleLearner is the proctored player: it streams signals up and
	// receives enforcement commands down.
	RoleLearner Role = "learner"

	// RoleMonitor is a teacher dashboard: receive-only.
	RoleMonitor Role = "monitor"
)

// clientIDCounter hands out ids used for deterministic broadcast ordering.
var clientIDCounter atomic.Uint64

// Client is the middleman between one websocket connection and the hub.
type Client struct {
	id        uint64
	hub       *Hub
	conn      *websocket.Conn
	send      chan Message
	role      Role
	sessionID string

	// Learner connections only.
	engine  *engine.Engine
	limiter *rate.Limiter
}

// NewLearnerClient creates a client for a proctored player bound to its
// session engine. Signals beyond the rate limit are dropped, not queued:
// a flooding client must not delay enforcement of its own violations.
func NewLearnerClient(hub *Hub, conn *websocket.Conn, eng *engine.Engine, ratePerSecond float64, burst int) *Client {
	return &Client{
		id:        clientIDCounter.Add(1),
		hub:       hub,
		conn:      conn,
		send:      make(chan Message, 256),
		role:      RoleLearner,
		sessionID: eng.SessionID(),
		engine:    eng,
		limiter:   rate.NewLimiter(rate.Limit(ratePerSecond), burst),
	}
}

// NewMonitorClient creates a receive-only client for a teacher dashboard.
func NewMonitorClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		id:   clientIDCounter.Add(1),
		hub:  hub,
		conn: conn,
		send: make(chan Message, 256),
		role: RoleMonitor,
	}
}

// Start begins the read and write pumps.
func (c *Client) Start() {
	go c.writePump()
	go c.readPump()
}

// readPump consumes frames from the connection. Learner frames are decoded
// as signals and dispatched to the session engine; monitor frames are only
// serviced for pings.
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister <- c
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logging.Error().Err(err).Msg("failed to set read deadline")
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logging.Error().Err(err).Msg("unexpected websocket close error")
			}
			return
		}
		metrics.WSMessagesReceived.Inc()

		if c.role == RoleLearner {
			c.handleSignalFrame(data)
			continue
		}
		c.handleMonitorFrame(data)
	}
}

func (c *Client) handleSignalFrame(data []byte) {
	if !c.limiter.Allow() {
		metrics.RecordDroppedSignal("rate_limited")
		logging.Warn().
			Str("session_id", c.sessionID).
			Msg("signal rate limit exceeded, dropping signal")
		return
	}

	sig, err := signal.Decode(data)
	if err != nil {
		metrics.RecordDroppedSignal("decode_error")
		logging.Debug().Err(err).
			Str("session_id", c.sessionID).
			Msg("undecodable signal dropped")
		return
	}
	c.engine.Dispatch(sig)
}

func (c *Client) handleMonitorFrame(data []byte) {
	// Monitors are receive-only apart from keepalive pings.
	if string(data) == `{"type":"ping"}` {
		select {
		case c.send <- Message{Type: MessageTypePong}:
		default:
		}
	}
}

// writePump pushes hub messages and protocol pings to the connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logging.Error().Err(err).Msg("failed to set write deadline")
				return
			}
			if !ok {
				// The hub closed the channel.
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(message); err != nil {
				logging.Error().Err(err).Msg("failed to write websocket message")
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
