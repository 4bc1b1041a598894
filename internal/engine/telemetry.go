// Vigil - Session Integrity Engine for Proctored E-Learning Playback
// Copyright 2026 AURA Education Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aura-edu/vigil

package engine

import (
	"context"
	"time"

	"github.com/aura-edu/vigil/internal/logging"
	"github.com/aura-edu/vigil/internal/models"
)

// StatsBroadcaster pushes aggregate stats to monitoring dashboards,
// normally the websocket hub's monitor clients.
type StatsBroadcaster interface {
	BroadcastStats(stats models.MonitorStats)
}

// Telemetry periodically broadcasts the manager's aggregate view to
// monitor clients. It implements suture.Service.
type Telemetry struct {
	manager     *Manager
	broadcaster StatsBroadcaster
	interval    time.Duration
}

// NewTelemetry creates a telemetry broadcaster with the given interval.
func NewTelemetry(manager *Manager, broadcaster StatsBroadcaster, interval time.Duration) *Telemetry {
	return &Telemetry{
		manager:     manager,
		broadcaster: broadcaster,
		interval:    interval,
	}
}

// Serve broadcasts stats every interval until ctx is canceled.
func (t *Telemetry) Serve(ctx context.Context) error {
	logging.Info().Dur("interval", t.interval).Msg("telemetry broadcaster started")

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logging.Info().Msg("telemetry broadcaster stopped")
			return ctx.Err()
		case <-ticker.C:
			t.broadcaster.BroadcastStats(t.manager.Stats())
		}
	}
}
