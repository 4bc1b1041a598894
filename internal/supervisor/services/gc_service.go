// Vigil - Session Integrity Engine for Proctored E-Learning Playback
// Copyright 2026 AURA Education Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aura-edu/vigil

package services

import (
	"context"
	"time"

	"github.com/aura-edu/vigil/internal/logging"
)

// GarbageCollector is satisfied by the badger-backed session store.
type GarbageCollector interface {
	RunGC() error
}

// GCService periodically runs value-log garbage collection on the session
// store. Badger does not reclaim space on its own; a skipped cycle is
// logged but never fatal.
type GCService struct {
	gc       GarbageCollector
	interval time.Duration
	name     string
}

// NewGCService creates a supervised GC loop. A non-positive interval
// falls back to 10 minutes.
func NewGCService(gc GarbageCollector, interval time.Duration) *GCService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &GCService{
		gc:       gc,
		interval: interval,
		name:     "store-gc",
	}
}

// Serve implements suture.Service.
func (g *GCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := g.gc.RunGC(); err != nil {
				logging.Warn().Err(err).Msg("store garbage collection failed")
			}
		}
	}
}

// String implements fmt.Stringer; suture uses it in log messages.
func (g *GCService) String() string {
	return g.name
}
