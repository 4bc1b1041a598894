// Vigil - Session Integrity Engine for Proctored E-Learning Playback
// Copyright 2026 AURA Education Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aura-edu/vigil

package services

import "context"

// ContextRunner is satisfied by Vigil's long-running components (the
// WebSocket hub, the session manager, the telemetry broadcaster): a
// blocking Serve that returns when the context is canceled.
type ContextRunner interface {
	Serve(ctx context.Context) error
}

// Runner wraps a ContextRunner as a named suture service.
type Runner struct {
	runner ContextRunner
	name   string
}

// NewRunner creates a supervised wrapper around a ContextRunner.
func NewRunner(name string, runner ContextRunner) *Runner {
	return &Runner{runner: runner, name: name}
}

// Serve implements suture.Service.
func (r *Runner) Serve(ctx context.Context) error {
	return r.runner.Serve(ctx)
}

// String implements fmt.Stringer; suture uses it in log messages.
func (r *Runner) String() string {
	return r.name
}
