// Vigil - Session Integrity Engine for Proctored E-Learning Playback
// Copyright 2026 AURA Education Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aura-edu/vigil

// Package middleware provides chi-compatible HTTP middleware: request id
// propagation and Prometheus request instrumentation.
package middleware
