// Vigil - Session Integrity Engine for Proctored E-Learning Playback
// Copyright 2026 AURA Education Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aura-edu/vigil

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Engine metrics
	SignalsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vigil_signals_processed_total",
			Help: "Total number of raw signals dispatched to session engines",
		},
		[]string{"kind"},
	)

	SignalsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vigil_signals_dropped_total",
			Help: "Total number of signals dropped before processing",
		},
		[]string{"reason"}, // "queue_full", "rate_limited", "decode_error", "locked_out"
	)

	ViolationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vigil_violations_total",
			Help: "Total number of classified violations",
		},
		[]string{"kind"},
	)

	LockoutsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vigil_lockouts_total",
			Help: "Total number of sessions entering lockout",
		},
	)

	AdminResetsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vigil_admin_resets_total",
			Help: "Total number of administrative session resets",
		},
	)

	SeeksRejected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vigil_seeks_rejected_total",
			Help: "Total number of forward seeks clamped by the playback guard",
		},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vigil_active_sessions",
			Help: "Current number of live session engines",
		},
	)

	// API metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vigil_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vigil_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"method", "endpoint"},
	)

	// WebSocket metrics
	WSConnectionsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "vigil_websocket_connections_active",
			Help: "Current number of websocket connections",
		},
		[]string{"role"}, // "learner", "monitor"
	)

	WSMessagesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vigil_websocket_messages_sent_total",
			Help: "Total number of websocket messages sent",
		},
		[]string{"type"},
	)

	WSMessagesReceived = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vigil_websocket_messages_received_total",
			Help: "Total number of websocket messages received",
		},
	)

	// Store metrics
	StoreOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vigil_store_operation_duration_seconds",
			Help:    "Duration of session store operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // "load", "save", "list", "delete"
	)

	StoreOpErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vigil_store_operation_errors_total",
			Help: "Total number of failed session store operations",
		},
		[]string{"operation"},
	)

	StoreBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vigil_store_breaker_state",
			Help: "Session store circuit breaker state (0=closed, 1=open, 2=half-open)",
		},
	)
)

// RecordSignal counts one processed signal by kind.
func RecordSignal(kind string) {
	SignalsProcessed.WithLabelValues(kind).Inc()
}

// RecordViolation counts one classified violation by kind.
func RecordViolation(kind string) {
	ViolationsTotal.WithLabelValues(kind).Inc()
}

// RecordDroppedSignal counts one dropped signal by drop reason.
func RecordDroppedSignal(reason string) {
	SignalsDropped.WithLabelValues(reason).Inc()
}

// RecordStoreOp records the duration of a store operation and counts the
// error if one occurred.
func RecordStoreOp(operation string, duration time.Duration, err error) {
	StoreOpDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		StoreOpErrors.WithLabelValues(operation).Inc()
	}
}

// RecordAPIRequest records one completed API request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}
