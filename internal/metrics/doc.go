// Vigil - Session Integrity Engine for Proctored E-Learning Playback
// Copyright 2026 AURA Education Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aura-edu/vigil

/*
Package metrics provides Prometheus metrics collection and export.

Metrics are exposed at the /metrics endpoint in Prometheus text format.

Engine metrics:
  - vigil_signals_processed_total: signals dispatched to engines (counter)
    Labels: kind
  - vigil_signals_dropped_total: signals dropped before processing (counter)
    Labels: reason (queue_full, rate_limited, decode_error, locked_out)
  - vigil_violations_total: classified violations (counter)
    Labels: kind
  - vigil_lockouts_total: sessions entering lockout (counter)
  - vigil_admin_resets_total: administrative resets (counter)
  - vigil_seeks_rejected_total: forward seeks clamped (counter)
  - vigil_active_sessions: live session engines (gauge)

API metrics:
  - vigil_api_requests_total: API requests (counter)
    Labels: method, endpoint, status_code
  - vigil_api_request_duration_seconds: request latency (histogram)
    Labels: method, endpoint

WebSocket metrics:
  - vigil_websocket_connections_active: open connections (gauge)
    Labels: role (learner, monitor)
  - vigil_websocket_messages_sent_total / _received_total

Store metrics:
  - vigil_store_operation_duration_seconds: store op latency (histogram)
    Labels: operation
  - vigil_store_operation_errors_total: failed store ops (counter)
    Labels: operation
  - vigil_store_breaker_state: write breaker state (gauge)
    Values: 0=closed, 1=open, 2=half-open

All recording functions are safe for concurrent use; label cardinality is
bounded to fixed enumerations (no session or learner ids in labels).
*/
package metrics
