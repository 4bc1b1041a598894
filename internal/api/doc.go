// Vigil - Session Integrity Engine for Proctored E-Learning Playback
// Copyright 2026 AURA Education Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aura-edu/vigil

/*
Package api exposes the HTTP surface:

	GET  /api/v1/health            service health
	GET  /api/v1/health/live       liveness probe
	GET  /api/v1/health/ready      readiness probe (store reachable)
	GET  /api/v1/sessions          monitoring view of live sessions
	GET  /api/v1/sessions/{id}     session detail (?limit bounds the
	                               violation feed, newest first)
	POST /api/v1/sessions/{id}/reset   administrative unlock
	GET  /api/v1/ws                learner websocket (session_id,
	                               learner_id query params)
	GET  /api/v1/ws/monitor        dashboard websocket
	GET  /metrics                  Prometheus

All JSON endpoints use the APIResponse envelope with machine-readable
error codes. The reset endpoint is the only mutating operation; it is
teacher-facing and never reachable through the learner signal path.
*/
package api
