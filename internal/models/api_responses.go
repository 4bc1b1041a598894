// Vigil - Session Integrity Engine for Proctored E-Learning Playback
// Copyright 2026 AURA Education Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aura-edu/vigil

package models

import "time"

// APIResponse is the standardized response wrapper used by all HTTP
// endpoints.
//
// Success:
//
//	{
//	  "status": "success",
//	  "data": {...},
//	  "metadata": {"timestamp": "2026-02-11T12:00:00Z"}
//	}
//
// Error:
//
//	{
//	  "status": "error",
//	  "error": {"code": "NOT_FOUND", "message": "session not found"},
//	  "metadata": {"timestamp": "2026-02-11T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries response metadata for observability.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
}

// APIError is a structured error payload with a machine-readable code.
//
// Common codes: VALIDATION_ERROR, NOT_FOUND, METHOD_NOT_ALLOWED,
// STORE_ERROR, RATE_LIMIT_EXCEEDED.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
