// Vigil - Session Integrity Engine for Proctored E-Learning Playback
// Copyright 2026 AURA Education Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aura-edu/vigil

package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/aura-edu/vigil/internal/logging"
	"github.com/aura-edu/vigil/internal/models"
)

// Machine-readable error codes.
const (
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeStoreError      = "STORE_ERROR"
	ErrCodeInternal        = "INTERNAL_ERROR"
	ErrCodeServiceDown     = "SERVICE_UNAVAILABLE"
	ErrCodeUpgradeRequired = "UPGRADE_REQUIRED"
)

// respondJSON writes a success envelope with the given payload.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	resp := models.APIResponse{
		Status:   "success",
		Data:     data,
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
	}
	writeJSON(w, status, resp)
}

// respondError writes an error envelope with a machine-readable code.
func respondError(w http.ResponseWriter, status int, code, message string, details map[string]interface{}) {
	resp := models.APIResponse{
		Status:   "error",
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
		Error: &models.APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, resp models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logging.Error().Err(err).Msg("failed to encode response")
	}
}
