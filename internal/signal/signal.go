// Vigil - Session Integrity Engine for Proctored E-Learning Playback
// Copyright 2026 AURA Education Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aura-edu/vigil

package signal

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// SchemaVersion is the current signal schema version. Increment on breaking
// changes to Signal.
const SchemaVersion = 1

// Kind identifies the type of a raw client signal.
type Kind string

const (
	// KindFocusLost reports the window losing focus or the tab hiding.
	KindFocusLost Kind = "focus_lost"

	// KindFocusReturned reports focus or visibility being restored.
	KindFocusReturned Kind = "focus_returned"

	// KindWindowResized reports a viewport resize.
	KindWindowResized Kind = "window_resized"

	// KindKeyCombo reports a trapped key combination.
	KindKeyCombo Kind = "key_combo"

	// KindPlaybackTime reports a media timeupdate tick.
	KindPlaybackTime Kind = "playback_time"

	// KindSeekAttempt reports the player requesting a seek.
	KindSeekAttempt Kind = "seek_attempt"

	// KindMediaLoaded reports a new media item being bound to the player.
	KindMediaLoaded Kind = "media_loaded"

	// KindBlockedInput reports an input the client suppressed locally
	// (context menu, clipboard, drag, selection). Informational only.
	KindBlockedInput Kind = "blocked_input"
)

// KeyCombo identifies which trapped key combination was pressed.
type KeyCombo string

const (
	// ComboPrintScreen covers the PrintScreen key.
	ComboPrintScreen KeyCombo = "printscreen"

	// ComboDevTools covers F12, Ctrl+Shift+I/J and Ctrl+U.
	ComboDevTools KeyCombo = "devtools"

	// ComboSavePrint covers Ctrl+S and Ctrl+P.
	ComboSavePrint KeyCombo = "save_print"
)

// Focus-loss reasons reported by the client. Kept as free text on the wire;
// these are the two values the player emits.
const (
	ReasonTabSwitch = "Tab Switch / Minimized"
	ReasonAppSwitch = "App Switch / Focus Lost"
)

// Signal is one raw observation from the learner's player. Exactly which
// payload fields are meaningful depends on Kind; unknown kinds are ignored
// by the engine rather than rejected.
type Signal struct {
	SchemaVersion int       `json:"schema_version,omitempty"`
	Kind          Kind      `json:"kind"`
	Timestamp     time.Time `json:"timestamp,omitempty"`

	// Reason qualifies KindFocusLost (which surface reported the loss).
	Reason string `json:"reason,omitempty"`

	// Combo qualifies KindKeyCombo.
	Combo KeyCombo `json:"combo,omitempty"`

	// Input qualifies KindBlockedInput.
	Input string `json:"input,omitempty"`

	// Position is the playback position in seconds for KindPlaybackTime
	// and the requested target for KindSeekAttempt.
	Position float64 `json:"position,omitempty"`

	// Seeking reports whether the player was mid-seek at a timeupdate.
	Seeking bool `json:"seeking,omitempty"`

	// MediaID identifies the media item for KindMediaLoaded.
	MediaID string `json:"media_id,omitempty"`
}

// Decode parses a wire-format signal. Kind is the only required field.
func Decode(data []byte) (Signal, error) {
	var sig Signal
	if err := json.Unmarshal(data, &sig); err != nil {
		return Signal{}, fmt.Errorf("decode signal: %w", err)
	}
	if sig.Kind == "" {
		return Signal{}, fmt.Errorf("decode signal: missing kind")
	}
	return sig, nil
}

// IsTabHidden reports whether a focus-loss signal came from the visibility
// channel rather than window blur. The distinction drives the violation
// kind (TabSwitch vs FocusLost).
func (s Signal) IsTabHidden() bool {
	return s.Kind == KindFocusLost && s.Reason == ReasonTabSwitch
}
