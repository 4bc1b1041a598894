// Vigil - Session Integrity Engine for Proctored E-Learning Playback
// Copyright 2026 AURA Education Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aura-edu/vigil

package engine

import (
	"fmt"

	"github.com/aura-edu/vigil/internal/models"
)

// CommandType identifies an enforcement command pushed to the learner's
// player.
type CommandType string

const (
	CmdPause          CommandType = "pause"
	CmdPlay           CommandType = "play"
	CmdSetCurrentTime CommandType = "set_current_time"
	CmdSetOpacity     CommandType = "set_opacity"
	CmdShowBlackout   CommandType = "show_blackout"
	CmdHideBlackout   CommandType = "hide_blackout"
	CmdShowCountdown  CommandType = "show_countdown"
	CmdShowToast      CommandType = "show_toast"
	CmdShowLockout    CommandType = "show_lockout"
	CmdScoreUpdate    CommandType = "score_update"
)

// Command is one enforcement instruction for the rendering collaborator.
// Data holds the command's parameters, keyed per type.
type Command struct {
	Type CommandType    `json:"type"`
	Data map[string]any `json:"data,omitempty"`
}

// CommandSink delivers commands to whatever is rendering the session,
// normally the websocket hub. Send must not block the engine loop.
type CommandSink interface {
	Send(sessionID string, cmd Command)
}

// ViolationNotifier receives every applied violation for the monitoring
// feed. Implementations must not block the engine loop.
type ViolationNotifier interface {
	NotifyViolation(sessionID string, v models.Violation, newScore int)
}

func pauseCommand() Command { return Command{Type: CmdPause} }

func playCommand() Command { return Command{Type: CmdPlay} }

func setCurrentTimeCommand(t float64) Command {
	return Command{Type: CmdSetCurrentTime, Data: map[string]any{"time": t}}
}

func setOpacityCommand(v float64) Command {
	return Command{Type: CmdSetOpacity, Data: map[string]any{"opacity": v}}
}

func showBlackoutCommand(persistent bool) Command {
	return Command{Type: CmdShowBlackout, Data: map[string]any{"persistent": persistent}}
}

func hideBlackoutCommand() Command { return Command{Type: CmdHideBlackout} }

func showCountdownCommand(seconds int) Command {
	return Command{Type: CmdShowCountdown, Data: map[string]any{"seconds_remaining": seconds}}
}

func showToastCommand(message string) Command {
	return Command{Type: CmdShowToast, Data: map[string]any{"message": message}}
}

func showLockoutCommand() Command { return Command{Type: CmdShowLockout} }

func scoreUpdateCommand(score int, status models.IntegrityStatus) Command {
	return Command{Type: CmdScoreUpdate, Data: map[string]any{
		"trust_score": score,
		"status":      string(status),
	}}
}

func violationToast(v models.Violation) Command {
	return showToastCommand(fmt.Sprintf("Violation: %s (-%d pts)", v.Detail, v.Deduction))
}
