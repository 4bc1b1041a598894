// Vigil - Session Integrity Engine for Proctored E-Learning Playback
// Copyright 2026 AURA Education Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aura-edu/vigil

package signal

import (
	"testing"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    Signal
		wantErr bool
	}{
		{
			name:    "focus lost with reason",
			payload: `{"kind":"focus_lost","reason":"Tab Switch / Minimized"}`,
			want:    Signal{Kind: KindFocusLost, Reason: ReasonTabSwitch},
		},
		{
			name:    "key combo",
			payload: `{"kind":"key_combo","combo":"printscreen"}`,
			want:    Signal{Kind: KindKeyCombo, Combo: ComboPrintScreen},
		},
		{
			name:    "seek attempt carries position",
			payload: `{"kind":"seek_attempt","position":93.25}`,
			want:    Signal{Kind: KindSeekAttempt, Position: 93.25},
		},
		{
			name:    "missing kind rejected",
			payload: `{"position":10}`,
			wantErr: true,
		},
		{
			name:    "malformed json rejected",
			payload: `{"kind":`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.payload))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if got.Kind != tt.want.Kind || got.Reason != tt.want.Reason ||
				got.Combo != tt.want.Combo || got.Position != tt.want.Position {
				t.Errorf("Decode = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestIsTabHidden(t *testing.T) {
	hidden := Signal{Kind: KindFocusLost, Reason: ReasonTabSwitch}
	if !hidden.IsTabHidden() {
		t.Error("visibility-channel focus loss should report tab hidden")
	}

	blur := Signal{Kind: KindFocusLost, Reason: ReasonAppSwitch}
	if blur.IsTabHidden() {
		t.Error("window blur should not report tab hidden")
	}

	returned := Signal{Kind: KindFocusReturned, Reason: ReasonTabSwitch}
	if returned.IsTabHidden() {
		t.Error("non-focus-loss signals never report tab hidden")
	}
}
