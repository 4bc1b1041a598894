// Vigil - Session Integrity Engine for Proctored E-Learning Playback
// Copyright 2026 AURA Education Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aura-edu/vigil

package api

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	gorillaws "github.com/gorilla/websocket"

	"github.com/aura-edu/vigil/internal/models"
)

// These tests dial the real router end to end, so the upgrade path runs
// through the full middleware stack rather than a bare ResponseRecorder.

func dialWS(t *testing.T, srv *httptest.Server, path string) *gorillaws.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + path
	conn, resp, err := gorillaws.DefaultDialer.Dial(url, nil)
	if err != nil {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		t.Fatalf("dial %s failed (status %d): %v", path, status, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *gorillaws.Conn) (string, map[string]interface{}) {
	t.Helper()
	if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatalf("SetReadDeadline: %v", err)
	}
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	var frame struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &frame); err != nil {
		t.Fatalf("decode frame %q: %v", raw, err)
	}
	data := map[string]interface{}{}
	if len(frame.Data) > 0 {
		if err := json.Unmarshal(frame.Data, &data); err != nil {
			t.Fatalf("decode frame data %q: %v", frame.Data, err)
		}
	}
	return frame.Type, data
}

func TestLearnerWebSocketStreamsSignals(t *testing.T) {
	f := newFixture(t)
	srv := httptest.NewServer(f.router)
	defer srv.Close()

	conn := dialWS(t, srv, "/api/v1/ws?session_id=sess-ws&learner_id=learner-ws")

	// PrintScreen deducts 20; the engine answers with enforcement frames.
	sig := `{"kind":"key_combo","combo":"printscreen"}`
	if err := conn.WriteMessage(gorillaws.TextMessage, []byte(sig)); err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		if time.Now().After(deadline) {
			t.Fatal("no score_update frame received")
		}
		msgType, data := readFrame(t, conn)
		if msgType != "score_update" {
			continue
		}
		if got, _ := data["trust_score"].(float64); got != 80 {
			t.Errorf("trust_score = %v, want 80", data["trust_score"])
		}
		break
	}

	eng, ok := f.manager.Get("sess-ws")
	if !ok {
		t.Fatal("session engine missing")
	}
	if eng.Score() != 80 {
		t.Errorf("engine score = %d, want 80", eng.Score())
	}
}

func TestMonitorWebSocketReceivesViolations(t *testing.T) {
	f := newFixture(t)
	srv := httptest.NewServer(f.router)
	defer srv.Close()

	monitor := dialWS(t, srv, "/api/v1/ws/monitor")
	learner := dialWS(t, srv, "/api/v1/ws?session_id=sess-mon")

	sig := `{"kind":"key_combo","combo":"devtools"}`
	if err := learner.WriteMessage(gorillaws.TextMessage, []byte(sig)); err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}

	msgType, data := readFrame(t, monitor)
	if msgType != "violation" {
		t.Fatalf("frame type = %q, want violation", msgType)
	}
	if data["session_id"] != "sess-mon" {
		t.Errorf("session_id = %v", data["session_id"])
	}
	if kind, _ := data["kind"].(string); kind != string(models.ViolationInspectorAttempt) {
		t.Errorf("kind = %v, want inspector attempt", data["kind"])
	}
	if got, _ := data["trust_score"].(float64); got != 90 {
		t.Errorf("trust_score = %v, want 90", data["trust_score"])
	}
}
