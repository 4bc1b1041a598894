// Vigil - Session Integrity Engine for Proctored E-Learning Playback
// Copyright 2026 AURA Education Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aura-edu/vigil

package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aura-edu/vigil/internal/config"
	"github.com/aura-edu/vigil/internal/models"
)

var testTime = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func newTestStore(t *testing.T) *SessionStore {
	t.Helper()
	cfg := config.Default().Store
	cfg.InMemory = true
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return s
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	sess := models.NewSession("sess-1", "learner-1", testTime)
	sess.TrustScore = 85
	sess.ViolationLog = append(sess.ViolationLog, models.Violation{
		Kind:      models.ViolationTabSwitch,
		Detail:    "Tab Switch / Minimized",
		Timestamp: testTime,
		Deduction: 5,
	})

	if err := s.Save(ctx, sess); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Load(ctx, "sess-1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.TrustScore != 85 {
		t.Errorf("TrustScore = %d, want 85", got.TrustScore)
	}
	if len(got.ViolationLog) != 1 || got.ViolationLog[0].Kind != models.ViolationTabSwitch {
		t.Errorf("ViolationLog = %+v", got.ViolationLog)
	}
	if got.LearnerID != "learner-1" {
		t.Errorf("LearnerID = %q, want learner-1", got.LearnerID)
	}
}

func TestLoadMissingReturnsNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Load(context.Background(), "nope")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("Load missing = %v, want ErrSessionNotFound", err)
	}
}

func TestSaveOverwrites(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	sess := models.NewSession("sess-1", "learner-1", testTime)
	if err := s.Save(ctx, sess); err != nil {
		t.Fatalf("Save: %v", err)
	}

	sess.TrustScore = 40
	if err := s.Save(ctx, sess); err != nil {
		t.Fatalf("Save overwrite: %v", err)
	}

	got, err := s.Load(ctx, "sess-1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.TrustScore != 40 {
		t.Errorf("TrustScore = %d, want 40", got.TrustScore)
	}
}

func TestListReturnsAllSessions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		if err := s.Save(ctx, models.NewSession(id, "", testTime)); err != nil {
			t.Fatalf("Save %s: %v", id, err)
		}
	}

	sessions, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(sessions) != 3 {
		t.Fatalf("List returned %d sessions, want 3", len(sessions))
	}
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, models.NewSession("sess-1", "", testTime)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Delete(ctx, "sess-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Load(ctx, "sess-1"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Load after delete = %v, want ErrSessionNotFound", err)
	}

	// Deleting a missing id is not an error.
	if err := s.Delete(ctx, "sess-1"); err != nil {
		t.Errorf("Delete missing: %v", err)
	}
}
