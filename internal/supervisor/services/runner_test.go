// Vigil - Session Integrity Engine for Proctored E-Learning Playback
// Copyright 2026 AURA Education Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aura-edu/vigil

package services

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeRunner struct {
	started chan struct{}
	err     error
}

func (f *fakeRunner) Serve(ctx context.Context) error {
	close(f.started)
	if f.err != nil {
		return f.err
	}
	<-ctx.Done()
	return ctx.Err()
}

func TestRunnerDelegates(t *testing.T) {
	r := &fakeRunner{started: make(chan struct{})}
	svc := NewRunner("session-manager", r)
	if svc.String() != "session-manager" {
		t.Errorf("String() = %q", svc.String())
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	select {
	case <-r.started:
	case <-time.After(time.Second):
		t.Fatal("wrapped runner never started")
	}
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve returned %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestRunnerPropagatesFailure(t *testing.T) {
	want := errors.New("hub crashed")
	svc := NewRunner("hub", &fakeRunner{started: make(chan struct{}), err: want})
	if err := svc.Serve(context.Background()); !errors.Is(err, want) {
		t.Errorf("Serve returned %v, want %v", err, want)
	}
}
