// Vigil - Session Integrity Engine for Proctored E-Learning Playback
// Copyright 2026 AURA Education Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aura-edu/vigil

// Package main is the entry point for the Vigil server.
//
// Vigil is the session integrity sidecar for proctored e-learning playback.
// Learner players stream integrity signals over WebSocket; Vigil classifies
// them, maintains per-session trust scores, enforces playback bounds and
// pushes enforcement commands back to the player. Teachers monitor and
// administer sessions over a REST API and a monitor WebSocket feed.
//
// The server initializes components in order:
//
//  1. Configuration: koanf v2 layered config (defaults, YAML file, VIGIL_* env)
//  2. Session store: badger-backed persistence with a circuit breaker
//  3. WebSocket hub: learner and monitor connection fan-out
//  4. Session manager: one integrity engine per live session
//  5. Telemetry: periodic aggregate stats broadcast to monitors
//  6. HTTP server: chi REST API, WebSocket upgrades, Prometheus metrics
//
// All long-running services run under a suture supervisor tree and shut
// down gracefully on SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aura-edu/vigil/internal/api"
	"github.com/aura-edu/vigil/internal/config"
	"github.com/aura-edu/vigil/internal/engine"
	"github.com/aura-edu/vigil/internal/logging"
	"github.com/aura-edu/vigil/internal/store"
	"github.com/aura-edu/vigil/internal/supervisor"
	"github.com/aura-edu/vigil/internal/supervisor/services"
	ws "github.com/aura-edu/vigil/internal/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Config is not available yet, so this uses the default logger.
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("store_path", cfg.Store.Path).
		Bool("store_in_memory", cfg.Store.InMemory).
		Int("lockout_threshold", cfg.Engine.LockoutThreshold).
		Msg("Configuration loaded")

	sessionStore, err := store.New(cfg.Store)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open session store")
	}
	defer func() {
		if err := sessionStore.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing session store")
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Bridge zerolog to slog for the sutureslog event hook.
	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})

	hub := ws.NewHub()
	manager := engine.NewManager(cfg.Engine, sessionStore, hub, hub, engine.RealClock())
	telemetry := engine.NewTelemetry(manager, hub, cfg.Telemetry.Interval)

	handler := api.NewHandler(cfg, manager, sessionStore, hub)
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      api.NewRouter(handler),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	if !cfg.Store.InMemory {
		tree.AddDataService(services.NewGCService(sessionStore, cfg.Store.GCInterval))
	}
	tree.AddSessionService(services.NewRunner("websocket-hub", hub))
	tree.AddSessionService(services.NewRunner("session-manager", manager))
	tree.AddSessionService(services.NewRunner("telemetry", telemetry))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Vigil stopped gracefully")
}
