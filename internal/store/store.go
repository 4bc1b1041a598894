// Vigil - Session Integrity Engine for Proctored E-Learning Playback
// Copyright 2026 AURA Education Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/aura-edu/vigil

package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/aura-edu/vigil/internal/config"
	"github.com/aura-edu/vigil/internal/logging"
	"github.com/aura-edu/vigil/internal/metrics"
	"github.com/aura-edu/vigil/internal/models"
)

// ErrSessionNotFound is returned by Load when no record exists for the id.
// The caller decides whether that means "mint a session" (learner path) or
// "404" (admin path); the store never fabricates one.
var ErrSessionNotFound = errors.New("session not found")

const sessionKeyPrefix = "session:"

// SessionStore persists session records in BadgerDB. Writes go through a
// circuit breaker: a degraded disk trips the breaker open and the engine
// keeps enforcing from memory while writes fail fast.
type SessionStore struct {
	db      *badger.DB
	breaker *gobreaker.CircuitBreaker[interface{}]
}

// New opens the store at cfg.Path, or in memory when cfg.InMemory is set
// (tests and ephemeral deployments).
func New(cfg config.StoreConfig) (*SessionStore, error) {
	opts := badger.DefaultOptions(cfg.Path).
		WithLogger(badgerLogger{}).
		WithInMemory(cfg.InMemory)
	if cfg.InMemory {
		opts = opts.WithDir("").WithValueDir("")
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}

	settings := gobreaker.Settings{
		Name:        "session-store-writes",
		MaxRequests: cfg.BreakerMaxRequests,
		Interval:    cfg.BreakerInterval,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.StoreBreakerState.Set(float64(to))
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("store circuit breaker state change")
		},
	}

	return &SessionStore{
		db:      db,
		breaker: gobreaker.NewCircuitBreaker[interface{}](settings),
	}, nil
}

// Close flushes and closes the underlying database.
func (s *SessionStore) Close() error {
	return s.db.Close()
}

// Load retrieves a session by id. Returns ErrSessionNotFound when no
// record exists.
func (s *SessionStore) Load(ctx context.Context, id string) (*models.Session, error) {
	start := time.Now()
	var sess models.Session

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(sessionKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrSessionNotFound
		}
		if err != nil {
			return fmt.Errorf("get session: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &sess)
		})
	})
	metrics.RecordStoreOp("load", time.Since(start), err)

	if err != nil {
		return nil, err
	}
	return &sess, nil
}

// Save writes a session record through the circuit breaker.
func (s *SessionStore) Save(ctx context.Context, sess *models.Session) error {
	start := time.Now()
	_, err := s.breaker.Execute(func() (interface{}, error) {
		data, err := json.Marshal(sess)
		if err != nil {
			return nil, fmt.Errorf("marshal session: %w", err)
		}
		return nil, s.db.Update(func(txn *badger.Txn) error {
			return txn.Set(sessionKey(sess.ID), data)
		})
	})
	metrics.RecordStoreOp("save", time.Since(start), err)

	if err != nil {
		return fmt.Errorf("save session %s: %w", sess.ID, err)
	}
	return nil
}

// List returns all persisted sessions.
func (s *SessionStore) List(ctx context.Context) ([]*models.Session, error) {
	start := time.Now()
	var sessions []*models.Session

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(sessionKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var sess models.Session
				if err := json.Unmarshal(val, &sess); err != nil {
					return fmt.Errorf("unmarshal session: %w", err)
				}
				sessions = append(sessions, &sess)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	metrics.RecordStoreOp("list", time.Since(start), err)

	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// Delete removes a session record. Deleting a missing id is not an error.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	start := time.Now()
	err := s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(sessionKey(id)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete session: %w", err)
		}
		return nil
	})
	metrics.RecordStoreOp("delete", time.Since(start), err)
	return err
}

// RunGC runs one cycle of Badger's value-log garbage collection. The
// supervised GC service calls it on a schedule.
func (s *SessionStore) RunGC() error {
	// ErrNoRewrite just means there was nothing to collect.
	if err := s.db.RunValueLogGC(0.5); err != nil && !errors.Is(err, badger.ErrNoRewrite) {
		return fmt.Errorf("badger value log gc: %w", err)
	}
	return nil
}

func sessionKey(id string) []byte {
	return []byte(sessionKeyPrefix + id)
}

// badgerLogger routes Badger's internal logging through zerolog. Badger is
// chatty at INFO, so its info/debug output is demoted to debug.
type badgerLogger struct{}

func (badgerLogger) Errorf(format string, args ...interface{}) {
	logging.Error().Msg(fmt.Sprintf("badger: "+strings.TrimSpace(format), args...))
}

func (badgerLogger) Warningf(format string, args ...interface{}) {
	logging.Warn().Msg(fmt.Sprintf("badger: "+strings.TrimSpace(format), args...))
}

func (badgerLogger) Infof(format string, args ...interface{}) {
	logging.Debug().Msg(fmt.Sprintf("badger: "+strings.TrimSpace(format), args...))
}

func (badgerLogger) Debugf(format string, args ...interface{}) {
	logging.Debug().Msg(fmt.Sprintf("badger: "+strings.TrimSpace(format), args...))
}
