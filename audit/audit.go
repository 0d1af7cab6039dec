/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package audit defines the audit logging seam used by the request pipeline.
//
// Messages are buffered as the request progresses and either committed in one
// batch when the operation succeeds or cleared when it aborts.
package audit

import (
	"context"
	"log/slog"
	"sync"
)

// Message is one auditable event recorded during a request.
type Message struct {
	// Operation is the verb that produced the event ("create", "update", ...).
	Operation string
	// Entity is the exposed entity name the event applies to.
	Entity string
	// Key identifies the affected record, if known.
	Key string
	// Text is the human-readable event description.
	Text string
}

// Logger buffers audit messages for a request until the outcome is known.
// A caller that buffers before the outcome is decided must Commit on success
// and Clear on failure; a caller sharing one logger across requests must log
// and commit in a single step so no failure leaves the buffer dirty.
type Logger interface {
	// Log buffers a message. It must not block on I/O.
	Log(ctx context.Context, m Message)
	// Commit flushes all buffered messages.
	Commit(ctx context.Context) error
	// Clear drops all buffered messages without emitting them.
	Clear()
}

// SlogLogger is the default Logger. Buffered messages are emitted through a
// *slog.Logger on Commit.
type SlogLogger struct {
	mu      sync.Mutex
	log     *slog.Logger
	pending []Message
}

// NewSlogLogger returns a Logger backed by l. A nil l uses slog.Default().
func NewSlogLogger(l *slog.Logger) *SlogLogger {
	if l == nil {
		l = slog.Default()
	}
	return &SlogLogger{log: l}
}

func (s *SlogLogger) Log(_ context.Context, m Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, m)
}

func (s *SlogLogger) Commit(ctx context.Context) error {
	s.mu.Lock()
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()

	for _, m := range pending {
		s.log.LogAttrs(ctx, slog.LevelInfo, m.Text,
			slog.String("operation", m.Operation),
			slog.String("entity", m.Entity),
			slog.String("key", m.Key),
		)
	}
	return nil
}

func (s *SlogLogger) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = nil
}

// Pending reports the number of buffered messages. Intended for tests.
func (s *SlogLogger) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
