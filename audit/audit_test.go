/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package audit

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestSlogLoggerCommit(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	ctx := context.Background()
	logger.Log(ctx, Message{Operation: "update", Entity: "account", Key: "123", Text: "account updated"})
	logger.Log(ctx, Message{Operation: "delete", Entity: "account", Key: "456", Text: "account deleted"})

	if logger.Pending() != 2 {
		t.Fatalf("expected 2 pending messages, got %d", logger.Pending())
	}

	// Nothing is emitted before Commit
	if buf.Len() != 0 {
		t.Fatalf("expected no output before commit, got %q", buf.String())
	}

	if err := logger.Commit(ctx); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "account updated") || !strings.Contains(out, "account deleted") {
		t.Errorf("committed output missing messages: %q", out)
	}
	if !strings.Contains(out, "operation=update") {
		t.Errorf("committed output missing attrs: %q", out)
	}
	if logger.Pending() != 0 {
		t.Errorf("expected buffer drained after commit, got %d pending", logger.Pending())
	}
}

func TestSlogLoggerClear(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	ctx := context.Background()
	logger.Log(ctx, Message{Operation: "create", Entity: "account", Text: "account created"})
	logger.Clear()

	if err := logger.Commit(ctx); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected cleared messages to never be emitted, got %q", buf.String())
	}
}
