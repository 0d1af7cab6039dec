/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package permissions defines the permission-executor seam instantiated per
// request from the configured factory.
package permissions

import (
	"context"
	"log/slog"

	"github.com/suparena/entityapi/dictionary"
	"github.com/suparena/entityapi/errors"
)

// Executor evaluates named permission checks for one request.
type Executor interface {
	// CheckPermission evaluates the named check against a resource and
	// returns a ForbiddenError on denial. An unregistered check denies.
	CheckPermission(ctx context.Context, checkName string, resource string, record any) error
}

// CheckSource resolves check names to check functions. The entity dictionary
// satisfies this.
type CheckSource interface {
	Check(name string) (dictionary.Check, bool)
}

// ExecutorFactory builds the executor for one request scope.
type ExecutorFactory func(source CheckSource) Executor

// ActiveExecutor is the default executor: it evaluates checks and reports
// only the outcome.
type ActiveExecutor struct {
	source CheckSource
}

// NewActiveExecutor returns the default executor.
func NewActiveExecutor(source CheckSource) Executor {
	return &ActiveExecutor{source: source}
}

func (e *ActiveExecutor) CheckPermission(ctx context.Context, checkName, resource string, record any) error {
	check, ok := e.source.Check(checkName)
	if !ok {
		return errors.NewForbiddenError(checkName, resource)
	}
	if !check(ctx, record) {
		return errors.NewForbiddenError(checkName, resource)
	}
	return nil
}

// VerboseExecutor evaluates like ActiveExecutor but logs every decision.
// Selected by the builder's WithVerboseErrors.
type VerboseExecutor struct {
	source CheckSource
	log    *slog.Logger
}

// NewVerboseExecutor returns a decision-logging executor. A nil logger uses
// slog.Default().
func NewVerboseExecutor(source CheckSource) Executor {
	return &VerboseExecutor{source: source, log: slog.Default()}
}

func (e *VerboseExecutor) CheckPermission(ctx context.Context, checkName, resource string, record any) error {
	check, ok := e.source.Check(checkName)
	if !ok {
		e.log.LogAttrs(ctx, slog.LevelWarn, "permission check not registered",
			slog.String("check", checkName), slog.String("resource", resource))
		return errors.NewForbiddenError(checkName, resource)
	}
	if !check(ctx, record) {
		e.log.LogAttrs(ctx, slog.LevelInfo, "permission denied",
			slog.String("check", checkName), slog.String("resource", resource))
		return errors.NewForbiddenError(checkName, resource)
	}
	e.log.LogAttrs(ctx, slog.LevelDebug, "permission granted",
		slog.String("check", checkName), slog.String("resource", resource))
	return nil
}
