/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package memstore provides an in-memory DataStore implementation used by
// tests, examples, and request-handler development.
package memstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/suparena/entityapi/datastore"
	"github.com/suparena/entityapi/dictionary"
	"github.com/suparena/entityapi/errors"
)

// Store is an in-memory datastore.DataStore[T]. Records are identified and
// inspected through the entity dictionary binding for T, so the store honors
// the same filter and sort semantics as a real backend.
type Store[T any] struct {
	mu      sync.RWMutex
	binding *dictionary.Binding
	items   map[string]T

	putErr    error
	deleteErr error
	updateErr error
	queryErr  error
}

// New creates an empty store for the bound entity type.
func New[T any](binding *dictionary.Binding) *Store[T] {
	return &Store[T]{
		binding: binding,
		items:   make(map[string]T),
	}
}

// WithPutError makes Put operations fail with err. Chainable, for tests.
func (s *Store[T]) WithPutError(err error) *Store[T] {
	s.putErr = err
	return s
}

// WithDeleteError makes Delete operations fail with err.
func (s *Store[T]) WithDeleteError(err error) *Store[T] {
	s.deleteErr = err
	return s
}

// WithUpdateError makes UpdateWithCondition operations fail with err.
func (s *Store[T]) WithUpdateError(err error) *Store[T] {
	s.updateErr = err
	return s
}

// WithQueryError makes Query operations fail with err.
func (s *Store[T]) WithQueryError(err error) *Store[T] {
	s.queryErr = err
	return s
}

var _ datastore.DataStore[struct{}] = (*Store[struct{}])(nil)

func (s *Store[T]) GetOne(_ context.Context, id string) (*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.items[id]
	if !ok {
		return nil, errors.NewNotFoundError(s.binding.Name, id)
	}
	return &v, nil
}

// Put inserts or replaces a record. A record with an unset UUID identity gets
// one generated and written back through the pointer, mirroring
// server-generated identity columns.
func (s *Store[T]) Put(_ context.Context, entity *T) error {
	if s.putErr != nil {
		return s.putErr
	}

	id, err := s.binding.ID(entity)
	if err != nil {
		return err
	}
	if id == "" || id == uuid.Nil.String() {
		generated := uuid.New()
		if err := s.binding.Set(entity, s.binding.IDAttribute(), generated); err != nil {
			return fmt.Errorf("memstore: assign generated id: %w", err)
		}
		id = generated.String()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[id] = *entity
	return nil
}

func (s *Store[T]) UpdateWithCondition(ctx context.Context, id string, updates map[string]any, condition string) error {
	if s.updateErr != nil {
		return s.updateErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.items[id]
	if !ok {
		if condition != "" {
			return errors.NewConditionFailedError("update", condition)
		}
		return errors.NewNotFoundError(s.binding.Name, id)
	}

	for name, value := range updates {
		if err := s.binding.Set(&record, name, value); err != nil {
			return err
		}
	}
	s.items[id] = record
	return nil
}

func (s *Store[T]) Query(_ context.Context, params *datastore.QueryParams) ([]T, error) {
	if s.queryErr != nil {
		return nil, s.queryErr
	}

	s.mu.RLock()
	records := make([]T, 0, len(s.items))
	for _, v := range s.items {
		records = append(records, v)
	}
	s.mu.RUnlock()

	return datastore.EvaluateQuery(records, s.binding, params), nil
}

func (s *Store[T]) Delete(_ context.Context, id string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return errors.NewNotFoundError(s.binding.Name, id)
	}
	delete(s.items, id)
	return nil
}

// Len reports the number of stored records.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
