/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"context"

	"github.com/suparena/entityapi/errors"
)

// Accessor is the dynamically-typed view of a DataStore used by the request
// state handlers, which do not know T at compile time.
type Accessor interface {
	FindOne(ctx context.Context, id string) (any, error)
	FindMany(ctx context.Context, params *QueryParams) ([]any, error)
	Save(ctx context.Context, entity any) error
	Update(ctx context.Context, id string, updates map[string]any) error
	Remove(ctx context.Context, id string) error
}

// adapter wraps a typed DataStore behind the Accessor view.
type adapter[T any] struct {
	ds DataStore[T]
}

// Adapt exposes a typed DataStore as an Accessor.
func Adapt[T any](ds DataStore[T]) Accessor {
	return &adapter[T]{ds: ds}
}

// Register adapts a typed DataStore behind the Accessor view and registers it
// with a Storage handle under the given entity name, making the entity
// reachable from request handlers:
//
//	datastore.Register[Account](storage, "account", store)
func Register[T any](s Storage, entityName string, ds DataStore[T]) error {
	return s.RegisterDataStore(entityName, Adapt(ds))
}

// AccessorFor retrieves the Accessor registered for an entity name. A store
// registered without going through Adapt or Register yields a configuration
// error.
func AccessorFor(s Storage, entityName string) (Accessor, error) {
	ds, err := s.GetDataStore(entityName)
	if err != nil {
		return nil, err
	}
	acc, ok := ds.(Accessor)
	if !ok {
		return nil, errors.NewConfigurationError(entityName,
			"registered datastore does not implement datastore.Accessor")
	}
	return acc, nil
}

func (a *adapter[T]) FindOne(ctx context.Context, id string) (any, error) {
	rec, err := a.ds.GetOne(ctx, id)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (a *adapter[T]) FindMany(ctx context.Context, params *QueryParams) ([]any, error) {
	recs, err := a.ds.Query(ctx, params)
	if err != nil {
		return nil, err
	}
	out := make([]any, 0, len(recs))
	for i := range recs {
		out = append(out, &recs[i])
	}
	return out, nil
}

// Save stores a record. Passing a pointer lets a store-generated identity
// flow back to the caller; a value keeps the caller's copy untouched.
func (a *adapter[T]) Save(ctx context.Context, entity any) error {
	switch v := entity.(type) {
	case *T:
		return a.ds.Put(ctx, v)
	case T:
		return a.ds.Put(ctx, &v)
	default:
		var zero T
		return &TypeMismatchError{Want: &zero, Got: entity}
	}
}

func (a *adapter[T]) Update(ctx context.Context, id string, updates map[string]any) error {
	return a.ds.UpdateWithCondition(ctx, id, updates, "")
}

func (a *adapter[T]) Remove(ctx context.Context, id string) error {
	return a.ds.Delete(ctx, id)
}

// TypeMismatchError reports a record handed to an Accessor whose underlying
// store holds a different type.
type TypeMismatchError struct {
	Want any
	Got  any
}

func (e *TypeMismatchError) Error() string {
	return "datastore: record type mismatch"
}
