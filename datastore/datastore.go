/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"context"

	"github.com/suparena/entityapi/filter"
	"github.com/suparena/entityapi/pagination"
)

// SortField orders a collection fetch by one exposed attribute.
type SortField struct {
	Field      string
	Descending bool
}

// QueryParams defines parameters for a collection fetch.
type QueryParams struct {
	// EntityType is the exposed entity name being fetched.
	EntityType string
	// Filter restricts the result set; nil returns everything.
	Filter filter.Expression
	// Page bounds the result window.
	Page pagination.Pagination
	// Sort orders the results before the page window is applied.
	Sort []SortField
}

// DataStore is the persistence contract for one entity type.
type DataStore[T any] interface {
	// GetOne retrieves a single record by identity. Missing records surface
	// as a NotFoundError.
	GetOne(ctx context.Context, id string) (*T, error)

	// Put stores a record, inserting or replacing it. A store that
	// generates the identity writes it back through the pointer so the
	// caller sees the stored identity.
	Put(ctx context.Context, entity *T) error

	// UpdateWithCondition applies attribute updates to a record only when the
	// condition holds at the store.
	UpdateWithCondition(ctx context.Context, id string, updates map[string]any, condition string) error

	// Query fetches records matching the params.
	Query(ctx context.Context, params *QueryParams) ([]T, error)

	// Delete removes a record by identity.
	Delete(ctx context.Context, id string) error
}
