/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package request

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/suparena/entityapi"
	"github.com/suparena/entityapi/datastore"
	"github.com/suparena/entityapi/dictionary"
	"github.com/suparena/entityapi/errors"
	"github.com/suparena/entityapi/filter"
	"github.com/suparena/entityapi/pagination"
	"github.com/suparena/entityapi/permissions"
)

// Scope is the per-request view of the settings: normalized headers, parsed
// pagination, parsed filters, sort order, and a permission executor. One
// scope serves one inbound request.
type Scope struct {
	settings   *entityapi.Settings
	entityType string
	headers    http.Header

	page         pagination.Pagination
	globalFilter filter.Expression
	typedFilters map[string]filter.Expression
	sort         []datastore.SortField
	executor     permissions.Executor
}

// NewScope parses the query parameters of a request against the settings.
// The path is the request path below the JSON:API mount point, used by
// dialects that scope filters by path. With strict query parameters enabled,
// any parameter outside the known families rejects the request.
func NewScope(settings *entityapi.Settings, entityType, path string, headers http.Header, params url.Values) (*Scope, error) {
	if settings.StrictQueryParams() {
		if err := validateQueryParams(params); err != nil {
			return nil, err
		}
	}

	s := &Scope{
		settings:     settings,
		entityType:   entityType,
		headers:      settings.HeaderProcessor()(headers),
		typedFilters: map[string]filter.Expression{},
		executor:     settings.ExecutorFactory()(settings.EntityDictionary()),
	}

	page, err := pagination.FromQueryParams(params, settings.DefaultPageSize(), settings.DefaultMaxPageSize())
	if err != nil {
		return nil, err
	}
	s.page = page

	if err := s.parseFilters(path, params); err != nil {
		return nil, err
	}
	if err := s.parseSort(params); err != nil {
		return nil, err
	}
	return s, nil
}

// validateQueryParams rejects parameters outside the JSON:API families the
// framework understands.
func validateQueryParams(params url.Values) error {
	for key := range params {
		switch {
		case pagination.IsPageParam(key):
		case filter.IsFilterParam(key):
		case key == "sort" || key == "include":
		case key == "fields" || strings.HasPrefix(key, "fields["):
		default:
			return errors.NewValidationError(key, "unrecognized query parameter")
		}
	}
	return nil
}

// parseFilters runs the configured dialects. Join dialects are tried in
// registration order for the global expression; the first dialect that
// parses wins. Subquery dialects populate the per-type expression map the
// same way.
func (s *Scope) parseFilters(path string, params url.Values) error {
	hasFilter := false
	for key := range params {
		if filter.IsFilterParam(key) {
			hasFilter = true
			break
		}
	}
	if !hasFilter {
		return nil
	}

	var globalErr, typedErr error
	for _, d := range s.settings.JoinFilterDialects() {
		expr, err := d.ParseGlobalExpression(path, params)
		if err != nil {
			globalErr = err
			continue
		}
		s.globalFilter = expr
		break
	}

	for _, d := range s.settings.SubqueryFilterDialects() {
		typed, err := d.ParseTypedExpression(path, params)
		if err != nil {
			typedErr = err
			continue
		}
		s.typedFilters = typed
		break
	}

	// A request carries a global expression, typed expressions, or both.
	// Fail only when no dialect produced anything on either surface.
	if s.globalFilter != nil || len(s.typedFilters) > 0 {
		return nil
	}
	if globalErr != nil {
		return globalErr
	}
	return typedErr
}

// parseSort reads the JSON:API sort parameter ("sort=-year,name"),
// validating each field against the dictionary binding.
func (s *Scope) parseSort(params url.Values) error {
	raw := params.Get("sort")
	if raw == "" {
		return nil
	}

	binding, ok := s.settings.EntityDictionary().BindingByName(s.entityType)
	if !ok {
		return errors.NewUnknownEntityError(s.entityType)
	}

	for _, field := range strings.Split(raw, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		descending := strings.HasPrefix(field, "-")
		field = strings.TrimPrefix(field, "-")
		if !bindingHasField(binding, field) {
			return errors.NewValidationError("sort", "unknown sort field "+field)
		}
		s.sort = append(s.sort, datastore.SortField{Field: field, Descending: descending})
	}
	return nil
}

func bindingHasField(b *dictionary.Binding, field string) bool {
	for _, name := range b.AttributeNames() {
		if name == field {
			return true
		}
	}
	return false
}

// Settings returns the settings this scope was built from.
func (s *Scope) Settings() *entityapi.Settings { return s.settings }

// EntityType returns the entity collection the request addresses.
func (s *Scope) EntityType() string { return s.entityType }

// Headers returns the processed request headers.
func (s *Scope) Headers() http.Header { return s.headers }

// Pagination returns the parsed page window.
func (s *Scope) Pagination() pagination.Pagination { return s.page }

// Filter returns the expression for the scope's entity type: the typed
// expression when one was parsed for it, otherwise the global expression.
func (s *Scope) Filter() filter.Expression {
	if expr, ok := s.typedFilters[s.entityType]; ok {
		return expr
	}
	return s.globalFilter
}

// TypedFilter returns the parsed expression for a named entity type.
func (s *Scope) TypedFilter(entityType string) (filter.Expression, bool) {
	expr, ok := s.typedFilters[entityType]
	return expr, ok
}

// Sort returns the parsed sort order.
func (s *Scope) Sort() []datastore.SortField { return s.sort }

// Executor returns the permission executor for this request.
func (s *Scope) Executor() permissions.Executor { return s.executor }

// QueryParams assembles the datastore query for the scope.
func (s *Scope) QueryParams() *datastore.QueryParams {
	return &datastore.QueryParams{
		EntityType: s.entityType,
		Filter:     s.Filter(),
		Page:       s.page,
		Sort:       s.sort,
	}
}
