/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package filter

import (
	"net/url"
	"sort"
	"strings"

	"github.com/suparena/entityapi/dictionary"
	"github.com/suparena/entityapi/errors"
)

// EqualityDialect is the default query-parameter filter grammar:
//
//	filter[field]=v1,v2          membership test on the path's entity type
//	filter[field][op]=v1,v2      explicit operator
//	filter[type.field]=v1,v2     typed (subquery) form
//
// Field paths are validated against the entity dictionary.
type EqualityDialect struct {
	dict *dictionary.EntityDictionary
}

// NewEqualityDialect returns the default dialect bound to a dictionary.
func NewEqualityDialect(dict *dictionary.EntityDictionary) *EqualityDialect {
	return &EqualityDialect{dict: dict}
}

var _ JoinDialect = (*EqualityDialect)(nil)
var _ SubqueryDialect = (*EqualityDialect)(nil)

// ParseGlobalExpression parses untyped filter parameters against the entity
// type addressed by the path. Multiple parameters conjoin.
func (d *EqualityDialect) ParseGlobalExpression(path string, params url.Values) (Expression, error) {
	entityType := terminalType(path)
	var exprs []Expression

	for _, key := range sortedFilterKeys(params) {
		field, op, err := parseFilterKey(key)
		if err != nil {
			return nil, err
		}
		if !d.dict.HasField(entityType, field) {
			return nil, errors.NewValidationError(key,
				"unknown filter field for type "+entityType)
		}
		exprs = append(exprs, predicateFor(field, op, params.Get(key)))
	}

	if len(exprs) == 0 {
		return nil, errors.NewValidationError("filter", "no filter parameters present")
	}
	return Conjoin(exprs), nil
}

// ParseTypedExpression parses filter parameters whose field is qualified with
// an entity type, producing one expression per type.
func (d *EqualityDialect) ParseTypedExpression(_ string, params url.Values) (map[string]Expression, error) {
	grouped := make(map[string][]Expression)

	for _, key := range sortedFilterKeys(params) {
		qualified, op, err := parseFilterKey(key)
		if err != nil {
			return nil, err
		}
		entityType, field, ok := strings.Cut(qualified, ".")
		if !ok {
			return nil, errors.NewValidationError(key,
				"typed filters require a type-qualified field")
		}
		if !d.dict.HasField(entityType, field) {
			return nil, errors.NewValidationError(key,
				"unknown filter field for type "+entityType)
		}
		grouped[entityType] = append(grouped[entityType], predicateFor(field, op, params.Get(key)))
	}

	if len(grouped) == 0 {
		return nil, errors.NewValidationError("filter", "no filter parameters present")
	}
	out := make(map[string]Expression, len(grouped))
	for entityType, exprs := range grouped {
		out[entityType] = Conjoin(exprs)
	}
	return out, nil
}

func predicateFor(field string, op Operator, csv string) Expression {
	return &Predicate{Field: field, Operator: op, Values: splitValues(csv)}
}

func splitValues(csv string) []string {
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}

// parseFilterKey decodes "filter[field]" or "filter[field][op]".
func parseFilterKey(key string) (field string, op Operator, err error) {
	rest, ok := strings.CutPrefix(key, "filter[")
	if !ok {
		return "", "", errors.NewValidationError(key, "not a filter parameter")
	}
	field, rest, ok = strings.Cut(rest, "]")
	if !ok || field == "" {
		return "", "", errors.NewValidationError(key, "malformed filter parameter")
	}

	op = OpIn
	if rest != "" {
		name := strings.TrimSuffix(strings.TrimPrefix(rest, "["), "]")
		parsed, ok := ParseOperator(name)
		if !ok {
			return "", "", errors.NewValidationError(key, "unknown filter operator "+name)
		}
		op = parsed
	}
	return field, op, nil
}

func sortedFilterKeys(params url.Values) []string {
	var keys []string
	for key := range params {
		if key != "filter" && IsFilterParam(key) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}
