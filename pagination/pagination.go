/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package pagination holds the shared page-size policy and the query-param
// derived pagination state for collection fetches.
package pagination

import (
	"net/url"
	"strconv"

	"github.com/suparena/entityapi/errors"
)

// Shared pagination policy constants. Builder defaults derive from these and
// they must stay consistent across the framework.
const (
	// DefaultPageLimit is the page size used when a request does not specify one.
	DefaultPageLimit = 500

	// MaxPageLimit is the hard upper bound on a requested page size.
	MaxPageLimit = 10000
)

// Recognized query parameters.
const (
	paramSize   = "page[size]"
	paramNumber = "page[number]"
	paramLimit  = "page[limit]"
	paramOffset = "page[offset]"
	paramTotals = "page[totals]"
)

// Pagination is the resolved pagination state for one collection fetch.
type Pagination struct {
	// Offset is the zero-based index of the first record to return.
	Offset int
	// Limit is the maximum number of records to return.
	Limit int
	// RequestTotals indicates the client asked for a total-record count.
	RequestTotals bool
}

// Default returns pagination seeded from the given default limit.
func Default(defaultLimit int) Pagination {
	return Pagination{Limit: defaultLimit}
}

// IsPageParam reports whether name is one of the recognized page parameters.
func IsPageParam(name string) bool {
	switch name {
	case paramSize, paramNumber, paramLimit, paramOffset, paramTotals:
		return true
	}
	return false
}

// FromQueryParams resolves pagination from request query parameters.
//
// page[size]/page[number] and page[limit]/page[offset] are two spellings of
// the same thing; mixing the two families is a validation error. The resolved
// limit is bounded by maxLimit.
func FromQueryParams(params url.Values, defaultLimit, maxLimit int) (Pagination, error) {
	p := Default(defaultLimit)

	pageBased := params.Has(paramSize) || params.Has(paramNumber)
	offsetBased := params.Has(paramLimit) || params.Has(paramOffset)
	if pageBased && offsetBased {
		return p, errors.NewValidationError("page",
			"page[size]/page[number] cannot be combined with page[limit]/page[offset]")
	}

	if params.Has(paramTotals) {
		p.RequestTotals = true
	}

	switch {
	case pageBased:
		size := defaultLimit
		if params.Has(paramSize) {
			v, err := positiveInt(paramSize, params.Get(paramSize))
			if err != nil {
				return p, err
			}
			size = v
		}
		number := 1
		if params.Has(paramNumber) {
			v, err := positiveInt(paramNumber, params.Get(paramNumber))
			if err != nil {
				return p, err
			}
			number = v
		}
		p.Limit = size
		p.Offset = (number - 1) * size

	case offsetBased:
		if params.Has(paramLimit) {
			v, err := positiveInt(paramLimit, params.Get(paramLimit))
			if err != nil {
				return p, err
			}
			p.Limit = v
		}
		if params.Has(paramOffset) {
			v, err := nonNegativeInt(paramOffset, params.Get(paramOffset))
			if err != nil {
				return p, err
			}
			p.Offset = v
		}
	}

	if p.Limit > maxLimit {
		return p, errors.NewValidationError("page",
			"requested page size "+strconv.Itoa(p.Limit)+" exceeds the maximum of "+strconv.Itoa(maxLimit))
	}
	return p, nil
}

func positiveInt(name, raw string) (int, error) {
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return 0, errors.NewValidationError(name, "must be a positive integer")
	}
	return v, nil
}

func nonNegativeInt(name, raw string) (int, error) {
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, errors.NewValidationError(name, "must be a non-negative integer")
	}
	return v, nil
}
