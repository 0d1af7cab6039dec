/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/suparena/entityapi/dictionary"
)

// EvaluateQuery applies the filter, sort, and page window of params to
// records in memory. Backends without native support for an expression
// evaluate it client side after fetching candidate records. A nil params
// returns all records sorted by the identity attribute.
func EvaluateQuery[T any](records []T, binding *dictionary.Binding, params *QueryParams) []T {
	var sortFields []SortField
	if params != nil {
		if params.Filter != nil {
			matched := make([]T, 0, len(records))
			for _, r := range records {
				if params.Filter.Matches(binding.FieldGetter(r)) {
					matched = append(matched, r)
				}
			}
			records = matched
		}
		sortFields = params.Sort
	}
	if len(sortFields) == 0 {
		sortFields = []SortField{{Field: binding.IDAttribute()}}
	}

	sort.SliceStable(records, func(i, j int) bool {
		for _, f := range sortFields {
			li, _ := binding.Get(records[i], f.Field)
			lj, _ := binding.Get(records[j], f.Field)
			cmp := compareValues(li, lj)
			if cmp == 0 {
				continue
			}
			if f.Descending {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})

	if params == nil {
		return records
	}
	return window(records, params.Page.Offset, params.Page.Limit)
}

// compareValues orders two attribute values, numerically when both parse
// as numbers and lexically otherwise.
func compareValues(a, b any) int {
	as, bs := fmt.Sprint(a), fmt.Sprint(b)
	an, aerr := strconv.ParseFloat(as, 64)
	bn, berr := strconv.ParseFloat(bs, 64)
	if aerr == nil && berr == nil {
		switch {
		case an < bn:
			return -1
		case an > bn:
			return 1
		}
		return 0
	}
	switch {
	case as < bs:
		return -1
	case as > bs:
		return 1
	}
	return 0
}

func window[T any](records []T, offset, limit int) []T {
	if offset >= len(records) {
		return nil
	}
	records = records[offset:]
	if limit > 0 && limit < len(records) {
		records = records[:limit]
	}
	return records
}
