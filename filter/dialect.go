/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package filter

import (
	"net/url"
	"strings"
)

// JoinDialect parses a request's query parameters into one global filter
// expression rooted at the entity type addressed by the URL path.
type JoinDialect interface {
	ParseGlobalExpression(path string, params url.Values) (Expression, error)
}

// SubqueryDialect parses a request's query parameters into one filter
// expression per entity type, keyed by exposed entity name.
type SubqueryDialect interface {
	ParseTypedExpression(path string, params url.Values) (map[string]Expression, error)
}

// Dialect parses a single filter argument string for one entity type. This is
// the grammar surface used by the GraphQL layer.
type Dialect interface {
	Parse(entityType string, expression string) (Expression, error)
}

// IsFilterParam reports whether a query parameter belongs to the filter
// grammar surface.
func IsFilterParam(name string) bool {
	return name == "filter" || strings.HasPrefix(name, "filter[")
}

// terminalType extracts the entity type addressed by a URL path such as
// "/accountProfile/123".
func terminalType(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	if len(segments) == 0 {
		return ""
	}
	return segments[0]
}
