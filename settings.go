/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package entityapi

import (
	"net/http"
	"reflect"
	"strings"

	"github.com/suparena/entityapi/audit"
	"github.com/suparena/entityapi/datastore"
	"github.com/suparena/entityapi/dictionary"
	"github.com/suparena/entityapi/filter"
	"github.com/suparena/entityapi/jsonapi"
	"github.com/suparena/entityapi/permissions"
	"github.com/suparena/entityapi/serde"
)

// HeaderProcessor normalizes inbound request headers before a request
// scope is built.
type HeaderProcessor func(http.Header) http.Header

// LowercaseAndRemoveAuthHeaders is the default header processor. It lowercases
// header names and strips Authorization and Proxy-Authorization so credentials
// never reach handler or audit layers.
func LowercaseAndRemoveAuthHeaders(headers http.Header) http.Header {
	processed := make(http.Header, len(headers))
	for name, values := range headers {
		lower := strings.ToLower(name)
		if lower == "authorization" || lower == "proxy-authorization" {
			continue
		}
		processed[lower] = values
	}
	return processed
}

// Settings is the assembled configuration of an EntityAPI instance. Values
// are fixed at Build time; the struct is safe for concurrent reads from
// request-handling goroutines.
type Settings struct {
	auditLogger             audit.Logger
	storage                 datastore.Storage
	dictionary              *dictionary.EntityDictionary
	mapper                  *jsonapi.Mapper
	errorMapper             jsonapi.ErrorMapper
	executorFactory         permissions.ExecutorFactory
	joinFilterDialects      []filter.JoinDialect
	subqueryFilterDialects  []filter.SubqueryDialect
	graphqlFilterDialect    filter.Dialect
	links                   jsonapi.Links
	linksEnabled            bool
	headerProcessor         HeaderProcessor
	defaultMaxPageSize      int
	defaultPageSize         int
	updateStatusCode        int
	serdes                  map[reflect.Type]serde.Serde
	strictQueryParams       bool
	baseURL                 string
	jsonAPIPath             string
	graphQLAPIPath          string
	exportAPIPath           string
}

// AuditLogger returns the configured audit logger.
func (s *Settings) AuditLogger() audit.Logger { return s.auditLogger }

// Storage returns the datastore registry handle.
func (s *Settings) Storage() datastore.Storage { return s.storage }

// EntityDictionary returns the entity dictionary.
func (s *Settings) EntityDictionary() *dictionary.EntityDictionary { return s.dictionary }

// DocumentMapper returns the JSON:API document mapper.
func (s *Settings) DocumentMapper() *jsonapi.Mapper { return s.mapper }

// ErrorMapper returns the error-to-document translator.
func (s *Settings) ErrorMapper() jsonapi.ErrorMapper { return s.errorMapper }

// ExecutorFactory returns the permission executor factory.
func (s *Settings) ExecutorFactory() permissions.ExecutorFactory { return s.executorFactory }

// JoinFilterDialects returns the global filter dialects in registration order.
func (s *Settings) JoinFilterDialects() []filter.JoinDialect { return s.joinFilterDialects }

// SubqueryFilterDialects returns the typed filter dialects in registration order.
func (s *Settings) SubqueryFilterDialects() []filter.SubqueryDialect { return s.subqueryFilterDialects }

// GraphQLFilterDialect returns the dialect used by the GraphQL surface.
func (s *Settings) GraphQLFilterDialect() filter.Dialect { return s.graphqlFilterDialect }

// Links returns the document links generator, nil when links are disabled.
func (s *Settings) Links() jsonapi.Links { return s.links }

// LinksEnabled reports whether documents carry generated links.
func (s *Settings) LinksEnabled() bool { return s.linksEnabled }

// HeaderProcessor returns the inbound header normalizer.
func (s *Settings) HeaderProcessor() HeaderProcessor { return s.headerProcessor }

// DefaultMaxPageSize returns the pagination hard cap.
func (s *Settings) DefaultMaxPageSize() int { return s.defaultMaxPageSize }

// DefaultPageSize returns the page size applied when a request names none.
func (s *Settings) DefaultPageSize() int { return s.defaultPageSize }

// UpdateStatusCode returns the HTTP status used for successful updates,
// either 200 or 204.
func (s *Settings) UpdateStatusCode() int { return s.updateStatusCode }

// Serdes returns a copy of the attribute serde map keyed by target type.
// Mutating the returned map does not affect the settings.
func (s *Settings) Serdes() map[reflect.Type]serde.Serde {
	out := make(map[reflect.Type]serde.Serde, len(s.serdes))
	for t, sd := range s.serdes {
		out[t] = sd
	}
	return out
}

// StrictQueryParams reports whether unrecognized query parameters reject
// the request.
func (s *Settings) StrictQueryParams() bool { return s.strictQueryParams }

// BaseURL returns the external base URL used for generated links.
func (s *Settings) BaseURL() string { return s.baseURL }

// JSONAPIPath returns the mount path of the JSON:API surface.
func (s *Settings) JSONAPIPath() string { return s.jsonAPIPath }

// GraphQLAPIPath returns the mount path of the GraphQL surface.
func (s *Settings) GraphQLAPIPath() string { return s.graphQLAPIPath }

// ExportAPIPath returns the mount path of the export surface.
func (s *Settings) ExportAPIPath() string { return s.exportAPIPath }
