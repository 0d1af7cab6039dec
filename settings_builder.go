/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package entityapi

import (
	"net/http"
	"reflect"
	"time"

	"github.com/suparena/entityapi/audit"
	"github.com/suparena/entityapi/datastore"
	"github.com/suparena/entityapi/dictionary"
	"github.com/suparena/entityapi/errors"
	"github.com/suparena/entityapi/filter"
	"github.com/suparena/entityapi/jsonapi"
	"github.com/suparena/entityapi/pagination"
	"github.com/suparena/entityapi/permissions"
	"github.com/suparena/entityapi/serde"
)

// SettingsBuilder assembles Settings through chained With* calls. Validation
// and dialect defaulting are deferred to Build so options may arrive in any
// order.
type SettingsBuilder struct {
	settings Settings
}

// NewSettingsBuilder starts a builder around a datastore registry, seeded
// with the documented defaults. The entity dictionary is the one mandatory
// option; Build fails without it.
func NewSettingsBuilder(storage datastore.Storage) *SettingsBuilder {
	serdes := serde.EpochDates()
	for t, s := range serde.Defaults() {
		serdes[t] = s
	}

	return &SettingsBuilder{
		settings: Settings{
			auditLogger:        audit.NewSlogLogger(nil),
			storage:            storage,
			mapper:             jsonapi.NewMapper(),
			errorMapper:        jsonapi.DefaultErrorMapper,
			executorFactory:    permissions.NewActiveExecutor,
			headerProcessor:    LowercaseAndRemoveAuthHeaders,
			defaultMaxPageSize: pagination.MaxPageLimit,
			defaultPageSize:    pagination.DefaultPageLimit,
			updateStatusCode:   http.StatusNoContent,
			serdes:             serdes,
			strictQueryParams:  true,
			jsonAPIPath:        "/api",
			graphQLAPIPath:     "/graphql/api",
			exportAPIPath:      "/export",
		},
	}
}

// WithAuditLogger replaces the audit logger.
func (b *SettingsBuilder) WithAuditLogger(l audit.Logger) *SettingsBuilder {
	b.settings.auditLogger = l
	return b
}

// WithEntityDictionary sets the entity dictionary. Mandatory.
func (b *SettingsBuilder) WithEntityDictionary(d *dictionary.EntityDictionary) *SettingsBuilder {
	b.settings.dictionary = d
	return b
}

// WithDocumentMapper replaces the JSON:API document mapper.
func (b *SettingsBuilder) WithDocumentMapper(m *jsonapi.Mapper) *SettingsBuilder {
	b.settings.mapper = m
	return b
}

// WithErrorMapper replaces the error-to-document translator.
func (b *SettingsBuilder) WithErrorMapper(m jsonapi.ErrorMapper) *SettingsBuilder {
	b.settings.errorMapper = m
	return b
}

// WithJoinFilterDialect appends a global filter dialect. Dialects are tried
// in registration order.
func (b *SettingsBuilder) WithJoinFilterDialect(d filter.JoinDialect) *SettingsBuilder {
	b.settings.joinFilterDialects = append(b.settings.joinFilterDialects, d)
	return b
}

// WithSubqueryFilterDialect appends a typed filter dialect.
func (b *SettingsBuilder) WithSubqueryFilterDialect(d filter.SubqueryDialect) *SettingsBuilder {
	b.settings.subqueryFilterDialects = append(b.settings.subqueryFilterDialects, d)
	return b
}

// WithGraphQLFilterDialect sets the dialect for the GraphQL surface.
func (b *SettingsBuilder) WithGraphQLFilterDialect(d filter.Dialect) *SettingsBuilder {
	b.settings.graphqlFilterDialect = d
	return b
}

// WithDefaultMaxPageSize sets the pagination hard cap.
func (b *SettingsBuilder) WithDefaultMaxPageSize(n int) *SettingsBuilder {
	b.settings.defaultMaxPageSize = n
	return b
}

// WithDefaultPageSize sets the page size used when a request names none.
func (b *SettingsBuilder) WithDefaultPageSize(n int) *SettingsBuilder {
	b.settings.defaultPageSize = n
	return b
}

// WithUpdate200Status makes successful updates answer 200 with a body.
// The last update-status call wins.
func (b *SettingsBuilder) WithUpdate200Status() *SettingsBuilder {
	b.settings.updateStatusCode = http.StatusOK
	return b
}

// WithUpdate204Status makes successful updates answer 204 without a body.
func (b *SettingsBuilder) WithUpdate204Status() *SettingsBuilder {
	b.settings.updateStatusCode = http.StatusNoContent
	return b
}

// WithBaseURL sets the external base URL used in generated links.
func (b *SettingsBuilder) WithBaseURL(u string) *SettingsBuilder {
	b.settings.baseURL = u
	return b
}

// WithVerboseErrors swaps in the verbose permission executor, which logs
// every check decision.
func (b *SettingsBuilder) WithVerboseErrors() *SettingsBuilder {
	b.settings.executorFactory = permissions.NewVerboseExecutor
	return b
}

// WithISO8601Dates replaces the date serdes with ISO 8601 rendering in the
// given format and location. Only the date types are touched; the fixed
// serdes for time zones, URLs, UUIDs, and durations stay as they are.
func (b *SettingsBuilder) WithISO8601Dates(format string, loc *time.Location) *SettingsBuilder {
	for t, s := range serde.ISO8601Dates(format, loc) {
		b.settings.serdes[t] = s
	}
	return b
}

// WithEpochDates restores the default epoch-millisecond date serdes.
func (b *SettingsBuilder) WithEpochDates() *SettingsBuilder {
	for t, s := range serde.EpochDates() {
		b.settings.serdes[t] = s
	}
	return b
}

// WithSerde installs a serde for one target type.
func (b *SettingsBuilder) WithSerde(target reflect.Type, s serde.Serde) *SettingsBuilder {
	b.settings.serdes[target] = s
	return b
}

// WithLinks enables document links through the given generator.
func (b *SettingsBuilder) WithLinks(links jsonapi.Links) *SettingsBuilder {
	b.settings.links = links
	b.settings.linksEnabled = links != nil
	return b
}

// WithHeaderProcessor replaces the inbound header normalizer.
func (b *SettingsBuilder) WithHeaderProcessor(p HeaderProcessor) *SettingsBuilder {
	b.settings.headerProcessor = p
	return b
}

// WithJSONAPIPath overrides the JSON:API mount path.
func (b *SettingsBuilder) WithJSONAPIPath(path string) *SettingsBuilder {
	b.settings.jsonAPIPath = path
	return b
}

// WithGraphQLAPIPath overrides the GraphQL mount path.
func (b *SettingsBuilder) WithGraphQLAPIPath(path string) *SettingsBuilder {
	b.settings.graphQLAPIPath = path
	return b
}

// WithExportAPIPath overrides the export mount path.
func (b *SettingsBuilder) WithExportAPIPath(path string) *SettingsBuilder {
	b.settings.exportAPIPath = path
	return b
}

// WithStrictQueryParams controls whether unrecognized query parameters
// reject a request.
func (b *SettingsBuilder) WithStrictQueryParams(strict bool) *SettingsBuilder {
	b.settings.strictQueryParams = strict
	return b
}

// Build validates the configuration and returns the settings. An absent
// entity dictionary is a configuration error. Filter dialect lists left
// empty default to the equality dialect followed by RSQL, both bound to
// the dictionary; an unset GraphQL dialect defaults to RSQL.
func (b *SettingsBuilder) Build() (*Settings, error) {
	if b.settings.dictionary == nil {
		return nil, errors.NewConfigurationError("entityDictionary",
			"an entity dictionary is required; call WithEntityDictionary before Build")
	}

	if len(b.settings.joinFilterDialects) == 0 {
		b.settings.joinFilterDialects = []filter.JoinDialect{
			filter.NewEqualityDialect(b.settings.dictionary),
			filter.NewRSQLDialect(b.settings.dictionary),
		}
	}
	if len(b.settings.subqueryFilterDialects) == 0 {
		b.settings.subqueryFilterDialects = []filter.SubqueryDialect{
			filter.NewEqualityDialect(b.settings.dictionary),
			filter.NewRSQLDialect(b.settings.dictionary),
		}
	}
	if b.settings.graphqlFilterDialect == nil {
		b.settings.graphqlFilterDialect = filter.NewRSQLDialect(b.settings.dictionary)
	}

	// Detach the shared slice and map state so builder mutations after
	// Build cannot reach into the returned settings.
	built := b.settings
	built.joinFilterDialects = append([]filter.JoinDialect(nil), b.settings.joinFilterDialects...)
	built.subqueryFilterDialects = append([]filter.SubqueryDialect(nil), b.settings.subqueryFilterDialects...)
	built.serdes = make(map[reflect.Type]serde.Serde, len(b.settings.serdes))
	for t, sd := range b.settings.serdes {
		built.serdes[t] = sd
	}
	return &built, nil
}
