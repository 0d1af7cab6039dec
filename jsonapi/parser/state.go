/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package parser

import (
	"context"
	"net/http"
	"reflect"

	"github.com/suparena/entityapi/audit"
	"github.com/suparena/entityapi/datastore"
	"github.com/suparena/entityapi/dictionary"
	"github.com/suparena/entityapi/errors"
	"github.com/suparena/entityapi/jsonapi"
	"github.com/suparena/entityapi/pagination"
	"github.com/suparena/entityapi/request"
	"github.com/suparena/entityapi/serde"
)

// StateContext is the shared entry point behind the verb visitors. It walks
// from the request scope through the entity dictionary to the registered
// datastore, renders documents, evaluates permission checks, and records
// audit messages.
type StateContext struct {
	ctx   context.Context
	scope *request.Scope
}

// NewStateContext binds a state context to one request.
func NewStateContext(ctx context.Context, scope *request.Scope) *StateContext {
	return &StateContext{ctx: ctx, scope: scope}
}

// Scope returns the request scope.
func (s *StateContext) Scope() *request.Scope { return s.scope }

// failure renders an error through the settings' error mapper.
func (s *StateContext) failure(err error) (int, *jsonapi.Document) {
	obj := s.scope.Settings().ErrorMapper()(err)
	return jsonapi.StatusOf(obj), jsonapi.NewErrorDocument(obj)
}

// accessor resolves the datastore registered for an entity type. Stores are
// registered through datastore.Register (or wrapped in datastore.Adapt).
func (s *StateContext) accessor(entityType string) (datastore.Accessor, error) {
	acc, err := datastore.AccessorFor(s.scope.Settings().Storage(), entityType)
	if err != nil {
		if errors.IsInvalidConfiguration(err) {
			return nil, err
		}
		return nil, errors.NewNotFoundError(entityType, "")
	}
	return acc, nil
}

func (s *StateContext) binding(entityType string) (*dictionary.Binding, error) {
	b, ok := s.scope.Settings().EntityDictionary().BindingByName(entityType)
	if !ok {
		return nil, errors.NewUnknownEntityError(entityType)
	}
	return b, nil
}

// checkPermission evaluates the check bound to an operation, when one is.
func (s *StateContext) checkPermission(b *dictionary.Binding, operation string, record any) error {
	checkName, bound := b.Checks[operation]
	if !bound {
		return nil
	}
	return s.scope.Executor().CheckPermission(s.ctx, checkName, b.Name, record)
}

// collectionTotal counts the records matching the scope's filter with the
// page window removed, for page[totals] requests.
func (s *StateContext) collectionTotal(acc datastore.Accessor) (int, error) {
	params := *s.scope.QueryParams()
	params.Page = pagination.Pagination{}
	records, err := acc.FindMany(s.ctx, &params)
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

// auditAndCommit buffers one message and flushes it in the same step. The
// settings' audit logger is shared across requests, so handlers must not
// leave messages buffered across a failure; they log only after the store
// write has succeeded. Logger.Clear is the abort path for request-scoped
// loggers that buffer as an operation progresses.
func (s *StateContext) auditAndCommit(operation, entity, key string) error {
	logger := s.scope.Settings().AuditLogger()
	logger.Log(s.ctx, audit.Message{
		Operation: operation,
		Entity:    entity,
		Key:       key,
		Text:      operation + " " + entity + "/" + key,
	})
	return logger.Commit(s.ctx)
}

// HandleGet produces the deferred fetch computation: one resource when the
// query names an identity, the relationship linkage when it names one, and
// the filtered collection otherwise.
func (s *StateContext) HandleGet(q *QueryContext) Deferred {
	return func() (int, *jsonapi.Document) {
		b, err := s.binding(q.EntityType)
		if err != nil {
			return s.failure(err)
		}
		acc, err := s.accessor(q.EntityType)
		if err != nil {
			return s.failure(err)
		}

		if q.ID == "" {
			records, err := acc.FindMany(s.ctx, s.scope.QueryParams())
			if err != nil {
				return s.failure(err)
			}
			resources := make([]*jsonapi.Resource, 0, len(records))
			for _, rec := range records {
				if err := s.checkPermission(b, "read", rec); err != nil {
					return s.failure(err)
				}
				res, err := s.toResource(b, rec)
				if err != nil {
					return s.failure(err)
				}
				resources = append(resources, res)
			}
			doc := jsonapi.NewCollectionDocument(resources)
			if s.scope.Pagination().RequestTotals {
				total, err := s.collectionTotal(acc)
				if err != nil {
					return s.failure(err)
				}
				doc.Meta = map[string]any{"count": total}
			}
			return http.StatusOK, doc
		}

		record, err := acc.FindOne(s.ctx, q.ID)
		if err != nil {
			return s.failure(err)
		}
		if err := s.checkPermission(b, "read", record); err != nil {
			return s.failure(err)
		}

		if q.Relationship != "" {
			doc, err := s.relationshipDocument(b, record, q.ID, q.Relationship)
			if err != nil {
				return s.failure(err)
			}
			return http.StatusOK, doc
		}

		res, err := s.toResource(b, record)
		if err != nil {
			return s.failure(err)
		}
		return http.StatusOK, jsonapi.NewDocument(res)
	}
}

// HandlePost produces the deferred create computation.
func (s *StateContext) HandlePost(q *QueryContext) Deferred {
	return func() (int, *jsonapi.Document) {
		b, err := s.binding(q.EntityType)
		if err != nil {
			return s.failure(err)
		}
		acc, err := s.accessor(q.EntityType)
		if err != nil {
			return s.failure(err)
		}

		res, err := primaryResource(q.Document)
		if err != nil {
			return s.failure(err)
		}

		entity := b.New()
		if res.ID != "" {
			if err := s.setAttribute(b, entity, b.IDAttribute(), res.ID); err != nil {
				return s.failure(err)
			}
		}
		for name, raw := range res.Attributes {
			if err := s.setAttribute(b, entity, name, raw); err != nil {
				return s.failure(err)
			}
		}

		if err := s.checkPermission(b, "create", entity); err != nil {
			return s.failure(err)
		}
		if err := acc.Save(s.ctx, entity); err != nil {
			return s.failure(err)
		}

		id, err := b.ID(entity)
		if err != nil {
			return s.failure(err)
		}
		if err := s.auditAndCommit("create", b.Name, id); err != nil {
			return s.failure(err)
		}

		created, err := s.toResource(b, entity)
		if err != nil {
			return s.failure(err)
		}
		return http.StatusCreated, jsonapi.NewDocument(created)
	}
}

// HandlePatch produces the deferred update computation. The success status
// follows the settings: 204 without a body, or 200 with the updated
// resource.
func (s *StateContext) HandlePatch(q *QueryContext) Deferred {
	return func() (int, *jsonapi.Document) {
		if q.ID == "" {
			return s.failure(errors.NewValidationError("path", "update requires a resource identity"))
		}
		b, err := s.binding(q.EntityType)
		if err != nil {
			return s.failure(err)
		}
		acc, err := s.accessor(q.EntityType)
		if err != nil {
			return s.failure(err)
		}

		res, err := primaryResource(q.Document)
		if err != nil {
			return s.failure(err)
		}

		existing, err := acc.FindOne(s.ctx, q.ID)
		if err != nil {
			return s.failure(err)
		}
		if err := s.checkPermission(b, "update", existing); err != nil {
			return s.failure(err)
		}

		updates := make(map[string]any, len(res.Attributes))
		for name, raw := range res.Attributes {
			coerced, err := s.coerce(b, name, raw)
			if err != nil {
				return s.failure(err)
			}
			updates[name] = coerced
		}
		if err := acc.Update(s.ctx, q.ID, updates); err != nil {
			return s.failure(err)
		}
		if err := s.auditAndCommit("update", b.Name, q.ID); err != nil {
			return s.failure(err)
		}

		if s.scope.Settings().UpdateStatusCode() == http.StatusNoContent {
			return http.StatusNoContent, nil
		}
		updated, err := acc.FindOne(s.ctx, q.ID)
		if err != nil {
			return s.failure(err)
		}
		out, err := s.toResource(b, updated)
		if err != nil {
			return s.failure(err)
		}
		return http.StatusOK, jsonapi.NewDocument(out)
	}
}

// HandleDelete produces the deferred delete computation.
func (s *StateContext) HandleDelete(q *QueryContext) Deferred {
	return func() (int, *jsonapi.Document) {
		if q.ID == "" {
			return s.failure(errors.NewValidationError("path", "delete requires a resource identity"))
		}
		b, err := s.binding(q.EntityType)
		if err != nil {
			return s.failure(err)
		}
		acc, err := s.accessor(q.EntityType)
		if err != nil {
			return s.failure(err)
		}

		existing, err := acc.FindOne(s.ctx, q.ID)
		if err != nil {
			return s.failure(err)
		}
		if err := s.checkPermission(b, "delete", existing); err != nil {
			return s.failure(err)
		}
		if err := acc.Remove(s.ctx, q.ID); err != nil {
			return s.failure(err)
		}
		if err := s.auditAndCommit("delete", b.Name, q.ID); err != nil {
			return s.failure(err)
		}
		return http.StatusNoContent, nil
	}
}

// primaryResource extracts the single primary resource of a request payload.
func primaryResource(doc *jsonapi.Document) (*jsonapi.Resource, error) {
	if doc == nil || doc.Data == nil {
		return nil, errors.NewValidationError("data", "request document has no primary data")
	}
	res, ok := doc.Data.One()
	if !ok || res == nil {
		return nil, errors.NewValidationError("data", "request document must carry a single resource")
	}
	return res, nil
}

// setAttribute coerces a document value and writes it to the entity, which
// must be a pointer to the bound type.
func (s *StateContext) setAttribute(b *dictionary.Binding, entity any, name string, raw any) error {
	coerced, err := s.coerce(b, name, raw)
	if err != nil {
		return err
	}
	return b.Set(entity, name, coerced)
}

func (s *StateContext) coerce(b *dictionary.Binding, name string, raw any) (any, error) {
	target, ok := b.AttributeType(name)
	if !ok {
		return nil, errors.NewValidationError(name, "unknown attribute for entity "+b.Name)
	}
	serdes := s.scope.Settings().Serdes()
	if _, hit := serdes[target]; hit {
		return serde.Coerce(serdes, target, raw)
	}
	for target.Kind() == reflect.Pointer {
		target = target.Elem()
	}
	return serde.Coerce(serdes, target, raw)
}

// toResource renders an entity as a JSON:API resource through the binding
// and the configured serdes.
func (s *StateContext) toResource(b *dictionary.Binding, entity any) (*jsonapi.Resource, error) {
	id, err := b.ID(entity)
	if err != nil {
		return nil, err
	}

	serdes := s.scope.Settings().Serdes()
	attrs := make(map[string]any)
	for _, name := range b.AttributeNames() {
		if name == b.IDAttribute() {
			continue
		}
		v, ok := b.Get(entity, name)
		if !ok {
			continue
		}
		rendered, err := serde.Render(serdes, v)
		if err != nil {
			return nil, err
		}
		attrs[name] = rendered
	}

	res := &jsonapi.Resource{
		Type:       b.Name,
		ID:         id,
		Attributes: attrs,
	}

	rels, err := s.relationshipsOf(b, entity, id)
	if err != nil {
		return nil, err
	}
	if len(rels) > 0 {
		res.Relationships = rels
	}

	if s.scope.Settings().LinksEnabled() {
		res.Links = s.scope.Settings().Links().ResourceLinks(b.Name, id)
	}
	return res, nil
}

// relationshipsOf builds the linkage for every declared relationship. A
// shared-primary-key to-one reuses the owner's identity; other linkage reads
// the related record's identity through its own binding.
func (s *StateContext) relationshipsOf(b *dictionary.Binding, entity any, ownerID string) (map[string]*jsonapi.Relationship, error) {
	if len(b.Relationships) == 0 {
		return nil, nil
	}

	rv := reflect.ValueOf(entity)
	for rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}

	out := make(map[string]*jsonapi.Relationship, len(b.Relationships))
	for name, rel := range b.Relationships {
		f := rv.FieldByName(rel.Field)
		linkage, err := s.linkageFor(rel, f, ownerID)
		if err != nil {
			return nil, err
		}
		r := &jsonapi.Relationship{Data: linkage}
		if s.scope.Settings().LinksEnabled() {
			r.Links = s.scope.Settings().Links().RelationshipLinks(b.Name, ownerID, name)
		}
		out[name] = r
	}
	return out, nil
}

func (s *StateContext) linkageFor(rel dictionary.Relationship, f reflect.Value, ownerID string) (*jsonapi.RelationshipData, error) {
	if rel.ToMany {
		if !f.IsValid() || f.IsNil() {
			return jsonapi.ToMany(nil), nil
		}
		ids := make([]jsonapi.ResourceIdentifier, 0, f.Len())
		for i := 0; i < f.Len(); i++ {
			id, err := s.relatedID(rel, f.Index(i))
			if err != nil {
				return nil, err
			}
			ids = append(ids, jsonapi.ResourceIdentifier{Type: rel.Entity, ID: id})
		}
		return jsonapi.ToMany(ids), nil
	}

	if !f.IsValid() || (f.Kind() == reflect.Pointer && f.IsNil()) {
		return jsonapi.ToOne(nil), nil
	}
	if rel.SharedPrimaryKey {
		return jsonapi.ToOne(&jsonapi.ResourceIdentifier{Type: rel.Entity, ID: ownerID}), nil
	}
	id, err := s.relatedID(rel, f)
	if err != nil {
		return nil, err
	}
	return jsonapi.ToOne(&jsonapi.ResourceIdentifier{Type: rel.Entity, ID: id}), nil
}

func (s *StateContext) relatedID(rel dictionary.Relationship, f reflect.Value) (string, error) {
	target, ok := s.scope.Settings().EntityDictionary().BindingByName(rel.Entity)
	if !ok {
		return "", errors.NewConfigurationError(rel.Entity,
			"relationship target is not registered in the dictionary")
	}
	return target.ID(f.Interface())
}

// relationshipDocument renders the linkage of one named relationship.
func (s *StateContext) relationshipDocument(b *dictionary.Binding, record any, id, relationship string) (*jsonapi.Document, error) {
	rel, ok := b.Relationships[relationship]
	if !ok {
		return nil, errors.NewNotFoundError(b.Name+"."+relationship, id)
	}

	rv := reflect.ValueOf(record)
	for rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	linkage, err := s.linkageFor(rel, rv.FieldByName(rel.Field), id)
	if err != nil {
		return nil, err
	}

	if ids, ok := linkage.Many(); ok {
		resources := make([]*jsonapi.Resource, 0, len(ids))
		for _, rid := range ids {
			resources = append(resources, &jsonapi.Resource{Type: rid.Type, ID: rid.ID})
		}
		return jsonapi.NewCollectionDocument(resources), nil
	}
	one, _ := linkage.One()
	if one == nil {
		return jsonapi.NewDocument(nil), nil
	}
	return jsonapi.NewDocument(&jsonapi.Resource{Type: one.Type, ID: one.ID}), nil
}
