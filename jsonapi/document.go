/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package jsonapi

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Resource is a single JSON:API resource object.
type Resource struct {
	Type          string                   `json:"type"`
	ID            string                   `json:"id,omitempty"`
	Attributes    map[string]any           `json:"attributes,omitempty"`
	Relationships map[string]*Relationship `json:"relationships,omitempty"`
	Links         map[string]string        `json:"links,omitempty"`
}

// ResourceIdentifier names a resource without carrying its attributes.
type ResourceIdentifier struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// Relationship is the relationship object under a resource's
// "relationships" member. Data distinguishes to-one (object or null)
// from to-many (array) linkage.
type Relationship struct {
	Data  *RelationshipData `json:"data"`
	Links map[string]string `json:"links,omitempty"`
}

// RelationshipData holds relationship linkage, either a single identifier
// for to-one or a list for to-many. A to-one with a nil identifier renders
// as JSON null.
type RelationshipData struct {
	one    *ResourceIdentifier
	many   []ResourceIdentifier
	isMany bool
}

// ToOne builds to-one linkage. A nil identifier is valid and means the
// relationship is empty.
func ToOne(id *ResourceIdentifier) *RelationshipData {
	return &RelationshipData{one: id}
}

// ToMany builds to-many linkage.
func ToMany(ids []ResourceIdentifier) *RelationshipData {
	return &RelationshipData{many: ids, isMany: true}
}

// One returns the to-one identifier. ok is false for to-many linkage. A nil
// receiver reports an empty to-one: decoding "data": null leaves the
// Relationship.Data pointer nil.
func (d *RelationshipData) One() (*ResourceIdentifier, bool) {
	if d == nil {
		return nil, true
	}
	if d.isMany {
		return nil, false
	}
	return d.one, true
}

// Many returns the to-many identifiers. ok is false for to-one linkage.
func (d *RelationshipData) Many() ([]ResourceIdentifier, bool) {
	if d == nil || !d.isMany {
		return nil, false
	}
	return d.many, true
}

func (d *RelationshipData) MarshalJSON() ([]byte, error) {
	if d.isMany {
		if d.many == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(d.many)
	}
	if d.one == nil {
		return []byte("null"), nil
	}
	return json.Marshal(d.one)
}

func (d *RelationshipData) UnmarshalJSON(raw []byte) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return fmt.Errorf("empty relationship data")
	}
	switch trimmed[0] {
	case '[':
		d.isMany = true
		return json.Unmarshal(trimmed, &d.many)
	case 'n':
		d.one = nil
		return nil
	default:
		d.one = new(ResourceIdentifier)
		return json.Unmarshal(trimmed, d.one)
	}
}

// PrimaryData is a document's primary data, either a single resource or a
// resource collection. The wire form is an object for single data and an
// array for collections.
type PrimaryData struct {
	one    *Resource
	many   []*Resource
	isMany bool
}

// SingleData wraps one resource as primary data.
func SingleData(r *Resource) *PrimaryData {
	return &PrimaryData{one: r}
}

// CollectionData wraps a resource list as primary data.
func CollectionData(rs []*Resource) *PrimaryData {
	return &PrimaryData{many: rs, isMany: true}
}

// One returns the single resource. ok is false for collection data.
func (d *PrimaryData) One() (*Resource, bool) {
	if d == nil || d.isMany {
		return nil, false
	}
	return d.one, true
}

// Many returns the resource collection. ok is false for single data.
func (d *PrimaryData) Many() ([]*Resource, bool) {
	if d == nil || !d.isMany {
		return nil, false
	}
	return d.many, true
}

func (d *PrimaryData) MarshalJSON() ([]byte, error) {
	if d.isMany {
		if d.many == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(d.many)
	}
	if d.one == nil {
		return []byte("null"), nil
	}
	return json.Marshal(d.one)
}

func (d *PrimaryData) UnmarshalJSON(raw []byte) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return fmt.Errorf("empty primary data")
	}
	switch trimmed[0] {
	case '[':
		d.isMany = true
		return json.Unmarshal(trimmed, &d.many)
	case 'n':
		d.one = nil
		return nil
	default:
		d.one = new(Resource)
		return json.Unmarshal(trimmed, d.one)
	}
}

// ErrorObject is a JSON:API error object.
type ErrorObject struct {
	ID     string `json:"id,omitempty"`
	Status string `json:"status,omitempty"`
	Code   string `json:"code,omitempty"`
	Title  string `json:"title,omitempty"`
	Detail string `json:"detail,omitempty"`
}

func (e *ErrorObject) Error() string {
	return fmt.Sprintf("%s: %s", e.Title, e.Detail)
}

// Document is a top-level JSON:API document.
type Document struct {
	Data     *PrimaryData      `json:"data,omitempty"`
	Errors   []*ErrorObject    `json:"errors,omitempty"`
	Included []*Resource       `json:"included,omitempty"`
	Meta     map[string]any    `json:"meta,omitempty"`
	Links    map[string]string `json:"links,omitempty"`
}

// NewDocument builds a document around a single resource.
func NewDocument(r *Resource) *Document {
	return &Document{Data: SingleData(r)}
}

// NewCollectionDocument builds a document around a resource collection.
func NewCollectionDocument(rs []*Resource) *Document {
	return &Document{Data: CollectionData(rs)}
}

// NewErrorDocument builds a document carrying only error objects.
func NewErrorDocument(errs ...*ErrorObject) *Document {
	return &Document{Errors: errs}
}

// Links generates document and resource level links. Implementations are
// installed through the settings builder; a nil generator disables links.
type Links interface {
	// ResourceLinks returns the links for one resource, keyed by link
	// name (typically "self").
	ResourceLinks(resourceType, id string) map[string]string

	// RelationshipLinks returns the links for a relationship of a
	// resource, keyed by link name ("self", "related").
	RelationshipLinks(resourceType, id, relation string) map[string]string
}
