/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package dictionary

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/suparena/entityapi/errors"
)

// Check is a named permission predicate evaluated against one resource.
type Check func(ctx context.Context, resource any) bool

// Relationship describes one exposed relationship of an entity.
type Relationship struct {
	// Name is the exposed relationship name.
	Name string
	// Entity is the exposed name of the target entity.
	Entity string
	// ToMany is true for collection-valued relationships.
	ToMany bool
	// SharedPrimaryKey is true when the relationship is resolved by sharing
	// the primary key with the target entity.
	SharedPrimaryKey bool
	// Field is the Go struct field backing the relationship.
	Field string
}

// Binding is the dictionary record for one exposed entity type.
type Binding struct {
	// Name is the exposed entity name (the JSON API type).
	Name string
	// Type is the Go struct type.
	Type reflect.Type
	// IDField is the struct field carrying the identity.
	IDField string
	// Attributes maps exposed attribute names to their field types.
	Attributes map[string]reflect.Type
	// Relationships maps exposed relationship names to their descriptions.
	Relationships map[string]Relationship
	// Markers records the registration markers the type carried in the scan
	// manifest.
	Markers []string
	// Checks maps operation names ("read", "create", ...) to check names.
	Checks map[string]string

	// fields maps exposed attribute names to struct field names.
	fields map[string]string
	// idAttr is the exposed name of the identity attribute.
	idAttr string
}

// IDAttribute returns the exposed name of the identity attribute.
func (b *Binding) IDAttribute() string {
	return b.idAttr
}

// New returns a pointer to a zero value of the bound type.
func (b *Binding) New() any {
	return reflect.New(b.Type).Interface()
}

// ID extracts the identity of v as a string.
func (b *Binding) ID(v any) (string, error) {
	rv, err := b.structValue(v)
	if err != nil {
		return "", err
	}
	f := rv.FieldByName(b.IDField)
	if !f.IsValid() {
		return "", fmt.Errorf("entity %q has no field %q", b.Name, b.IDField)
	}
	return fmt.Sprint(f.Interface()), nil
}

// Get reads the attribute with the given exposed name from v.
// The second return is false when the attribute is unknown or nil.
func (b *Binding) Get(v any, name string) (any, bool) {
	fieldName, ok := b.fields[name]
	if !ok {
		return nil, false
	}
	rv, err := b.structValue(v)
	if err != nil {
		return nil, false
	}
	f := rv.FieldByName(fieldName)
	if !f.IsValid() {
		return nil, false
	}
	if f.Kind() == reflect.Pointer {
		if f.IsNil() {
			return nil, false
		}
		f = f.Elem()
	}
	return f.Interface(), true
}

// Set writes the attribute with the given exposed name on v, which must be a
// pointer to the bound type. The value must already be coerced to the field
// type (see the serde package).
func (b *Binding) Set(v any, name string, value any) error {
	fieldName, ok := b.fields[name]
	if !ok {
		return errors.NewValidationError(name, "unknown attribute for entity "+b.Name)
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.Elem().Type() != b.Type {
		return fmt.Errorf("Set requires *%s, got %T", b.Type, v)
	}
	f := rv.Elem().FieldByName(fieldName)
	if !f.CanSet() {
		return fmt.Errorf("field %q of %s is not settable", fieldName, b.Type)
	}
	return assign(f, name, value)
}

func assign(f reflect.Value, name string, value any) error {
	if value == nil {
		f.Set(reflect.Zero(f.Type()))
		return nil
	}
	val := reflect.ValueOf(value)

	// Allocate through pointer fields.
	if f.Kind() == reflect.Pointer && val.Kind() != reflect.Pointer {
		p := reflect.New(f.Type().Elem())
		if err := assign(p.Elem(), name, value); err != nil {
			return err
		}
		f.Set(p)
		return nil
	}

	switch {
	case val.Type().AssignableTo(f.Type()):
		f.Set(val)
	case val.Type().ConvertibleTo(f.Type()):
		f.Set(val.Convert(f.Type()))
	default:
		return errors.NewValidationError(name,
			fmt.Sprintf("cannot assign %T to %s", value, f.Type()))
	}
	return nil
}

// AttributeType returns the field type of an exposed attribute.
func (b *Binding) AttributeType(name string) (reflect.Type, bool) {
	t, ok := b.Attributes[name]
	return t, ok
}

// AttributeNames returns the exposed attribute names, sorted.
func (b *Binding) AttributeNames() []string {
	names := make([]string, 0, len(b.Attributes))
	for n := range b.Attributes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// FieldGetter adapts a record of the bound type to attribute lookups keyed by
// exposed names. Used when evaluating filter expressions in memory.
func (b *Binding) FieldGetter(v any) func(string) (any, bool) {
	return func(name string) (any, bool) {
		return b.Get(v, name)
	}
}

func (b *Binding) structValue(v any) (reflect.Value, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return reflect.Value{}, fmt.Errorf("nil %s", b.Type)
		}
		rv = rv.Elem()
	}
	if rv.Type() != b.Type {
		return reflect.Value{}, fmt.Errorf("expected %s, got %T", b.Type, v)
	}
	return rv, nil
}

// EntityDictionary maps exposed model types to their bindings. It is an
// explicit instance threaded through configuration, not package state.
type EntityDictionary struct {
	mu     sync.RWMutex
	byName map[string]*Binding
	byType map[reflect.Type]*Binding
	checks map[string]Check
}

// NewEntityDictionary returns an empty dictionary.
func NewEntityDictionary() *EntityDictionary {
	return &EntityDictionary{
		byName: make(map[string]*Binding),
		byType: make(map[reflect.Type]*Binding),
		checks: make(map[string]Check),
	}
}

// BindingOption customizes a binding at registration time.
type BindingOption func(*Binding)

// WithMarkers records the markers the type carried during the scan.
func WithMarkers(markers ...string) BindingOption {
	return func(b *Binding) {
		b.Markers = append(b.Markers, markers...)
	}
}

// WithCheck binds an operation ("read", "create", "update", "delete") to a
// named check registered on the dictionary.
func WithCheck(operation, checkName string) BindingOption {
	return func(b *Binding) {
		b.Checks[operation] = checkName
	}
}

// Register derives a binding for T from its struct tags and adds it to the
// dictionary under the given exposed name.
//
// Attribute names come from `json` tags. The `entityapi` tag marks the
// identity field ("id") and relationships ("toOne"/"toMany", with optional
// "shared" for shared-primary-key resolution and "entity=<name>" to override
// the target entity name).
func Register[T any](d *EntityDictionary, name string, opts ...BindingOption) (*Binding, error) {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil || t.Kind() != reflect.Struct {
		return nil, errors.NewValidationError(name, "entity type must be a struct")
	}

	b, err := deriveBinding(name, t)
	if err != nil {
		return nil, err
	}
	for _, opt := range opts {
		opt(b)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.byName[name]; exists {
		return nil, errors.NewAlreadyExistsError("entity binding", name)
	}
	d.byName[name] = b
	d.byType[t] = b
	return b, nil
}

func deriveBinding(name string, t reflect.Type) (*Binding, error) {
	b := &Binding{
		Name:          name,
		Type:          t,
		Attributes:    make(map[string]reflect.Type),
		Relationships: make(map[string]Relationship),
		Checks:        make(map[string]string),
		fields:        make(map[string]string),
	}

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}

		exposed := exposedName(f)
		if exposed == "-" {
			continue
		}

		tokens := tagTokens(f.Tag.Get("entityapi"))
		switch {
		case tokens["id"]:
			b.IDField = f.Name
			b.idAttr = exposed
			b.Attributes[exposed] = f.Type
			b.fields[exposed] = f.Name

		case tokens["toOne"] || tokens["toMany"]:
			rel := Relationship{
				Name:             exposed,
				Entity:           tokens.value("entity"),
				ToMany:           tokens["toMany"],
				SharedPrimaryKey: tokens["shared"],
				Field:            f.Name,
			}
			if rel.Entity == "" {
				rel.Entity = strings.ToLower(relTargetName(f.Type))
			}
			b.Relationships[exposed] = rel

		default:
			b.Attributes[exposed] = f.Type
			b.fields[exposed] = f.Name
		}
	}

	if b.IDField == "" {
		f, ok := t.FieldByName("ID")
		if !ok {
			return nil, errors.NewValidationError(name, "entity has no identity field")
		}
		b.IDField = "ID"
		b.idAttr = exposedName(f)
	}
	return b, nil
}

func exposedName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if tag == "" {
		return strings.ToLower(f.Name[:1]) + f.Name[1:]
	}
	name := strings.Split(tag, ",")[0]
	if name == "" {
		return strings.ToLower(f.Name[:1]) + f.Name[1:]
	}
	return name
}

type tokenSet map[string]bool

func (s tokenSet) value(key string) string {
	for tok := range s {
		if strings.HasPrefix(tok, key+"=") {
			return strings.TrimPrefix(tok, key+"=")
		}
	}
	return ""
}

func tagTokens(tag string) tokenSet {
	set := make(tokenSet)
	for _, tok := range strings.Split(tag, ",") {
		tok = strings.TrimSpace(tok)
		if tok != "" {
			set[tok] = true
		}
	}
	return set
}

func relTargetName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer || t.Kind() == reflect.Slice {
		t = t.Elem()
	}
	return t.Name()
}

// BindingByName looks up a binding by its exposed entity name.
func (d *EntityDictionary) BindingByName(name string) (*Binding, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	b, ok := d.byName[name]
	return b, ok
}

// BindingFor looks up the binding of a record's dynamic type.
func (d *EntityDictionary) BindingFor(v any) (*Binding, bool) {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	b, ok := d.byType[t]
	return b, ok
}

// Names returns all exposed entity names, sorted.
func (d *EntityDictionary) Names() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	names := make([]string, 0, len(d.byName))
	for n := range d.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// HasField reports whether the (possibly dotted) field path is valid for the
// named entity, traversing relationships for intermediate segments.
func (d *EntityDictionary) HasField(entityName, path string) bool {
	b, ok := d.BindingByName(entityName)
	if !ok {
		return false
	}
	segments := strings.Split(path, ".")
	for i, seg := range segments {
		last := i == len(segments)-1
		if _, ok := b.Attributes[seg]; ok {
			return last
		}
		rel, ok := b.Relationships[seg]
		if !ok {
			return false
		}
		if last {
			return true
		}
		b, ok = d.BindingByName(rel.Entity)
		if !ok {
			return false
		}
	}
	return false
}

// RegisterCheck adds a named permission check.
func (d *EntityDictionary) RegisterCheck(name string, check Check) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.checks[name]; exists {
		return errors.NewAlreadyExistsError("check", name)
	}
	d.checks[name] = check
	return nil
}

// Check returns the named permission check.
func (d *EntityDictionary) Check(name string) (Check, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	c, ok := d.checks[name]
	return c, ok
}
