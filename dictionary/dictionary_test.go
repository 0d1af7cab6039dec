/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package dictionary

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/suparena/entityapi/errors"
)

type dictAccount struct {
	ID    uuid.UUID `json:"id" entityapi:"id"`
	Email string    `json:"email"`
}

type dictProfile struct {
	ID      uuid.UUID    `json:"id" entityapi:"id"`
	Bio     string       `json:"bio"`
	Score   int          `json:"score"`
	Account *dictAccount `json:"account" entityapi:"toOne,shared,entity=account"`

	internal string // must be skipped by derivation
}

func newTestDictionary(t *testing.T) (*EntityDictionary, *Binding) {
	t.Helper()
	d := NewEntityDictionary()
	if _, err := Register[dictAccount](d, "account"); err != nil {
		t.Fatalf("Register account failed: %v", err)
	}
	b, err := Register[dictProfile](d, "accountProfile",
		WithMarkers("include"),
		WithCheck("update", "ownerOnly"),
	)
	if err != nil {
		t.Fatalf("Register accountProfile failed: %v", err)
	}
	return d, b
}

func TestRegisterDerivesBinding(t *testing.T) {
	_, b := newTestDictionary(t)

	if b.IDField != "ID" {
		t.Errorf("expected IDField ID, got %q", b.IDField)
	}
	if _, ok := b.Attributes["bio"]; !ok {
		t.Error("expected bio attribute")
	}
	if _, ok := b.Attributes["internal"]; ok {
		t.Error("unexported field must not become an attribute")
	}

	rel, ok := b.Relationships["account"]
	if !ok {
		t.Fatal("expected account relationship")
	}
	if rel.ToMany {
		t.Error("account relationship should be to-one")
	}
	if !rel.SharedPrimaryKey {
		t.Error("account relationship should share the primary key")
	}
	if rel.Entity != "account" {
		t.Errorf("unexpected relationship target: %q", rel.Entity)
	}

	if len(b.Markers) != 1 || b.Markers[0] != "include" {
		t.Errorf("unexpected markers: %v", b.Markers)
	}
	if b.Checks["update"] != "ownerOnly" {
		t.Errorf("unexpected checks: %v", b.Checks)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	d, _ := newTestDictionary(t)
	if _, err := Register[dictAccount](d, "account"); !errors.IsAlreadyExists(err) {
		t.Errorf("expected already-exists error, got %v", err)
	}
}

func TestBindingAccessors(t *testing.T) {
	d, b := newTestDictionary(t)

	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	p := &dictProfile{ID: id, Bio: "hello", Score: 7}

	got, err := b.ID(p)
	if err != nil {
		t.Fatalf("ID failed: %v", err)
	}
	if got != id.String() {
		t.Errorf("expected %s, got %s", id, got)
	}

	if v, ok := b.Get(p, "bio"); !ok || v != "hello" {
		t.Errorf("Get(bio) = %v, %v", v, ok)
	}
	if _, ok := b.Get(p, "nope"); ok {
		t.Error("Get of unknown attribute must fail")
	}

	if err := b.Set(p, "score", 42); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if p.Score != 42 {
		t.Errorf("expected 42, got %d", p.Score)
	}
	if err := b.Set(p, "unknown", 1); !errors.IsValidationError(err) {
		t.Errorf("expected validation error, got %v", err)
	}

	if _, ok := d.BindingFor(p); !ok {
		t.Error("BindingFor should resolve pointer records")
	}
}

func TestFieldGetterSkipsNilPointers(t *testing.T) {
	_, b := newTestDictionary(t)
	get := b.FieldGetter(&dictProfile{Bio: "x"})

	if _, ok := get("account"); ok {
		t.Error("relationships are not attribute lookups")
	}
	if v, ok := get("bio"); !ok || v != "x" {
		t.Errorf("get(bio) = %v, %v", v, ok)
	}
}

func TestHasFieldTraversesRelationships(t *testing.T) {
	d, _ := newTestDictionary(t)

	tests := []struct {
		entity string
		path   string
		want   bool
	}{
		{"accountProfile", "bio", true},
		{"accountProfile", "account", true},
		{"accountProfile", "account.email", true},
		{"accountProfile", "account.nope", false},
		{"accountProfile", "bio.extra", false},
		{"accountProfile", "missing", false},
		{"ghost", "bio", false},
	}
	for _, tt := range tests {
		if got := d.HasField(tt.entity, tt.path); got != tt.want {
			t.Errorf("HasField(%s, %s) = %v, want %v", tt.entity, tt.path, got, tt.want)
		}
	}
}

func TestChecksRegistry(t *testing.T) {
	d, _ := newTestDictionary(t)

	if err := d.RegisterCheck("ownerOnly", func(context.Context, any) bool { return true }); err != nil {
		t.Fatalf("RegisterCheck failed: %v", err)
	}
	if err := d.RegisterCheck("ownerOnly", func(context.Context, any) bool { return false }); !errors.IsAlreadyExists(err) {
		t.Errorf("expected already-exists error, got %v", err)
	}

	check, ok := d.Check("ownerOnly")
	if !ok {
		t.Fatal("check not found")
	}
	if !check(context.Background(), nil) {
		t.Error("unexpected check result")
	}
}
