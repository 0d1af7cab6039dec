/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package filter

import (
	"testing"
)

func getterFor(record map[string]any) FieldGetter {
	return func(field string) (any, bool) {
		v, ok := record[field]
		if !ok || v == nil {
			return nil, false
		}
		return v, true
	}
}

func TestPredicateMatches(t *testing.T) {
	record := map[string]any{
		"title": "The Old Man and the Sea",
		"year":  1952,
	}
	get := getterFor(record)

	tests := []struct {
		name string
		expr Expression
		want bool
	}{
		{"InMatch", &Predicate{Field: "title", Operator: OpIn, Values: []string{"The Old Man and the Sea"}}, true},
		{"InMiss", &Predicate{Field: "title", Operator: OpIn, Values: []string{"Moby Dick"}}, false},
		{"NotIn", &Predicate{Field: "title", Operator: OpNotIn, Values: []string{"Moby Dick"}}, true},
		{"Prefix", &Predicate{Field: "title", Operator: OpPrefix, Values: []string{"The Old"}}, true},
		{"Postfix", &Predicate{Field: "title", Operator: OpPostfix, Values: []string{"Sea"}}, true},
		{"Infix", &Predicate{Field: "title", Operator: OpInfix, Values: []string{"Man"}}, true},
		{"NumericLT", &Predicate{Field: "year", Operator: OpLT, Values: []string{"2000"}}, true},
		{"NumericGE", &Predicate{Field: "year", Operator: OpGE, Values: []string{"1952"}}, true},
		{"NumericGT", &Predicate{Field: "year", Operator: OpGT, Values: []string{"1952"}}, false},
		{"IsNullOnPresent", &Predicate{Field: "year", Operator: OpIsNull}, false},
		{"IsNullOnAbsent", &Predicate{Field: "missing", Operator: OpIsNull}, true},
		{"NotNull", &Predicate{Field: "year", Operator: OpNotNull}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.expr.Matches(get); got != tt.want {
				t.Errorf("%s: got %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestCompositeExpressions(t *testing.T) {
	get := getterFor(map[string]any{"genre": "fiction", "year": 1952})

	isFiction := &Predicate{Field: "genre", Operator: OpIn, Values: []string{"fiction"}}
	isModern := &Predicate{Field: "year", Operator: OpGE, Values: []string{"2000"}}

	if !(&AndExpression{Left: isFiction, Right: &NotExpression{Inner: isModern}}).Matches(get) {
		t.Error("expected fiction AND NOT modern to match")
	}
	if !(&OrExpression{Left: isModern, Right: isFiction}).Matches(get) {
		t.Error("expected modern OR fiction to match")
	}
	if (&AndExpression{Left: isFiction, Right: isModern}).Matches(get) {
		t.Error("expected fiction AND modern to miss")
	}
}

func TestConjoin(t *testing.T) {
	if Conjoin(nil) != nil {
		t.Error("Conjoin of nothing should be nil")
	}

	p := &Predicate{Field: "a", Operator: OpIn, Values: []string{"1"}}
	if Conjoin([]Expression{p}) != p {
		t.Error("Conjoin of one expression should be that expression")
	}

	q := &Predicate{Field: "b", Operator: OpIn, Values: []string{"2"}}
	and, ok := Conjoin([]Expression{p, q}).(*AndExpression)
	if !ok || and.Left != p || and.Right != q {
		t.Errorf("unexpected conjunction: %v", and)
	}
}
