/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package filter defines the filter predicate tree and the pluggable dialect
// grammars that translate query-string filter expressions into it.
package filter

import (
	"fmt"
	"strconv"
	"strings"
)

// Operator is a predicate comparison operator.
type Operator string

const (
	OpIn      Operator = "in"
	OpNotIn   Operator = "notin"
	OpPrefix  Operator = "prefix"
	OpPostfix Operator = "postfix"
	OpInfix   Operator = "infix"
	OpLT      Operator = "lt"
	OpLE      Operator = "le"
	OpGT      Operator = "gt"
	OpGE      Operator = "ge"
	OpIsNull  Operator = "isnull"
	OpNotNull Operator = "notnull"
)

// ParseOperator maps a query-string operator name to an Operator.
func ParseOperator(name string) (Operator, bool) {
	switch Operator(strings.ToLower(name)) {
	case OpIn, OpNotIn, OpPrefix, OpPostfix, OpInfix, OpLT, OpLE, OpGT, OpGE, OpIsNull, OpNotNull:
		return Operator(strings.ToLower(name)), true
	}
	return "", false
}

// FieldGetter resolves a record field by its exposed attribute name. The
// second return is false when the field is absent or nil.
type FieldGetter func(field string) (any, bool)

// Expression is a node of the filter predicate tree.
type Expression interface {
	// Matches evaluates the expression against one record.
	Matches(get FieldGetter) bool
	fmt.Stringer
}

// Predicate is a leaf comparison on one field.
type Predicate struct {
	Field    string
	Operator Operator
	Values   []string
}

func (p *Predicate) String() string {
	return fmt.Sprintf("%s %s [%s]", p.Field, p.Operator, strings.Join(p.Values, ","))
}

func (p *Predicate) Matches(get FieldGetter) bool {
	v, ok := get(p.Field)

	switch p.Operator {
	case OpIsNull:
		return !ok
	case OpNotNull:
		return ok
	}
	if !ok {
		return false
	}

	s := fmt.Sprint(v)
	switch p.Operator {
	case OpIn:
		for _, want := range p.Values {
			if s == want {
				return true
			}
		}
		return false
	case OpNotIn:
		for _, want := range p.Values {
			if s == want {
				return false
			}
		}
		return true
	case OpPrefix:
		return len(p.Values) == 1 && strings.HasPrefix(s, p.Values[0])
	case OpPostfix:
		return len(p.Values) == 1 && strings.HasSuffix(s, p.Values[0])
	case OpInfix:
		return len(p.Values) == 1 && strings.Contains(s, p.Values[0])
	case OpLT, OpLE, OpGT, OpGE:
		if len(p.Values) != 1 {
			return false
		}
		return compareOrdered(p.Operator, v, s, p.Values[0])
	}
	return false
}

// compareOrdered compares numerically when both sides parse as numbers,
// lexically otherwise.
func compareOrdered(op Operator, raw any, s, want string) bool {
	var cmp int
	ln, lerr := toFloat(raw)
	rn, rerr := strconv.ParseFloat(want, 64)
	if lerr == nil && rerr == nil {
		switch {
		case ln < rn:
			cmp = -1
		case ln > rn:
			cmp = 1
		}
	} else {
		cmp = strings.Compare(s, want)
	}

	switch op {
	case OpLT:
		return cmp < 0
	case OpLE:
		return cmp <= 0
	case OpGT:
		return cmp > 0
	case OpGE:
		return cmp >= 0
	}
	return false
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case float32:
		return float64(n), nil
	case float64:
		return n, nil
	default:
		return strconv.ParseFloat(fmt.Sprint(v), 64)
	}
}

// AndExpression matches when both children match.
type AndExpression struct {
	Left, Right Expression
}

func (e *AndExpression) String() string {
	return fmt.Sprintf("(%s AND %s)", e.Left, e.Right)
}

func (e *AndExpression) Matches(get FieldGetter) bool {
	return e.Left.Matches(get) && e.Right.Matches(get)
}

// OrExpression matches when either child matches.
type OrExpression struct {
	Left, Right Expression
}

func (e *OrExpression) String() string {
	return fmt.Sprintf("(%s OR %s)", e.Left, e.Right)
}

func (e *OrExpression) Matches(get FieldGetter) bool {
	return e.Left.Matches(get) || e.Right.Matches(get)
}

// NotExpression inverts its child.
type NotExpression struct {
	Inner Expression
}

func (e *NotExpression) String() string {
	return fmt.Sprintf("NOT %s", e.Inner)
}

func (e *NotExpression) Matches(get FieldGetter) bool {
	return !e.Inner.Matches(get)
}

// Conjoin folds expressions into a left-leaning AND tree. Returns nil for an
// empty input.
func Conjoin(exprs []Expression) Expression {
	var out Expression
	for _, e := range exprs {
		if out == nil {
			out = e
			continue
		}
		out = &AndExpression{Left: out, Right: e}
	}
	return out
}
