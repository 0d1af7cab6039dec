/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package filter

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/suparena/entityapi/dictionary"
	"github.com/suparena/entityapi/errors"
)

// RSQLDialect parses RSQL filter expressions:
//
//	name==Hemingway;year>=1950
//	genre=in=(fiction,thriller),genre=isnull=true
//
// ';' conjoins (higher precedence), ',' disjoins, parentheses group. The
// wildcard '*' in the argument of == / != selects prefix, postfix, or infix
// matching. It serves as join dialect (global "filter" parameter), subquery
// dialect ("filter[type]" parameters), and GraphQL dialect.
type RSQLDialect struct {
	dict *dictionary.EntityDictionary
}

// NewRSQLDialect returns an RSQL dialect bound to a dictionary.
func NewRSQLDialect(dict *dictionary.EntityDictionary) *RSQLDialect {
	return &RSQLDialect{dict: dict}
}

var _ JoinDialect = (*RSQLDialect)(nil)
var _ SubqueryDialect = (*RSQLDialect)(nil)
var _ Dialect = (*RSQLDialect)(nil)

// ParseGlobalExpression parses the single "filter" parameter against the
// entity type addressed by the path.
func (d *RSQLDialect) ParseGlobalExpression(path string, params url.Values) (Expression, error) {
	raw := params.Get("filter")
	if raw == "" {
		return nil, errors.NewValidationError("filter", "no global filter parameter present")
	}
	return d.Parse(terminalType(path), raw)
}

// ParseTypedExpression parses one "filter[type]" parameter per entity type.
func (d *RSQLDialect) ParseTypedExpression(_ string, params url.Values) (map[string]Expression, error) {
	out := make(map[string]Expression)
	for key := range params {
		if !strings.HasPrefix(key, "filter[") || !strings.HasSuffix(key, "]") {
			continue
		}
		entityType := key[len("filter[") : len(key)-1]
		if strings.ContainsAny(entityType, ".[]") {
			// filter[type.field] belongs to the default dialect.
			continue
		}
		expr, err := d.Parse(entityType, params.Get(key))
		if err != nil {
			return nil, err
		}
		out[entityType] = expr
	}
	if len(out) == 0 {
		return nil, errors.NewValidationError("filter", "no typed filter parameters present")
	}
	return out, nil
}

// Parse parses one RSQL expression for the given entity type.
func (d *RSQLDialect) Parse(entityType string, expression string) (Expression, error) {
	p := &rsqlParser{input: expression, entityType: entityType, dict: d.dict}
	expr, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if !p.eof() {
		return nil, p.errorf("unexpected input at position %d", p.pos)
	}
	return expr, nil
}

type rsqlParser struct {
	input      string
	pos        int
	entityType string
	dict       *dictionary.EntityDictionary
}

func (p *rsqlParser) errorf(format string, args ...any) error {
	return errors.NewValidationError("filter", fmt.Sprintf(format, args...)+" in "+p.input)
}

func (p *rsqlParser) eof() bool { return p.pos >= len(p.input) }

func (p *rsqlParser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.input[p.pos]
}

func (p *rsqlParser) skipSpace() {
	for !p.eof() && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t') {
		p.pos++
	}
}

// parseOr handles ',' (lowest precedence).
func (p *rsqlParser) parseOr() (Expression, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpace()
		if p.peek() != ',' {
			return left, nil
		}
		p.pos++
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &OrExpression{Left: left, Right: right}
	}
}

// parseAnd handles ';' (binds tighter than ',').
func (p *rsqlParser) parseAnd() (Expression, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpace()
		if p.peek() != ';' {
			return left, nil
		}
		p.pos++
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		left = &AndExpression{Left: left, Right: right}
	}
}

func (p *rsqlParser) parseFactor() (Expression, error) {
	p.skipSpace()
	if p.peek() == '(' {
		p.pos++
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.peek() != ')' {
			return nil, p.errorf("missing closing parenthesis")
		}
		p.pos++
		return inner, nil
	}
	return p.parseComparison()
}

func (p *rsqlParser) parseComparison() (Expression, error) {
	selector, err := p.parseSelector()
	if err != nil {
		return nil, err
	}
	if p.dict != nil && !p.dict.HasField(p.entityType, selector) {
		return nil, p.errorf("unknown field %q for type %s", selector, p.entityType)
	}

	op, err := p.parseOperator()
	if err != nil {
		return nil, err
	}

	values, err := p.parseArguments()
	if err != nil {
		return nil, err
	}

	return buildComparison(selector, op, values)
}

func (p *rsqlParser) parseSelector() (string, error) {
	p.skipSpace()
	start := p.pos
	for !p.eof() {
		c := p.input[p.pos]
		if c == '_' || c == '.' || c == '-' ||
			(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			p.pos++
			continue
		}
		break
	}
	if p.pos == start {
		return "", p.errorf("expected field selector at position %d", p.pos)
	}
	return p.input[start:p.pos], nil
}

func (p *rsqlParser) parseOperator() (string, error) {
	p.skipSpace()
	rest := p.input[p.pos:]

	for _, op := range []string{"==", "!=", "<=", ">=", "<", ">"} {
		if strings.HasPrefix(rest, op) {
			p.pos += len(op)
			return op, nil
		}
	}
	if strings.HasPrefix(rest, "=") {
		end := strings.Index(rest[1:], "=")
		if end > 0 {
			op := rest[:end+2]
			p.pos += len(op)
			return op, nil
		}
	}
	return "", p.errorf("expected comparison operator at position %d", p.pos)
}

func (p *rsqlParser) parseArguments() ([]string, error) {
	p.skipSpace()
	if p.peek() != '(' {
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		return []string{v}, nil
	}

	p.pos++
	var values []string
	for {
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		values = append(values, v)
		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case ')':
			p.pos++
			return values, nil
		default:
			return nil, p.errorf("malformed argument list at position %d", p.pos)
		}
	}
}

func (p *rsqlParser) parseValue() (string, error) {
	p.skipSpace()
	if c := p.peek(); c == '\'' || c == '"' {
		quote := c
		p.pos++
		start := p.pos
		for !p.eof() && p.input[p.pos] != quote {
			p.pos++
		}
		if p.eof() {
			return "", p.errorf("unterminated quoted value")
		}
		v := p.input[start:p.pos]
		p.pos++
		return v, nil
	}

	start := p.pos
	for !p.eof() {
		switch p.input[p.pos] {
		case ';', ',', '(', ')', ' ', '\t':
			goto done
		}
		p.pos++
	}
done:
	if p.pos == start {
		return "", p.errorf("expected value at position %d", p.pos)
	}
	return p.input[start:p.pos], nil
}

func buildComparison(field, op string, values []string) (Expression, error) {
	single := func() (string, error) {
		if len(values) != 1 {
			return "", errors.NewValidationError("filter",
				"operator "+op+" takes exactly one argument")
		}
		return values[0], nil
	}

	switch op {
	case "==":
		v, err := single()
		if err != nil {
			return nil, err
		}
		return wildcardPredicate(field, v), nil
	case "!=":
		v, err := single()
		if err != nil {
			return nil, err
		}
		return &NotExpression{Inner: wildcardPredicate(field, v)}, nil
	case "=in=":
		return &Predicate{Field: field, Operator: OpIn, Values: values}, nil
	case "=out=":
		return &Predicate{Field: field, Operator: OpNotIn, Values: values}, nil
	case "<", "=lt=":
		v, err := single()
		if err != nil {
			return nil, err
		}
		return &Predicate{Field: field, Operator: OpLT, Values: []string{v}}, nil
	case "<=", "=le=":
		v, err := single()
		if err != nil {
			return nil, err
		}
		return &Predicate{Field: field, Operator: OpLE, Values: []string{v}}, nil
	case ">", "=gt=":
		v, err := single()
		if err != nil {
			return nil, err
		}
		return &Predicate{Field: field, Operator: OpGT, Values: []string{v}}, nil
	case ">=", "=ge=":
		v, err := single()
		if err != nil {
			return nil, err
		}
		return &Predicate{Field: field, Operator: OpGE, Values: []string{v}}, nil
	case "=isnull=":
		v, err := single()
		if err != nil {
			return nil, err
		}
		if v == "true" {
			return &Predicate{Field: field, Operator: OpIsNull}, nil
		}
		return &Predicate{Field: field, Operator: OpNotNull}, nil
	default:
		return nil, errors.NewValidationError("filter", "unknown operator "+op)
	}
}

// wildcardPredicate maps '*' placement in an equality argument to the
// matching operator.
func wildcardPredicate(field, value string) Expression {
	prefix := strings.HasSuffix(value, "*")
	postfix := strings.HasPrefix(value, "*")
	trimmed := strings.Trim(value, "*")

	switch {
	case prefix && postfix:
		return &Predicate{Field: field, Operator: OpInfix, Values: []string{trimmed}}
	case prefix:
		return &Predicate{Field: field, Operator: OpPrefix, Values: []string{trimmed}}
	case postfix:
		return &Predicate{Field: field, Operator: OpPostfix, Values: []string{trimmed}}
	default:
		return &Predicate{Field: field, Operator: OpIn, Values: []string{value}}
	}
}
