/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package parser

import (
	"strings"

	"github.com/suparena/entityapi/errors"
	"github.com/suparena/entityapi/jsonapi"
)

// Deferred is a response computation produced by a visitor and evaluated
// later by the caller. Nothing runs until the caller invokes it.
type Deferred func() (int, *jsonapi.Document)

// QueryContext is the parsed form of one inbound request: the addressed
// collection, optional resource identity and relationship, and the request
// payload when the verb carries one.
type QueryContext struct {
	EntityType   string
	ID           string
	Relationship string
	Document     *jsonapi.Document
}

// ParseQuery decodes a request path below the JSON:API mount point.
// Recognized shapes:
//
//	account
//	account/123
//	account/123/relationships/profile
func ParseQuery(path string, doc *jsonapi.Document) (*QueryContext, error) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		return nil, errors.NewValidationError("path", "empty request path")
	}

	q := &QueryContext{EntityType: parts[0], Document: doc}
	switch len(parts) {
	case 1:
		return q, nil
	case 2:
		q.ID = parts[1]
		return q, nil
	case 4:
		if parts[2] != "relationships" {
			return nil, errors.NewValidationError("path", "expected relationships segment")
		}
		q.ID = parts[1]
		q.Relationship = parts[3]
		return q, nil
	default:
		return nil, errors.NewValidationError("path", "unrecognized request path shape")
	}
}

// Visitor dispatches a parsed query to a handler entry point. One visitor
// exists per HTTP verb; all of them delegate to the shared state context and
// never interpret the request themselves.
type Visitor interface {
	VisitQuery(q *QueryContext) Deferred
}

// BaseVisitor carries the state context shared by the verb visitors.
type BaseVisitor struct {
	state *StateContext
}

// State returns the underlying state context.
func (v *BaseVisitor) State() *StateContext { return v.state }

// GetVisitor dispatches fetch requests.
type GetVisitor struct{ BaseVisitor }

// NewGetVisitor returns a visitor bound to the state context.
func NewGetVisitor(state *StateContext) *GetVisitor {
	return &GetVisitor{BaseVisitor{state: state}}
}

func (v *GetVisitor) VisitQuery(q *QueryContext) Deferred {
	return v.state.HandleGet(q)
}

// PostVisitor dispatches create requests.
type PostVisitor struct{ BaseVisitor }

// NewPostVisitor returns a visitor bound to the state context.
func NewPostVisitor(state *StateContext) *PostVisitor {
	return &PostVisitor{BaseVisitor{state: state}}
}

func (v *PostVisitor) VisitQuery(q *QueryContext) Deferred {
	return v.state.HandlePost(q)
}

// PatchVisitor dispatches update requests.
type PatchVisitor struct{ BaseVisitor }

// NewPatchVisitor returns a visitor bound to the state context.
func NewPatchVisitor(state *StateContext) *PatchVisitor {
	return &PatchVisitor{BaseVisitor{state: state}}
}

func (v *PatchVisitor) VisitQuery(q *QueryContext) Deferred {
	return v.state.HandlePatch(q)
}

// DeleteVisitor dispatches delete requests.
type DeleteVisitor struct{ BaseVisitor }

// NewDeleteVisitor returns a visitor bound to the state context.
func NewDeleteVisitor(state *StateContext) *DeleteVisitor {
	return &DeleteVisitor{BaseVisitor{state: state}}
}

func (v *DeleteVisitor) VisitQuery(q *QueryContext) Deferred {
	return v.state.HandleDelete(q)
}
