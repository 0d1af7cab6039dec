/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package jsonapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/suparena/entityapi/errors"
)

// Mapper marshals and unmarshals JSON:API documents. The zero value is
// ready to use; WithIndent produces pretty output for logs and fixtures.
type Mapper struct {
	indent string
}

// NewMapper returns a compact mapper.
func NewMapper() *Mapper {
	return &Mapper{}
}

// WithIndent makes Marshal produce indented output.
func (m *Mapper) WithIndent(indent string) *Mapper {
	m.indent = indent
	return m
}

// Marshal renders a document to JSON.
func (m *Mapper) Marshal(doc *Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("cannot marshal a nil document")
	}
	if m.indent != "" {
		return json.MarshalIndent(doc, "", m.indent)
	}
	return json.Marshal(doc)
}

// Unmarshal parses a JSON:API document.
func (m *Mapper) Unmarshal(data []byte) (*Document, error) {
	doc := new(Document)
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	return doc, nil
}

// ErrorMapper converts an application error into a JSON:API error object.
// The settings builder installs one; handlers use it to render failures.
type ErrorMapper func(err error) *ErrorObject

// DefaultErrorMapper maps the storage and permission error types to their
// HTTP statuses. Unrecognized errors map to 500 with a generic title so
// internal detail never leaks to clients.
func DefaultErrorMapper(err error) *ErrorObject {
	status := http.StatusInternalServerError
	switch {
	case errors.IsNotFound(err), errors.IsUnknownEntity(err):
		status = http.StatusNotFound
	case errors.IsValidationError(err):
		status = http.StatusBadRequest
	case errors.IsForbidden(err):
		status = http.StatusForbidden
	case errors.IsAlreadyExists(err):
		status = http.StatusConflict
	case errors.IsConditionFailed(err):
		status = http.StatusPreconditionFailed
	}

	obj := &ErrorObject{
		Status: strconv.Itoa(status),
		Title:  http.StatusText(status),
	}
	if status != http.StatusInternalServerError {
		obj.Detail = err.Error()
	}
	return obj
}

// StatusOf reports the HTTP status an error object carries, defaulting to
// 500 when the status member is absent or malformed.
func StatusOf(obj *ErrorObject) int {
	if obj == nil {
		return http.StatusInternalServerError
	}
	status, err := strconv.Atoi(obj.Status)
	if err != nil || status < 100 {
		return http.StatusInternalServerError
	}
	return status
}
