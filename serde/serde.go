/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package serde provides paired serializer/deserializers for value types that
// cross the API document boundary.
//
// Serdes are registered per value type. The three date-bearing types
// (time.Time, strfmt.Date, strfmt.DateTime) form a switchable group: epoch
// representation by default, ISO-8601 on request. The remaining serdes
// (time zone, URL, UUID, duration) are fixed and never swapped by the date
// representation choice.
package serde

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
)

// Serde converts one value type to and from its document representation.
type Serde interface {
	// Serialize renders a typed value into its document representation.
	Serialize(v any) (any, error)
	// Deserialize parses a document value back into the typed value.
	Deserialize(raw any) (any, error)
}

// DateTypes returns the types whose serdes are swapped between epoch and
// ISO-8601 representations.
func DateTypes() []reflect.Type {
	return []reflect.Type{
		reflect.TypeOf(time.Time{}),
		reflect.TypeOf(strfmt.Date{}),
		reflect.TypeOf(strfmt.DateTime{}),
	}
}

// EpochDates returns epoch-millisecond serdes for all date types.
func EpochDates() map[reflect.Type]Serde {
	out := make(map[reflect.Type]Serde)
	for _, t := range DateTypes() {
		out[t] = &EpochSerde{target: t}
	}
	return out
}

// DefaultISO8601Format matches the framework's historical ISO-8601 rendering
// (minute precision, explicit offset).
const DefaultISO8601Format = "2006-01-02T15:04Z07:00"

// ISO8601Dates returns ISO-8601 serdes for all date types using the given
// layout and location. An empty format falls back to DefaultISO8601Format;
// a nil location falls back to UTC.
func ISO8601Dates(format string, loc *time.Location) map[reflect.Type]Serde {
	if format == "" {
		format = DefaultISO8601Format
	}
	if loc == nil {
		loc = time.UTC
	}
	out := make(map[reflect.Type]Serde)
	for _, t := range DateTypes() {
		out[t] = &ISO8601Serde{format: format, loc: loc, target: t}
	}
	return out
}

// Defaults returns the fixed serde set registered at builder construction
// and left untouched by the date representation choice.
func Defaults() map[reflect.Type]Serde {
	return map[reflect.Type]Serde{
		reflect.TypeOf((*time.Location)(nil)): &TimeZoneSerde{},
		reflect.TypeOf((*url.URL)(nil)):       &URLSerde{},
		reflect.TypeOf(uuid.UUID{}):           &UUIDSerde{},
		reflect.TypeOf(time.Duration(0)):      &DurationSerde{},
	}
}

// Coerce applies the serde registered for target, if any. Values without a
// registered serde pass through unchanged.
func Coerce(serdes map[reflect.Type]Serde, target reflect.Type, raw any) (any, error) {
	if s, ok := serdes[target]; ok {
		return s.Deserialize(raw)
	}
	return raw, nil
}

// Render applies the serde registered for the dynamic type of v, if any.
func Render(serdes map[reflect.Type]Serde, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	if s, ok := serdes[reflect.TypeOf(v)]; ok {
		return s.Serialize(v)
	}
	return v, nil
}

// EpochSerde renders a date type as milliseconds since the Unix epoch.
type EpochSerde struct {
	target reflect.Type
}

// NewEpochSerde returns an epoch serde producing values of the given date type.
func NewEpochSerde(target reflect.Type) *EpochSerde {
	return &EpochSerde{target: target}
}

func (s *EpochSerde) Serialize(v any) (any, error) {
	t, err := asTime(v)
	if err != nil {
		return nil, err
	}
	return t.UnixMilli(), nil
}

func (s *EpochSerde) Deserialize(raw any) (any, error) {
	ms, err := asInt64(raw)
	if err != nil {
		return nil, fmt.Errorf("epoch serde: %w", err)
	}
	return timeAs(time.UnixMilli(ms).UTC(), s.target)
}

// ISO8601Serde renders a date type as a formatted string in a fixed location.
type ISO8601Serde struct {
	format string
	loc    *time.Location
	target reflect.Type
}

// NewISO8601Serde returns an ISO-8601 serde producing values of the given
// date type.
func NewISO8601Serde(format string, loc *time.Location, target reflect.Type) *ISO8601Serde {
	if format == "" {
		format = DefaultISO8601Format
	}
	if loc == nil {
		loc = time.UTC
	}
	return &ISO8601Serde{format: format, loc: loc, target: target}
}

func (s *ISO8601Serde) Serialize(v any) (any, error) {
	t, err := asTime(v)
	if err != nil {
		return nil, err
	}
	return t.In(s.loc).Format(s.format), nil
}

func (s *ISO8601Serde) Deserialize(raw any) (any, error) {
	str, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("iso8601 serde: expected string, got %T", raw)
	}
	t, err := time.ParseInLocation(s.format, str, s.loc)
	if err != nil {
		return nil, fmt.Errorf("iso8601 serde: %w", err)
	}
	return timeAs(t, s.target)
}

// TimeZoneSerde renders a *time.Location as its IANA name.
type TimeZoneSerde struct{}

func (TimeZoneSerde) Serialize(v any) (any, error) {
	loc, ok := v.(*time.Location)
	if !ok {
		return nil, fmt.Errorf("timezone serde: expected *time.Location, got %T", v)
	}
	return loc.String(), nil
}

func (TimeZoneSerde) Deserialize(raw any) (any, error) {
	str, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("timezone serde: expected string, got %T", raw)
	}
	loc, err := time.LoadLocation(str)
	if err != nil {
		return nil, fmt.Errorf("timezone serde: %w", err)
	}
	return loc, nil
}

// URLSerde renders a *url.URL as its string form.
type URLSerde struct{}

func (URLSerde) Serialize(v any) (any, error) {
	u, ok := v.(*url.URL)
	if !ok {
		return nil, fmt.Errorf("url serde: expected *url.URL, got %T", v)
	}
	return u.String(), nil
}

func (URLSerde) Deserialize(raw any) (any, error) {
	str, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("url serde: expected string, got %T", raw)
	}
	u, err := url.Parse(str)
	if err != nil {
		return nil, fmt.Errorf("url serde: %w", err)
	}
	return u, nil
}

// UUIDSerde renders a uuid.UUID as its canonical string form.
type UUIDSerde struct{}

func (UUIDSerde) Serialize(v any) (any, error) {
	id, ok := v.(uuid.UUID)
	if !ok {
		return nil, fmt.Errorf("uuid serde: expected uuid.UUID, got %T", v)
	}
	return id.String(), nil
}

func (UUIDSerde) Deserialize(raw any) (any, error) {
	str, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("uuid serde: expected string, got %T", raw)
	}
	id, err := uuid.Parse(str)
	if err != nil {
		return nil, fmt.Errorf("uuid serde: %w", err)
	}
	return id, nil
}

// DurationSerde renders a time.Duration in Go duration syntax.
type DurationSerde struct{}

func (DurationSerde) Serialize(v any) (any, error) {
	d, ok := v.(time.Duration)
	if !ok {
		return nil, fmt.Errorf("duration serde: expected time.Duration, got %T", v)
	}
	return d.String(), nil
}

func (DurationSerde) Deserialize(raw any) (any, error) {
	str, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("duration serde: expected string, got %T", raw)
	}
	d, err := time.ParseDuration(str)
	if err != nil {
		return nil, fmt.Errorf("duration serde: %w", err)
	}
	return d, nil
}

func asTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case strfmt.Date:
		return time.Time(t), nil
	case strfmt.DateTime:
		return time.Time(t), nil
	default:
		return time.Time{}, fmt.Errorf("expected a date type, got %T", v)
	}
}

func timeAs(t time.Time, target reflect.Type) (any, error) {
	switch target {
	case reflect.TypeOf(time.Time{}):
		return t, nil
	case reflect.TypeOf(strfmt.Date{}):
		return strfmt.Date(t), nil
	case reflect.TypeOf(strfmt.DateTime{}):
		return strfmt.DateTime(t), nil
	default:
		return nil, fmt.Errorf("unsupported date target %v", target)
	}
}

func asInt64(raw any) (int64, error) {
	switch n := raw.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case float64:
		return int64(n), nil
	case string:
		v, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("expected epoch milliseconds, got %q", n)
		}
		return v, nil
	default:
		return 0, fmt.Errorf("expected epoch milliseconds, got %T", raw)
	}
}
