/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package serde

import (
	"net/url"
	"reflect"
	"testing"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
)

func TestEpochSerdeRoundTrip(t *testing.T) {
	s := NewEpochSerde(reflect.TypeOf(time.Time{}))
	moment := time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC)

	raw, err := s.Serialize(moment)
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	ms, ok := raw.(int64)
	if !ok {
		t.Fatalf("expected int64, got %T", raw)
	}
	if ms != moment.UnixMilli() {
		t.Errorf("expected %d, got %d", moment.UnixMilli(), ms)
	}

	back, err := s.Deserialize(ms)
	if err != nil {
		t.Fatalf("Deserialize failed: %v", err)
	}
	if !back.(time.Time).Equal(moment) {
		t.Errorf("round trip mismatch: %v != %v", back, moment)
	}
}

func TestEpochSerdeAcceptsStringAndFloat(t *testing.T) {
	s := NewEpochSerde(reflect.TypeOf(strfmt.DateTime{}))

	for _, raw := range []any{"1717245000000", float64(1717245000000)} {
		v, err := s.Deserialize(raw)
		if err != nil {
			t.Fatalf("Deserialize(%T) failed: %v", raw, err)
		}
		if _, ok := v.(strfmt.DateTime); !ok {
			t.Errorf("expected strfmt.DateTime, got %T", v)
		}
	}
}

func TestISO8601SerdeRoundTrip(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tz database unavailable: %v", err)
	}
	s := NewISO8601Serde("2006-01-02T15:04:05Z07:00", loc, reflect.TypeOf(time.Time{}))

	moment := time.Date(2024, 6, 1, 16, 30, 0, 0, time.UTC)
	raw, err := s.Serialize(moment)
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	str, ok := raw.(string)
	if !ok {
		t.Fatalf("expected string, got %T", raw)
	}
	if str != "2024-06-01T12:30:00-04:00" {
		t.Errorf("unexpected rendering: %s", str)
	}

	back, err := s.Deserialize(str)
	if err != nil {
		t.Fatalf("Deserialize failed: %v", err)
	}
	if !back.(time.Time).Equal(moment) {
		t.Errorf("round trip mismatch: %v != %v", back, moment)
	}
}

func TestDateGroupCoversAllDateTypes(t *testing.T) {
	for _, m := range []map[reflect.Type]Serde{EpochDates(), ISO8601Dates("", nil)} {
		for _, dt := range DateTypes() {
			if _, ok := m[dt]; !ok {
				t.Errorf("missing serde for %v", dt)
			}
		}
		if len(m) != len(DateTypes()) {
			t.Errorf("date group has extra entries: %d", len(m))
		}
	}
}

func TestDefaultsAreFixed(t *testing.T) {
	defaults := Defaults()
	for _, dt := range DateTypes() {
		if _, ok := defaults[dt]; ok {
			t.Errorf("date type %v must not be in the fixed set", dt)
		}
	}

	tests := []struct {
		value any
		want  any
	}{
		{time.Hour, "1h0m0s"},
		{uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8"), "6ba7b810-9dad-11d1-80b4-00c04fd430c8"},
		{mustURL(t, "https://example.com/api"), "https://example.com/api"},
		{time.UTC, "UTC"},
	}
	for _, tt := range tests {
		s, ok := defaults[reflect.TypeOf(tt.value)]
		if !ok {
			t.Errorf("no serde for %T", tt.value)
			continue
		}
		raw, err := s.Serialize(tt.value)
		if err != nil {
			t.Errorf("Serialize(%T) failed: %v", tt.value, err)
			continue
		}
		if raw != tt.want {
			t.Errorf("Serialize(%T) = %v, want %v", tt.value, raw, tt.want)
		}
	}
}

func TestCoercePassThrough(t *testing.T) {
	serdes := Defaults()
	v, err := Coerce(serdes, reflect.TypeOf(""), "plain")
	if err != nil {
		t.Fatalf("Coerce failed: %v", err)
	}
	if v != "plain" {
		t.Errorf("expected pass-through, got %v", v)
	}

	id, err := Coerce(serdes, reflect.TypeOf(uuid.UUID{}), "6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	if err != nil {
		t.Fatalf("Coerce uuid failed: %v", err)
	}
	if _, ok := id.(uuid.UUID); !ok {
		t.Errorf("expected uuid.UUID, got %T", id)
	}
}

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("bad url %q: %v", raw, err)
	}
	return u
}
