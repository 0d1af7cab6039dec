/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package entityapi

import (
	"net/http"
	"reflect"
	"testing"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"

	"github.com/suparena/entityapi/datastore"
	"github.com/suparena/entityapi/dictionary"
	"github.com/suparena/entityapi/errors"
	"github.com/suparena/entityapi/filter"
	"github.com/suparena/entityapi/pagination"
	"github.com/suparena/entityapi/serde"
)

type builderAccount struct {
	ID   uuid.UUID `json:"id" entityapi:"id"`
	Name string    `json:"name"`
}

func testDictionary(t *testing.T) *dictionary.EntityDictionary {
	t.Helper()
	d := dictionary.NewEntityDictionary()
	if _, err := dictionary.Register[builderAccount](d, "account"); err != nil {
		t.Fatal(err)
	}
	return d
}

func TestBuildRequiresEntityDictionary(t *testing.T) {
	_, err := NewSettingsBuilder(datastore.NewStorageManager()).Build()
	if err == nil {
		t.Fatal("expected Build to fail without an entity dictionary")
	}
	if !errors.IsInvalidConfiguration(err) {
		t.Errorf("expected a configuration error, got %v", err)
	}
}

func TestBuildDefaultsFilterDialects(t *testing.T) {
	settings, err := NewSettingsBuilder(datastore.NewStorageManager()).
		WithEntityDictionary(testDictionary(t)).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	join := settings.JoinFilterDialects()
	if len(join) != 2 {
		t.Fatalf("expected 2 join dialects, got %d", len(join))
	}
	if _, ok := join[0].(*filter.EqualityDialect); !ok {
		t.Errorf("first join dialect should be equality, got %T", join[0])
	}
	if _, ok := join[1].(*filter.RSQLDialect); !ok {
		t.Errorf("second join dialect should be RSQL, got %T", join[1])
	}

	sub := settings.SubqueryFilterDialects()
	if len(sub) != 2 {
		t.Fatalf("expected 2 subquery dialects, got %d", len(sub))
	}
	if _, ok := sub[0].(*filter.EqualityDialect); !ok {
		t.Errorf("first subquery dialect should be equality, got %T", sub[0])
	}
	if _, ok := sub[1].(*filter.RSQLDialect); !ok {
		t.Errorf("second subquery dialect should be RSQL, got %T", sub[1])
	}

	if _, ok := settings.GraphQLFilterDialect().(*filter.RSQLDialect); !ok {
		t.Errorf("graphql dialect should be RSQL, got %T", settings.GraphQLFilterDialect())
	}
}

func TestBuildKeepsExplicitDialects(t *testing.T) {
	dict := testDictionary(t)
	rsql := filter.NewRSQLDialect(dict)

	settings, err := NewSettingsBuilder(datastore.NewStorageManager()).
		WithEntityDictionary(dict).
		WithJoinFilterDialect(rsql).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(settings.JoinFilterDialects()) != 1 {
		t.Errorf("explicit join dialects must not be extended, got %d", len(settings.JoinFilterDialects()))
	}
	if len(settings.SubqueryFilterDialects()) != 2 {
		t.Errorf("empty subquery dialects should still default, got %d", len(settings.SubqueryFilterDialects()))
	}
}

func TestUpdateStatusLastWriteWins(t *testing.T) {
	dict := testDictionary(t)

	t.Run("200Then204", func(t *testing.T) {
		settings, err := NewSettingsBuilder(datastore.NewStorageManager()).
			WithEntityDictionary(dict).
			WithUpdate200Status().
			WithUpdate204Status().
			Build()
		if err != nil {
			t.Fatal(err)
		}
		if settings.UpdateStatusCode() != http.StatusNoContent {
			t.Errorf("expected 204, got %d", settings.UpdateStatusCode())
		}
	})

	t.Run("204Then200", func(t *testing.T) {
		settings, err := NewSettingsBuilder(datastore.NewStorageManager()).
			WithEntityDictionary(dict).
			WithUpdate204Status().
			WithUpdate200Status().
			Build()
		if err != nil {
			t.Fatal(err)
		}
		if settings.UpdateStatusCode() != http.StatusOK {
			t.Errorf("expected 200, got %d", settings.UpdateStatusCode())
		}
	})
}

func TestDateSerdeSwitching(t *testing.T) {
	dict := testDictionary(t)

	t.Run("EpochByDefault", func(t *testing.T) {
		settings, err := NewSettingsBuilder(datastore.NewStorageManager()).
			WithEntityDictionary(dict).
			Build()
		if err != nil {
			t.Fatal(err)
		}
		for _, dt := range serde.DateTypes() {
			if _, ok := settings.Serdes()[dt].(*serde.EpochSerde); !ok {
				t.Errorf("expected epoch serde for %v, got %T", dt, settings.Serdes()[dt])
			}
		}
	})

	t.Run("ISO8601ReplacesOnlyDates", func(t *testing.T) {
		settings, err := NewSettingsBuilder(datastore.NewStorageManager()).
			WithEntityDictionary(dict).
			WithISO8601Dates(serde.DefaultISO8601Format, time.UTC).
			Build()
		if err != nil {
			t.Fatal(err)
		}
		serdes := settings.Serdes()
		for _, dt := range serde.DateTypes() {
			if _, ok := serdes[dt].(*serde.ISO8601Serde); !ok {
				t.Errorf("expected ISO 8601 serde for %v, got %T", dt, serdes[dt])
			}
		}
		fixed := []reflect.Type{
			reflect.TypeOf((*time.Location)(nil)),
			reflect.TypeOf(uuid.UUID{}),
			reflect.TypeOf(time.Duration(0)),
		}
		for _, ft := range fixed {
			if _, ok := serdes[ft]; !ok {
				t.Errorf("fixed serde for %v must survive date switching", ft)
			}
		}
	})

	t.Run("EpochRestores", func(t *testing.T) {
		settings, err := NewSettingsBuilder(datastore.NewStorageManager()).
			WithEntityDictionary(dict).
			WithISO8601Dates(serde.DefaultISO8601Format, time.UTC).
			WithEpochDates().
			Build()
		if err != nil {
			t.Fatal(err)
		}
		dt := reflect.TypeOf(strfmt.DateTime{})
		if _, ok := settings.Serdes()[dt].(*serde.EpochSerde); !ok {
			t.Errorf("expected epoch serde after restore, got %T", settings.Serdes()[dt])
		}
	})
}

func TestBuildIsolatesSettingsFromBuilder(t *testing.T) {
	dict := testDictionary(t)
	timeType := reflect.TypeOf(time.Time{})

	builder := NewSettingsBuilder(datastore.NewStorageManager()).WithEntityDictionary(dict)
	settings, err := builder.Build()
	if err != nil {
		t.Fatal(err)
	}

	t.Run("MutatorsAfterBuild", func(t *testing.T) {
		builder.WithISO8601Dates("", nil)
		builder.WithJoinFilterDialect(filter.NewRSQLDialect(dict))

		if _, ok := settings.Serdes()[timeType].(*serde.EpochSerde); !ok {
			t.Errorf("built settings serde changed by later mutator: %T", settings.Serdes()[timeType])
		}
		if got := len(settings.JoinFilterDialects()); got != 2 {
			t.Errorf("built settings dialects changed by later mutator: %d", got)
		}
	})

	t.Run("ReturnedSerdeMap", func(t *testing.T) {
		serdes := settings.Serdes()
		delete(serdes, timeType)
		if _, ok := settings.Serdes()[timeType]; !ok {
			t.Error("mutating the returned serde map reached the settings")
		}
	})
}

func TestBuilderDefaults(t *testing.T) {
	settings, err := NewSettingsBuilder(datastore.NewStorageManager()).
		WithEntityDictionary(testDictionary(t)).
		Build()
	if err != nil {
		t.Fatal(err)
	}

	if settings.UpdateStatusCode() != http.StatusNoContent {
		t.Errorf("default update status should be 204, got %d", settings.UpdateStatusCode())
	}
	if !settings.StrictQueryParams() {
		t.Error("strict query params should default on")
	}
	if settings.LinksEnabled() {
		t.Error("links should default off")
	}
	if settings.DefaultPageSize() != pagination.DefaultPageLimit {
		t.Errorf("unexpected default page size %d", settings.DefaultPageSize())
	}
	if settings.DefaultMaxPageSize() != pagination.MaxPageLimit {
		t.Errorf("unexpected max page size %d", settings.DefaultMaxPageSize())
	}
	if settings.JSONAPIPath() != "/api" {
		t.Errorf("unexpected JSON:API path %q", settings.JSONAPIPath())
	}
}

func TestLowercaseAndRemoveAuthHeaders(t *testing.T) {
	in := http.Header{
		"Authorization":       []string{"Bearer secret"},
		"Proxy-Authorization": []string{"Basic secret"},
		"Content-Type":        []string{"application/vnd.api+json"},
	}

	out := LowercaseAndRemoveAuthHeaders(in)
	if _, ok := out["authorization"]; ok {
		t.Error("authorization header must be stripped")
	}
	if _, ok := out["proxy-authorization"]; ok {
		t.Error("proxy-authorization header must be stripped")
	}
	if got := out["content-type"]; len(got) != 1 || got[0] != "application/vnd.api+json" {
		t.Errorf("unexpected content-type: %v", got)
	}
}
