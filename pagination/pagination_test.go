/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package pagination

import (
	"net/url"
	"testing"

	"github.com/suparena/entityapi/errors"
)

func TestPolicyConstants(t *testing.T) {
	if DefaultPageLimit != 500 {
		t.Errorf("DefaultPageLimit changed: %d", DefaultPageLimit)
	}
	if MaxPageLimit != 10000 {
		t.Errorf("MaxPageLimit changed: %d", MaxPageLimit)
	}
}

func TestFromQueryParams(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		p, err := FromQueryParams(url.Values{}, DefaultPageLimit, MaxPageLimit)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Limit != DefaultPageLimit || p.Offset != 0 || p.RequestTotals {
			t.Errorf("unexpected defaults: %+v", p)
		}
	})

	t.Run("PageBased", func(t *testing.T) {
		params := url.Values{}
		params.Set("page[size]", "25")
		params.Set("page[number]", "3")

		p, err := FromQueryParams(params, DefaultPageLimit, MaxPageLimit)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Limit != 25 {
			t.Errorf("expected limit 25, got %d", p.Limit)
		}
		if p.Offset != 50 {
			t.Errorf("expected offset 50, got %d", p.Offset)
		}
	})

	t.Run("OffsetBased", func(t *testing.T) {
		params := url.Values{}
		params.Set("page[limit]", "10")
		params.Set("page[offset]", "40")

		p, err := FromQueryParams(params, DefaultPageLimit, MaxPageLimit)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Limit != 10 || p.Offset != 40 {
			t.Errorf("unexpected pagination: %+v", p)
		}
	})

	t.Run("Totals", func(t *testing.T) {
		params := url.Values{}
		params.Set("page[totals]", "")

		p, err := FromQueryParams(params, DefaultPageLimit, MaxPageLimit)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !p.RequestTotals {
			t.Error("expected RequestTotals to be set")
		}
	})

	t.Run("MixedFamiliesRejected", func(t *testing.T) {
		params := url.Values{}
		params.Set("page[size]", "10")
		params.Set("page[offset]", "5")

		_, err := FromQueryParams(params, DefaultPageLimit, MaxPageLimit)
		if !errors.IsValidationError(err) {
			t.Errorf("expected validation error, got %v", err)
		}
	})

	t.Run("ExceedsMax", func(t *testing.T) {
		params := url.Values{}
		params.Set("page[size]", "50")

		_, err := FromQueryParams(params, DefaultPageLimit, 25)
		if !errors.IsValidationError(err) {
			t.Errorf("expected validation error, got %v", err)
		}
	})

	t.Run("BadInteger", func(t *testing.T) {
		params := url.Values{}
		params.Set("page[number]", "zero")

		_, err := FromQueryParams(params, DefaultPageLimit, MaxPageLimit)
		if !errors.IsValidationError(err) {
			t.Errorf("expected validation error, got %v", err)
		}
	})
}
