/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package scan

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Marker tags a manifest entry with a registration role. The marker set is
// fixed; Scan matches descriptors against it.
type Marker string

const (
	// MarkerInclude exposes the type through the API surface.
	MarkerInclude Marker = "include"
	// MarkerSecurityCheck registers the type as a named permission check.
	MarkerSecurityCheck Marker = "securityCheck"
	// MarkerLifeCycleHook registers the type as a lifecycle hook binding.
	MarkerLifeCycleHook Marker = "lifeCycleHook"
	// MarkerTypeConverter registers the type as an attribute converter.
	MarkerTypeConverter Marker = "typeConverter"
)

// AllMarkers returns the fixed marker set.
func AllMarkers() []Marker {
	return []Marker{MarkerInclude, MarkerSecurityCheck, MarkerLifeCycleHook, MarkerTypeConverter}
}

// ParseMarker resolves a marker name, case-insensitively.
func ParseMarker(name string) (Marker, bool) {
	for _, m := range AllMarkers() {
		if strings.EqualFold(string(m), name) {
			return m, true
		}
	}
	return "", false
}

// ResolveFunc materializes the value a descriptor names: a prototype entity,
// a check function, a converter. Resolution runs once, during the scan.
type ResolveFunc func() (any, error)

// TypeDescriptor is one manifest entry visible at build time.
type TypeDescriptor struct {
	// Name is the exposed name of the type.
	Name string
	// Markers are the registration roles the entry carries.
	Markers []Marker
	// Resolve materializes the described value. A nil Resolve is valid for
	// manifest-only entries such as code generation inputs.
	Resolve ResolveFunc
}

// Index is the full descriptor list visible to a scan.
type Index []TypeDescriptor

// Match is one scanned type together with every marker it matched. A type
// carrying several markers yields exactly one match.
type Match struct {
	Name    string
	Markers []Marker
	Value   any
}

// Skip records a descriptor the scan could not resolve and why.
type Skip struct {
	Name   string
	Reason string
}

// Result is the outcome of one scan pass.
type Result struct {
	Matched []Match
	Skipped []Skip
}

// Err folds the skips into one error for strict callers. It returns nil when
// nothing was skipped.
func (r Result) Err() error {
	if len(r.Skipped) == 0 {
		return nil
	}
	reasons := make([]string, 0, len(r.Skipped))
	for _, s := range r.Skipped {
		reasons = append(reasons, s.Name+": "+s.Reason)
	}
	return fmt.Errorf("scan skipped %d descriptor(s): %s", len(r.Skipped), strings.Join(reasons, "; "))
}

// Scan matches the index against a marker set, the full set when none is
// given. Each named type appears at most once in the output, carrying every
// marker it matched. Descriptors whose resolution fails are reported as
// skips, never dropped silently.
func Scan(index Index, markers ...Marker) Result {
	if len(markers) == 0 {
		markers = AllMarkers()
	}
	wanted := make(map[Marker]bool, len(markers))
	for _, m := range markers {
		wanted[m] = true
	}

	var result Result
	seen := make(map[string]bool, len(index))

	for _, desc := range index {
		if seen[desc.Name] {
			continue
		}

		var matched []Marker
		for _, m := range desc.Markers {
			if wanted[m] {
				matched = append(matched, m)
			}
		}
		if len(matched) == 0 {
			continue
		}
		seen[desc.Name] = true

		var value any
		if desc.Resolve != nil {
			v, err := desc.Resolve()
			if err != nil {
				result.Skipped = append(result.Skipped, Skip{Name: desc.Name, Reason: err.Error()})
				continue
			}
			value = v
		}
		result.Matched = append(result.Matched, Match{Name: desc.Name, Markers: matched, Value: value})
	}
	return result
}

// Registry answers marker queries over a scan result. It is built once at
// startup and passed explicitly to whatever needs it.
type Registry struct {
	mu      sync.RWMutex
	matches map[string]Match
}

// NewRegistry indexes a scan result by name.
func NewRegistry(result Result) *Registry {
	r := &Registry{matches: make(map[string]Match, len(result.Matched))}
	for _, m := range result.Matched {
		r.matches[m.Name] = m
	}
	return r
}

// Get returns the match registered under a name.
func (r *Registry) Get(name string) (Match, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.matches[name]
	return m, ok
}

// All returns every match, sorted by name.
func (r *Registry) All() []Match {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Match, 0, len(r.matches))
	for _, m := range r.matches {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// WithMarkers returns the matches carrying every given marker, sorted by
// name.
func (r *Registry) WithMarkers(markers ...Marker) []Match {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Match
	for _, m := range r.matches {
		if carriesAll(m.Markers, markers) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func carriesAll(have, want []Marker) bool {
	for _, w := range want {
		found := false
		for _, h := range have {
			if h == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
