/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package scan

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ManifestEntry describes one type in the entity manifest.
type ManifestEntry struct {
	// Name is the exposed entity name.
	Name string `yaml:"name"`
	// Type is the Go type implementing the entry.
	Type string `yaml:"type"`
	// Markers are the registration roles, by marker name.
	Markers []string `yaml:"markers"`
}

// Manifest is the YAML registration manifest consumed at build time. It
// replaces runtime annotation scanning with an explicit type list:
//
//	package: models
//	entities:
//	  - name: account
//	    type: Account
//	    markers: [include]
//	  - name: adminOnly
//	    type: AdminOnlyCheck
//	    markers: [securityCheck]
type Manifest struct {
	// Package is the Go package the generated registrations belong to.
	Package string `yaml:"package"`
	// Entities lists the declared types.
	Entities []ManifestEntry `yaml:"entities"`
}

// LoadManifest reads and parses a manifest file.
func LoadManifest(path string) (*Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	m := new(Manifest)
	if err := yaml.Unmarshal(raw, m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return m, nil
}

// Index converts the manifest into a scan index. Entries are validated at
// resolution time so problems surface as scan skips with reasons instead of
// failing the whole manifest.
func (m *Manifest) Index() Index {
	index := make(Index, 0, len(m.Entities))
	for _, e := range m.Entities {
		entry := e
		markers := make([]Marker, 0, len(entry.Markers))
		for _, name := range entry.Markers {
			if marker, ok := ParseMarker(name); ok {
				markers = append(markers, marker)
			}
		}
		index = append(index, TypeDescriptor{
			Name:    entry.Name,
			Markers: markers,
			Resolve: func() (any, error) {
				if entry.Name == "" {
					return nil, fmt.Errorf("manifest entry has no name")
				}
				if entry.Type == "" {
					return nil, fmt.Errorf("manifest entry %q names no Go type", entry.Name)
				}
				for _, name := range entry.Markers {
					if _, ok := ParseMarker(name); !ok {
						return nil, fmt.Errorf("unknown marker %q", name)
					}
				}
				return entry, nil
			},
		})
	}
	return index
}
