/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package scan

import (
	"bytes"
	"fmt"
	"go/format"
	"sort"
)

// GenerateRegistrations renders Go source that registers every matched
// entity with an entity dictionary. The manifest's security-check and
// converter entries do not generate code; they are registered by hand where
// the check or converter is defined.
func GenerateRegistrations(m *Manifest, result Result) ([]byte, error) {
	pkg := m.Package
	if pkg == "" {
		pkg = "models"
	}

	entries := make(map[string]ManifestEntry, len(m.Entities))
	for _, e := range m.Entities {
		entries[e.Name] = e
	}

	included := make([]Match, 0, len(result.Matched))
	for _, match := range result.Matched {
		for _, marker := range match.Markers {
			if marker == MarkerInclude {
				included = append(included, match)
				break
			}
		}
	}
	sort.Slice(included, func(i, j int) bool { return included[i].Name < included[j].Name })

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "// Code generated by entityapi-gen. DO NOT EDIT.\n\n")
	fmt.Fprintf(&buf, "package %s\n\n", pkg)
	fmt.Fprintf(&buf, "import (\n\t\"github.com/suparena/entityapi/dictionary\"\n)\n\n")
	fmt.Fprintf(&buf, "// RegisterEntities adds every manifest entity to the dictionary.\n")
	fmt.Fprintf(&buf, "func RegisterEntities(d *dictionary.EntityDictionary) error {\n")

	for _, match := range included {
		entry, ok := entries[match.Name]
		if !ok {
			continue
		}
		fmt.Fprintf(&buf, "\tif _, err := dictionary.Register[%s](d, %q", entry.Type, entry.Name)
		if len(match.Markers) > 0 {
			fmt.Fprintf(&buf, ", dictionary.WithMarkers(")
			for i, marker := range match.Markers {
				if i > 0 {
					fmt.Fprintf(&buf, ", ")
				}
				fmt.Fprintf(&buf, "%q", string(marker))
			}
			fmt.Fprintf(&buf, ")")
		}
		fmt.Fprintf(&buf, "); err != nil {\n\t\treturn err\n\t}\n")
	}

	fmt.Fprintf(&buf, "\treturn nil\n}\n")

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to format generated source: %w", err)
	}
	return src, nil
}
