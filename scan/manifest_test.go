/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package scan

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleManifest = `package: models
entities:
  - name: account
    type: Account
    markers: [include]
  - name: accountProfile
    type: AccountProfile
    markers: [include]
  - name: adminOnly
    type: AdminOnlyCheck
    markers: [securityCheck]
  - name: ghost
    markers: [include]
`

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "entityapi.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadManifest(t *testing.T) {
	m, err := LoadManifest(writeManifest(t, sampleManifest))
	if err != nil {
		t.Fatalf("LoadManifest failed: %v", err)
	}
	if m.Package != "models" {
		t.Errorf("unexpected package %q", m.Package)
	}
	if len(m.Entities) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(m.Entities))
	}
}

func TestLoadManifestErrors(t *testing.T) {
	if _, err := LoadManifest(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
	if _, err := LoadManifest(writeManifest(t, "entities: {not a list}")); err == nil {
		t.Error("expected an error for malformed YAML")
	}
}

func TestManifestScan(t *testing.T) {
	m, err := LoadManifest(writeManifest(t, sampleManifest))
	if err != nil {
		t.Fatal(err)
	}

	result := Scan(m.Index())
	if len(result.Matched) != 3 {
		t.Errorf("expected 3 matches, got %+v", result.Matched)
	}
	if len(result.Skipped) != 1 || result.Skipped[0].Name != "ghost" {
		t.Fatalf("the typeless entry must be skipped, got %+v", result.Skipped)
	}
	if !strings.Contains(result.Skipped[0].Reason, "no Go type") {
		t.Errorf("skip reason should explain the problem, got %q", result.Skipped[0].Reason)
	}
}

func TestGenerateRegistrations(t *testing.T) {
	m, err := LoadManifest(writeManifest(t, sampleManifest))
	if err != nil {
		t.Fatal(err)
	}

	src, err := GenerateRegistrations(m, Scan(m.Index()))
	if err != nil {
		t.Fatalf("GenerateRegistrations failed: %v", err)
	}

	code := string(src)
	if !strings.Contains(code, "package models") {
		t.Error("generated source must use the manifest package")
	}
	if !strings.Contains(code, `dictionary.Register[Account](d, "account"`) {
		t.Errorf("expected account registration, got:\n%s", code)
	}
	if !strings.Contains(code, `dictionary.Register[AccountProfile](d, "accountProfile"`) {
		t.Error("expected accountProfile registration")
	}
	if strings.Contains(code, "AdminOnlyCheck") {
		t.Error("security checks must not generate dictionary registrations")
	}
	if !strings.Contains(code, "DO NOT EDIT") {
		t.Error("generated source must carry the generated-code header")
	}
}
