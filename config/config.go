/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package config loads optional file-based overrides for the settings
// builder. Deployments keep an entityapi.yaml next to the binary and a .env
// for environment secrets; both are optional.
package config

import (
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/suparena/entityapi"
)

// FileConfig mirrors the entityapi.yaml layout. Zero values mean "keep the
// builder default".
type FileConfig struct {
	BaseURL            string `yaml:"baseUrl"`
	JSONAPIPath        string `yaml:"jsonApiPath"`
	GraphQLAPIPath     string `yaml:"graphqlApiPath"`
	ExportAPIPath      string `yaml:"exportApiPath"`
	DefaultPageSize    int    `yaml:"defaultPageSize"`
	DefaultMaxPageSize int    `yaml:"defaultMaxPageSize"`
	UpdateStatusCode   int    `yaml:"updateStatusCode"`
	StrictQueryParams  *bool  `yaml:"strictQueryParams"`
	VerboseErrors      bool   `yaml:"verboseErrors"`
}

// Load reads the config file, after loading a .env file into the process
// environment when one is present. ENTITYAPI_BASE_URL overrides the file's
// base URL.
func Load(path string) (*FileConfig, error) {
	// Missing .env is fine; environment variables may already be set.
	_ = godotenv.Load()

	cfg := new(FileConfig)
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnv()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *FileConfig) applyEnv() {
	if v := os.Getenv("ENTITYAPI_BASE_URL"); v != "" {
		c.BaseURL = v
	}
}

// Apply writes the overrides onto a settings builder.
func (c *FileConfig) Apply(b *entityapi.SettingsBuilder) error {
	if c.BaseURL != "" {
		b.WithBaseURL(c.BaseURL)
	}
	if c.JSONAPIPath != "" {
		b.WithJSONAPIPath(c.JSONAPIPath)
	}
	if c.GraphQLAPIPath != "" {
		b.WithGraphQLAPIPath(c.GraphQLAPIPath)
	}
	if c.ExportAPIPath != "" {
		b.WithExportAPIPath(c.ExportAPIPath)
	}
	if c.DefaultPageSize > 0 {
		b.WithDefaultPageSize(c.DefaultPageSize)
	}
	if c.DefaultMaxPageSize > 0 {
		b.WithDefaultMaxPageSize(c.DefaultMaxPageSize)
	}
	switch c.UpdateStatusCode {
	case 0:
	case http.StatusOK:
		b.WithUpdate200Status()
	case http.StatusNoContent:
		b.WithUpdate204Status()
	default:
		return fmt.Errorf("updateStatusCode must be 200 or 204, got %d", c.UpdateStatusCode)
	}
	if c.StrictQueryParams != nil {
		b.WithStrictQueryParams(*c.StrictQueryParams)
	}
	if c.VerboseErrors {
		b.WithVerboseErrors()
	}
	return nil
}
