/*
Package entityapi assembles a JSON:API data-access layer for Go applications,
binding entity metadata, storage backends, filter dialects, and permission
checks behind one immutable Settings value.

The library follows a design-time → build-time → runtime workflow:
  - Design-time: Define entities and tag their identity and relationships
  - Build-time: Generate dictionary registrations from an entity manifest
  - Runtime: Serve requests through settings-driven scopes and visitors

Key Features:
  - Type-safe storage operations using Go generics
  - Multiple storage backend support (DynamoDB, in-memory, more planned)
  - Manifest-driven entity registration and code generation
  - Pluggable filter dialects (equality, RSQL) with client-side evaluation
  - Semantic error types mapped to JSON:API error documents
  - Buffered audit logging committed per request

Basic Usage:

	dict := dictionary.NewEntityDictionary()
	binding, _ := dictionary.Register[Account](dict, "account")

	storage := datastore.NewStorageManager()
	_ = datastore.Register[Account](storage, "account", memstore.New[Account](binding))

	settings, err := entityapi.NewSettingsBuilder(storage).
		WithEntityDictionary(dict).
		WithUpdate200Status().
		Build()
	if err != nil {
		log.Fatal(err)
	}

The settings value is immutable and safe for concurrent reads; build it once
at startup and share it across request handlers.
*/
package entityapi
