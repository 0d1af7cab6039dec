/*
Package request builds per-request scopes from the framework settings.

A Scope normalizes headers, parses pagination, runs the configured filter
dialects, validates the sort order, and instantiates a permission executor.
Handlers consume the scope through its QueryParams and Executor accessors.
*/
package request
