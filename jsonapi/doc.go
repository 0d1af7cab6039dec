/*
Package jsonapi models JSON:API documents and converts them to and from
their wire form.

A Document carries primary data that is either a single resource or a
collection; PrimaryData and RelationshipData render the object-or-array
distinction the format requires. Mapper handles encoding, and ErrorMapper
translates application errors into error objects with HTTP statuses.

The parser subpackage dispatches parsed requests to deferred handler
computations producing (status, *Document) pairs.
*/
package jsonapi
