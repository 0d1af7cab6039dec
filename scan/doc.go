/*
Package scan matches a build-time type index against the fixed marker set
and builds the registry consumed by code generation and startup wiring.

In place of runtime reflection over annotations, types are declared in a
YAML manifest (see Manifest). Scan resolves each marked descriptor exactly
once: a type carrying several markers produces a single match that records
all of them, and a descriptor that fails to resolve is reported as a skip
with its reason rather than dropped.

The scan runs once, single-threaded, during build or deployment. The
resulting Registry is constructed at startup and passed explicitly; there is
no package-level registry state.
*/
package scan
