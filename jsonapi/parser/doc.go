/*
Package parser dispatches parsed JSON:API requests to deferred handler
computations.

ParseQuery decodes a request path into a QueryContext. One Visitor exists per
HTTP verb; each returns the matching StateContext entry point as a Deferred
without evaluating it, so the caller controls when the work runs:

	state := parser.NewStateContext(ctx, scope)
	deferred := parser.NewPatchVisitor(state).VisitQuery(query)
	status, doc := deferred()

The visitors contain no request logic of their own. All interpretation lives
in the StateContext handlers, which walk scope → dictionary → datastore and
render the outcome as a (status, document) pair.
*/
package parser
