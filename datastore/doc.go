/*
Package datastore defines the persistence layer behind EntityAPI: the generic
DataStore[T] contract, the non-generic Storage handle the settings object
carries, and typed registration helpers.

The main interface is DataStore[T], which provides generic CRUD operations for
any entity type T:

	type DataStore[T any] interface {
	    GetOne(ctx context.Context, id string) (*T, error)
	    Put(ctx context.Context, entity *T) error
	    UpdateWithCondition(ctx context.Context, id string, updates map[string]any, condition string) error
	    Query(ctx context.Context, params *QueryParams) ([]T, error)
	    Delete(ctx context.Context, id string) error
	}

Implementations:
  - ddb: DynamoDB implementation keyed from entity dictionary bindings
  - memstore: in-memory implementation for tests and examples

Request handlers work through the dynamically-typed Accessor view; Register
adapts a typed store and places it in a Storage handle, and AccessorFor
resolves it back out.
*/
package datastore
