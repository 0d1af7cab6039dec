/*
Package ddb provides a DynamoDB implementation of the DataStore interface.

The Store supports:
  - Single-table design with a composite "<ENTITY>#<id>" partition/sort key
  - Automatic EntityType injection for polymorphic storage
  - Server-generated UUID identities on Put
  - Conditional updates for optimistic locking
  - Client-side filter, sort, and pagination evaluation on Query

Keys are derived from the entity dictionary binding, so a store never needs
per-type key configuration:

	binding, _ := dictionary.Register[Account](dict, "account")
	client, _ := ddb.NewClient(accessKey, secretKey, region)
	store := ddb.New[Account](client, tableName, binding)

Query performs a filtered table scan and evaluates the query expression in
the client. Deployments with large collections should front the scan with a
GSI keyed on the EntityType attribute.
*/
package ddb
