/*
Package dictionary implements the entity dictionary: the runtime registry
mapping exposed model types to their metadata (attributes, relationships,
markers, and permission checks).

Bindings are derived from struct tags at registration time:

	type AccountProfile struct {
	    ID  uuid.UUID `json:"id" entityapi:"id"`
	    Bio string    `json:"bio"`
	    Account *Account `json:"account" entityapi:"toOne,shared"`
	}

	dict := dictionary.NewEntityDictionary()
	binding, err := dictionary.Register[AccountProfile](dict, "accountProfile",
	    dictionary.WithMarkers("include"),
	    dictionary.WithCheck("update", "ownerOnly"),
	)

The dictionary is an explicit value constructed once at startup and threaded
through configuration; it is safe for concurrent reads after registration.
*/
package dictionary
