package testmodels

import (
	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
)

// Account is a root entity with a server-generated identity and a one-to-one
// relationship to its profile. The profile shares the account's primary key.
type Account struct {

	// Unique identifier for the account. Generated when absent.
	// Format: uuid
	ID uuid.UUID `json:"id" entityapi:"id"`

	// Display name of the account holder.
	Name string `json:"name"`

	// Profile owned by this account.
	Profile *AccountProfile `json:"profile,omitempty" entityapi:"toOne,shared,entity=accountProfile"`

	// Timestamp when the account was created.
	// Format: date-time
	CreatedAt *strfmt.DateTime `json:"createdAt,omitempty"`
}

// AccountProfile is the non-root side of the one-to-one relationship. Its
// identity is the owning account's primary key.
type AccountProfile struct {

	// Identifier shared with the owning account.
	// Format: uuid
	ID uuid.UUID `json:"id" entityapi:"id"`

	// Free-form biography text.
	Bio string `json:"bio"`

	// Timestamp when the profile was last updated.
	// Format: date-time
	UpdatedAt *strfmt.DateTime `json:"updatedAt,omitempty"`
}
