/*
Package errors provides semantic error types for the EntityAPI library.

The package defines common error scenarios with specific types that can be
checked using the standard errors.Is() function or the provided helper functions.

Common Errors:

	var (
	    ErrNotFound             = errors.New("entity not found")
	    ErrAlreadyExists        = errors.New("entity already exists")
	    ErrInvalidInput         = errors.New("invalid input")
	    ErrConditionFailed      = errors.New("condition check failed")
	    ErrInvalidConfiguration = errors.New("invalid configuration")
	    ErrUnknownEntity        = errors.New("unknown entity type")
	    ErrForbidden            = errors.New("operation forbidden")
	)

Usage:

	// Check error type
	account, err := store.GetOne(ctx, "123")
	if err != nil {
	    if errors.IsNotFound(err) {
	        // Handle not found case
	        return nil, fmt.Errorf("account %s does not exist", "123")
	    }
	    return nil, err
	}

	// Create typed errors
	err := errors.NewNotFoundError("Account", "123")
	err := errors.NewValidationError("email", "invalid format")
	err := errors.NewConfigurationError("entityDictionary", "must be set")

The error types implement the error interface and support wrapping,
making them compatible with Go's standard error handling patterns.
*/
package errors
