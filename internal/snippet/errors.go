package snippet

import "errors"

// Errors returned by Parse.
var (
	// ErrSyntax indicates a malformed template.
	ErrSyntax = errors.New("snippet syntax error")

	// ErrUnknownTransform indicates a ${name|transform} field naming a
	// transform that is not registered.
	ErrUnknownTransform = errors.New("unknown transform")
)
