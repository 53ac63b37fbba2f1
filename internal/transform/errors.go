package transform

import "errors"

// Errors returned by the registry and the Lua engine.
var (
	// ErrEngineClosed indicates use of a closed Lua engine.
	ErrEngineClosed = errors.New("lua engine is closed")

	// ErrNotFunction indicates a Lua transform body that did not compile to
	// a function.
	ErrNotFunction = errors.New("lua transform did not produce a function")

	// ErrEmptyName indicates a transform registered without a name.
	ErrEmptyName = errors.New("transform name is empty")
)
