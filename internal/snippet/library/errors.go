package library

import "errors"

// Errors returned by the library.
var (
	// ErrUnsupportedFormat indicates a library file with an unknown extension.
	ErrUnsupportedFormat = errors.New("unsupported snippet library format")

	// ErrNotFound indicates a snippet name that is not loaded.
	ErrNotFound = errors.New("snippet not found")

	// ErrWatching indicates Watch was called twice.
	ErrWatching = errors.New("library is already being watched")
)
