package cli

import "errors"

var (
	// ErrNoMatches is returned by search when nothing matched. It only
	// selects the exit code.
	ErrNoMatches = errors.New("no matches")

	// ErrUnknownField indicates --set named a field the snippet lacks.
	ErrUnknownField = errors.New("unknown snippet field")
)
