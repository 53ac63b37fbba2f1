package logging

// Field name constants for structured logging.
const (
	FieldError   = "error"
	FieldPath    = "path"
	FieldSession = "session"
	FieldContext = "context"

	// Search fields.
	FieldPattern = "pattern"
	FieldMode    = "mode"
	FieldResults = "results"
	FieldReplace = "replaced"

	// Snippet fields.
	FieldSnippet  = "snippet"
	FieldStatus   = "status"
	FieldReason   = "reason"
	FieldElements = "elements"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
)
