package document

// LineEnding specifies the line ending style.
type LineEnding uint8

const (
	LineEndingLF   LineEnding = iota // Unix: \n
	LineEndingCRLF                   // Windows: \r\n
	LineEndingCR                     // Old Mac: \r
)

// String returns the string representation of the line ending.
func (le LineEnding) String() string {
	switch le {
	case LineEndingCRLF:
		return "\\r\\n"
	case LineEndingCR:
		return "\\r"
	default:
		return "\\n"
	}
}

// Sequence returns the actual line ending characters.
func (le LineEnding) Sequence() string {
	switch le {
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingCR:
		return "\r"
	default:
		return "\n"
	}
}

// ParseLineEnding converts "lf", "crlf" or "cr" to a LineEnding.
func ParseLineEnding(s string) (LineEnding, bool) {
	switch s {
	case "lf", "LF", "\n":
		return LineEndingLF, true
	case "crlf", "CRLF", "\r\n":
		return LineEndingCRLF, true
	case "cr", "CR", "\r":
		return LineEndingCR, true
	}
	return LineEndingLF, false
}

// DetectLineEnding returns a LineEnding based on the most common line ending in the text.
// Returns LineEndingLF if no line endings are found.
func DetectLineEnding(text string) LineEnding {
	var lfCount, crlfCount, crCount int

	i := 0
	for i < len(text) {
		if i+1 < len(text) && text[i] == '\r' && text[i+1] == '\n' {
			crlfCount++
			i += 2
		} else if text[i] == '\r' {
			crCount++
			i++
		} else if text[i] == '\n' {
			lfCount++
			i++
		} else {
			i++
		}
	}

	if crlfCount > 0 && crlfCount >= lfCount && crlfCount >= crCount {
		return LineEndingCRLF
	}
	if crCount > 0 && crCount >= lfCount && crCount >= crlfCount {
		return LineEndingCR
	}
	return LineEndingLF
}

// Option is a functional option for configuring a Document.
type Option func(*Document)

// WithLineEnding sets the line terminator used for generated text.
// By default it is detected from the initial content.
func WithLineEnding(le LineEnding) Option {
	return func(d *Document) {
		d.lineEnding = le
		d.lineEndingSet = true
	}
}

// WithIndentation sets the string one indentation level expands to.
func WithIndentation(indent string) Option {
	return func(d *Document) {
		if indent != "" {
			d.indentation = indent
		}
	}
}
