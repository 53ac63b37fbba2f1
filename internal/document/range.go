package document

import "fmt"

// Range represents a character range in the document.
// Start is inclusive, End is exclusive: [Start, End).
type Range struct {
	Start int
	End   int
}

// NewRange creates a Range from an offset and a length.
func NewRange(offset, length int) Range {
	return Range{Start: offset, End: offset + length}
}

// String returns a human-readable representation of the range.
func (r Range) String() string {
	return fmt.Sprintf("[%d:%d)", r.Start, r.End)
}

// Len returns the length of the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// IsEmpty returns true if the range has zero length.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// Overlaps returns true if the two half-open ranges share at least one character.
func (r Range) Overlaps(other Range) bool {
	return r.Start < other.End && other.Start < r.End
}

// Touches returns true if the closed intervals [Start, End] intersect.
// Adjacent ranges and empty ranges at a boundary touch.
func (r Range) Touches(other Range) bool {
	return max(r.Start, other.Start) <= min(r.End, other.End)
}
