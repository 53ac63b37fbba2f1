package textarea

import (
	"fmt"

	"github.com/dshills/liveedit/internal/document"
)

// Selection represents a range of selected text.
// Anchor is where the selection started; Head is where typing occurs.
// When Anchor == Head, this represents a caret with no selection.
// Selection is an immutable value type.
type Selection struct {
	Anchor int
	Head   int
}

// NewSelection creates a selection from anchor to head.
func NewSelection(anchor, head int) Selection {
	return Selection{Anchor: anchor, Head: head}
}

// NewRangeSelection creates a forward selection covering the given range.
func NewRangeSelection(r document.Range) Selection {
	return Selection{Anchor: r.Start, Head: r.End}
}

// IsEmpty returns true if the selection has no extent.
func (s Selection) IsEmpty() bool {
	return s.Anchor == s.Head
}

// Len returns the length of the selection.
func (s Selection) Len() int {
	if s.Anchor <= s.Head {
		return s.Head - s.Anchor
	}
	return s.Anchor - s.Head
}

// Range returns the selection as a range (always Start <= End).
func (s Selection) Range() document.Range {
	return document.Range{Start: s.Start(), End: s.End()}
}

// Start returns the lower bound of the selection.
func (s Selection) Start() int {
	return min(s.Anchor, s.Head)
}

// End returns the upper bound of the selection.
func (s Selection) End() int {
	return max(s.Anchor, s.Head)
}

// String returns a human-readable representation.
func (s Selection) String() string {
	return fmt.Sprintf("Selection(%d->%d)", s.Anchor, s.Head)
}

// transform updates a selection after a change. The anchor stays in front
// of text inserted at its position; the head moves behind it.
func (s Selection) transform(c document.Change) Selection {
	return Selection{
		Anchor: c.NewOffset(s.Anchor, document.BeforeInsertion),
		Head:   c.NewOffset(s.Head, document.AfterInsertion),
	}
}

func (s Selection) clamp(maxOffset int) Selection {
	return Selection{
		Anchor: min(max(s.Anchor, 0), maxOffset),
		Head:   min(max(s.Head, 0), maxOffset),
	}
}
