package document

import "unicode/utf8"

// Change describes a single edit applied to a document.
type Change struct {
	Offset       int    // Start of the edit
	RemovedText  string // Text that was removed (for delete/replace)
	InsertedText string // Text that was added (for insert/replace)
}

// RemovalLength returns the number of characters removed.
func (c Change) RemovalLength() int {
	return utf8.RuneCountInString(c.RemovedText)
}

// InsertionLength returns the number of characters inserted.
func (c Change) InsertionLength() int {
	return utf8.RuneCountInString(c.InsertedText)
}

// NewOffset maps a pre-change offset to its post-change position.
//
// Transformation rules:
//   - offset before the edit: unchanged
//   - offset after the removed span (or at its right edge): shifted by the length difference
//   - offset at the edit start or inside the removed span: collapses to the
//     edit start, then BeforeInsertion stays there and AfterInsertion moves
//     past the inserted text
func (c Change) NewOffset(offset int, movement MovementType) int {
	return c.mapOffset(offset, c.RemovalLength(), c.InsertionLength(), movement)
}

func (c Change) mapOffset(offset, removed, inserted int, movement MovementType) int {
	end := c.Offset + removed
	switch {
	case offset < c.Offset:
		return offset
	case offset > end:
		return offset + inserted - removed
	case offset == end && removed > 0:
		return c.Offset + inserted
	case movement == AfterInsertion:
		return c.Offset + inserted
	default:
		return c.Offset
	}
}

// deletes reports whether an offset lies strictly inside the removed span.
func (c Change) deletes(offset, removed int) bool {
	return offset > c.Offset && offset < c.Offset+removed
}
